// Package main provides the ats_tailor CLI: ATS scoring and résumé tailoring against a job description.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ats_tailor",
	Short: "ATS résumé scoring and tailoring",
	Long: "ats_tailor scores a résumé against a job description the way an applicant tracking system does, " +
		"and tailors the résumé towards the job with an AI rewrite and a rule-based fallback that never invents experience.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
