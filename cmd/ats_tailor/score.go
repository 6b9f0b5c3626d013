package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/observability"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a résumé against a job description",
	Long: "Compute the ATS score of a résumé against a job description: skill overlap, keyword overlap and the experience " +
		"heuristic, plus the matched and missing skills. With --semantic the embedding-based hybrid score is added.",
	RunE: runScore,
}

var (
	scoreJobFile    string
	scoreResumeFile string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreJobFile, "job", "", "Path to the job description (required)")
	scoreCmd.Flags().StringVar(&scoreResumeFile, "resume", "", "Path to the résumé (required)")
	scoreCmd.Flags().Bool("semantic", false, "Add the embedding-based hybrid score (needs GEMINI_API_KEY)")
	_ = scoreCmd.MarkFlagRequired("job")
	_ = scoreCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	jobText, _, err := ingestion.ReadDocument(scoreJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	resumeText, _, err := ingestion.ReadDocument(scoreResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	analysis := a.scorer.Analyze(jobText, resumeText)
	out := struct {
		ats.Analysis
		Hybrid *ats.HybridScore `json:"hybrid,omitempty"`
	}{Analysis: analysis}

	semantic, err := a.semantic(cmd.Context())
	if err != nil {
		return err
	}
	if semantic != nil {
		hybrid := semantic.Hybrid(cmd.Context(), jobText, resumeText)
		out.Hybrid = &hybrid
	}

	if verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintAnalysis(&analysis)
		printer.PrintHybrid(out.Hybrid)
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
