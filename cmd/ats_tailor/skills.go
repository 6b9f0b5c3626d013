package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Extract categorized catalog skills from a document",
	Long: `Read a résumé or job description (text or HTML) and print the catalog skills it mentions, grouped by category, as JSON.

With --catalog the built-in skill catalog is printed instead.`,
	RunE: runSkills,
}

var (
	skillsInputFile string
	skillsCatalog   bool
)

func init() {
	skillsCmd.Flags().StringVarP(&skillsInputFile, "in", "i", "", "Path to a text or HTML document")
	skillsCmd.Flags().BoolVar(&skillsCatalog, "catalog", false, "Print the skill catalog by category")
	skillsCmd.MarkFlagsOneRequired("in", "catalog")
	skillsCmd.MarkFlagsMutuallyExclusive("in", "catalog")

	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	if skillsCatalog {
		return writeJSON(cmd.OutOrStdout(), skills.Default().Categories())
	}

	text, meta, err := ingestion.ReadDocument(skillsInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	categorized := skills.Default().Extract(text)
	return writeJSON(cmd.OutOrStdout(), struct {
		Document   *ingestion.Metadata `json:"document"`
		Categories skills.Categorized  `json:"categories"`
		All        []string            `json:"all"`
	}{
		Document:   meta,
		Categories: categorized,
		All:        skills.Flatten(categorized).Sorted(),
	})
}
