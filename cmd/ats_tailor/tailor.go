package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/observability"
	"github.com/jonathan/ats-tailor/internal/pipeline"
	"github.com/jonathan/ats-tailor/internal/schemas"
	"github.com/jonathan/ats-tailor/internal/store"
	"github.com/jonathan/ats-tailor/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a résumé to a job description",
	Long: "Score the résumé, rewrite its tailorable sections towards the job (AI rewrite when a provider is configured, " +
		"rule-based keyword injection otherwise), rescore, and write the tailoring result with its change summary as JSON.",
	RunE: runTailor,
}

var (
	tailorJobFile    string
	tailorResumeFile string
	tailorOutFile    string
	tailorTextOut    string
	tailorPersist    bool
)

func init() {
	tailorCmd.Flags().StringVar(&tailorJobFile, "job", "", "Path to the job description (required)")
	tailorCmd.Flags().StringVar(&tailorResumeFile, "resume", "", "Path to the résumé (required)")
	tailorCmd.Flags().StringVarP(&tailorOutFile, "out", "o", "", "Path to output JSON file (default stdout)")
	tailorCmd.Flags().StringVar(&tailorTextOut, "text-out", "", "Also write the tailored résumé text to this path")
	tailorCmd.Flags().BoolVar(&tailorPersist, "persist", false, "Save the result in the configured store")
	addTailoringFlags(tailorCmd)
	_ = tailorCmd.MarkFlagRequired("job")
	_ = tailorCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(tailorCmd)
}

// addTailoringFlags registers the flags shared by tailor and batch.
func addTailoringFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-ai", false, "Skip the AI rewrite and use rule-based tailoring only")
	cmd.Flags().String("provider", "", "AI provider: openai, gemini or anthropic")
	cmd.Flags().String("model", "", "Override the provider's default model")
	cmd.Flags().Duration("timeout", 0, "Timeout of each AI call (default 30s)")
	cmd.Flags().Bool("semantic", false, "Add the embedding-based hybrid score (needs GEMINI_API_KEY)")
}

// pipelineOptions assembles the pipeline collaborators, opening the store when persist is set.
func (a *app) pipelineOptions(cmd *cobra.Command, persist bool) (pipeline.Options, error) {
	ctx := cmd.Context()
	engine, err := a.engine(ctx)
	if err != nil {
		return pipeline.Options{}, err
	}
	semantic, err := a.semantic(ctx)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Engine:   engine,
		Scorer:   a.scorer,
		Semantic: semantic,
		Logger:   a.logger,
	}
	if persist {
		if opts.Store, err = a.openStore(ctx); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

func runTailor(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	progress := cmd.ErrOrStderr()
	fmt.Fprintf(progress, "Step 1/4: Reading job description and résumé...\n")
	jobText, _, err := ingestion.ReadDocument(tailorJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	resumeText, _, err := ingestion.ReadDocument(tailorResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	opts, err := a.pipelineOptions(cmd, tailorPersist)
	if err != nil {
		return err
	}
	if opts.Engine.AIEnabled() {
		fmt.Fprintf(progress, "Step 2/4: Tailoring with %s...\n", a.cfg.AI.Provider)
	} else {
		fmt.Fprintf(progress, "Step 2/4: Tailoring with rule-based fallback...\n")
	}

	report, runErr := pipeline.Run(cmd.Context(), types.TailorInput{ResumeText: resumeText, JobText: jobText}, opts)
	if report == nil {
		return runErr
	}
	if runErr != nil {
		if pipeline.IsTailoringFailure(runErr) {
			fmt.Fprintf(progress, "Tailoring failed: %v\n", runErr)
		}
		if report.RecordID != "" {
			fmt.Fprintf(progress, "Saved failed run as %s\n", report.RecordID)
		}
		return runErr
	}

	fmt.Fprintf(progress, "Step 3/4: Validating result...\n")
	if err := schemas.ValidateResult(report.Result); err != nil {
		return fmt.Errorf("tailoring result failed schema validation: %w", err)
	}

	if verbose {
		printer := observability.NewPrinter(progress)
		printer.PrintAnalysis(&report.Analysis)
		printer.PrintHybrid(report.Hybrid)
		printer.PrintChangeSummary(report.Result)
	}

	fmt.Fprintf(progress, "Step 4/4: Writing output...\n")
	if tailorTextOut != "" {
		if err := os.WriteFile(tailorTextOut, []byte(report.Result.TailoredText), 0644); err != nil {
			return fmt.Errorf("failed to write tailored text: %w", err)
		}
	}
	if tailorOutFile == "" {
		if err := writeJSON(cmd.OutOrStdout(), report.Result); err != nil {
			return err
		}
	} else if err := writeJSONFile(tailorOutFile, report.Result); err != nil {
		return err
	}

	fmt.Fprintf(progress, "ATS score %.1f → %.1f, %d changes in %s\n",
		report.Result.ATSScoreBefore, report.Result.ATSScoreAfter,
		len(report.Result.ChangeSummary), report.Duration.Round(time.Millisecond))
	if report.RecordID != "" {
		fmt.Fprintf(progress, "Saved as %s (%s)\n", report.RecordID, store.StatusCompleted)
	}
	return nil
}
