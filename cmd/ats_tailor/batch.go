package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/pipeline"
	"github.com/jonathan/ats-tailor/internal/schemas"
	"github.com/jonathan/ats-tailor/internal/store"
	"github.com/jonathan/ats-tailor/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Tailor many résumé/job pairs concurrently",
	Long: "Read a JSON manifest of {id, resume_path, job_path} entries, tailor every pair with bounded concurrency " +
		"and write <id>.json per pair plus summary.json to the output directory. A failing pair does not stop the others.",
	RunE: runBatch,
}

var (
	batchManifestFile string
	batchOutDir       string
	batchConcurrency  int
	batchPersist      bool
)

func init() {
	batchCmd.Flags().StringVar(&batchManifestFile, "manifest", "", "Path to the batch manifest JSON (required)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "Directory for per-pair results (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", pipeline.DefaultConcurrency, "Maximum pairs tailored at once")
	batchCmd.Flags().BoolVar(&batchPersist, "persist", false, "Save every result in the configured store")
	addTailoringFlags(batchCmd)
	_ = batchCmd.MarkFlagRequired("manifest")
	_ = batchCmd.MarkFlagRequired("out-dir")

	rootCmd.AddCommand(batchCmd)
}

type batchSummary struct {
	Completed int                `json:"completed"`
	Failed    int                `json:"failed"`
	Reports   []*pipeline.Report `json:"reports"`
}

func runBatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	progress := cmd.ErrOrStderr()
	manifest, err := loadManifest(batchManifestFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(progress, "Step 1/3: Reading %d pairs...\n", len(manifest.Entries))
	inputs := make([]types.TailorInput, 0, len(manifest.Entries))
	for _, e := range manifest.Entries {
		in, err := readPair(manifestDir(batchManifestFile), e)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}

	opts, err := a.pipelineOptions(cmd, batchPersist)
	if err != nil {
		return err
	}
	opts.OnProgress = func(e pipeline.ProgressEvent) {
		if e.Step == pipeline.StepTailor {
			fmt.Fprintf(progress, "  [%s] %s\n", e.RunID, e.Message)
		}
	}

	fmt.Fprintf(progress, "Step 2/3: Tailoring with concurrency %d...\n", batchConcurrency)
	reports := pipeline.RunBatch(cmd.Context(), inputs, batchConcurrency, opts)

	fmt.Fprintf(progress, "Step 3/3: Writing results to %s...\n", batchOutDir)
	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, r := range reports {
		if r.Status != store.StatusCompleted {
			continue
		}
		if err := schemas.ValidateResult(r.Result); err != nil {
			return fmt.Errorf("result %s failed schema validation: %w", r.ID, err)
		}
		if err := writeJSONFile(filepath.Join(batchOutDir, r.ID+".json"), r.Result); err != nil {
			return err
		}
	}

	completed, failed := pipeline.Summary(reports)
	summary := batchSummary{Completed: completed, Failed: failed, Reports: reports}
	if err := writeJSONFile(filepath.Join(batchOutDir, "summary.json"), summary); err != nil {
		return err
	}

	fmt.Fprintf(progress, "Completed %d, failed %d\n", completed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d pairs failed (see summary.json)", failed, len(reports))
	}
	return nil
}

func loadManifest(path string) (*types.BatchManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest types.BatchManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &manifest, nil
}

func manifestDir(path string) string {
	return filepath.Dir(path)
}

// readPair reads the documents of one manifest entry. Relative paths are
// resolved against the manifest's directory.
func readPair(base string, e types.BatchEntry) (types.TailorInput, error) {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	resumeText, _, err := ingestion.ReadDocument(resolve(e.ResumePath))
	if err != nil {
		return types.TailorInput{}, fmt.Errorf("failed to read résumé for %s: %w", e.ID, err)
	}
	jobText, _, err := ingestion.ReadDocument(resolve(e.JobPath))
	if err != nil {
		return types.TailorInput{}, fmt.Errorf("failed to read job description for %s: %w", e.ID, err)
	}
	return types.TailorInput{ID: e.ID, ResumeText: resumeText, JobText: jobText}, nil
}
