// Package pipeline provides the high-level orchestration of a tailoring run:
// validation, scoring, tailoring and optional persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/ingestion"
	"github.com/jonathan/ats-tailor/internal/logger"
	"github.com/jonathan/ats-tailor/internal/store"
	"github.com/jonathan/ats-tailor/internal/tailoring"
	"github.com/jonathan/ats-tailor/internal/types"
)

// Step names reported in progress events.
const (
	StepValidate = "validate"
	StepAnalyze  = "analyze"
	StepSemantic = "semantic"
	StepTailor   = "tailor"
	StepPersist  = "persist"
)

// Step categories.
const (
	CategoryScoring   = "scoring"
	CategoryTailoring = "tailoring"
	CategoryStorage   = "storage"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. RunBatch calls it
// from several goroutines.
type ProgressCallback func(event ProgressEvent)

// Options holds the collaborators of a run. Engine and Scorer are required;
// Semantic and Store are optional.
type Options struct {
	Engine     *tailoring.Engine
	Scorer     *ats.Scorer
	Semantic   *ats.SemanticScorer
	Store      store.Store
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Report is the outcome of one run.
type Report struct {
	ID       string            `json:"id,omitempty"`
	Status   string            `json:"status"`
	Analysis ats.Analysis      `json:"analysis"`
	Hybrid   *ats.HybridScore  `json:"hybrid,omitempty"`
	Result   *tailoring.Result `json:"result,omitempty"`
	RecordID string            `json:"record_id,omitempty"`
	Error    string            `json:"error,omitempty"`
	Duration time.Duration     `json:"duration_ns"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, runID, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}

// Run tailors one résumé/job pair. Invalid input is returned as an error
// without a report. A tailoring failure yields a report with status "failed"
// together with the *tailoring.PipelineError.
func Run(ctx context.Context, in types.TailorInput, opts Options) (*Report, error) {
	if opts.Engine == nil || opts.Scorer == nil {
		return nil, fmt.Errorf("pipeline requires an engine and a scorer")
	}
	log := logger.OrNop(opts.Logger).With(zap.String(logger.FieldPair, in.ID))
	start := time.Now()

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate input: %w", err)
	}
	emitProgress(&opts, in.ID, StepValidate, CategoryScoring, "Input validated", nil)

	analysis := opts.Scorer.Analyze(in.JobText, in.ResumeText)
	report := &Report{ID: in.ID, Analysis: analysis}
	emitProgress(&opts, in.ID, StepAnalyze, CategoryScoring,
		fmt.Sprintf("ATS score %.1f: %d matched, %d missing skills",
			analysis.Breakdown.Overall, len(analysis.MatchedSkills), len(analysis.MissingSkills)), analysis)

	if opts.Semantic != nil {
		hybrid := opts.Semantic.Hybrid(ctx, in.JobText, in.ResumeText)
		report.Hybrid = &hybrid
		emitProgress(&opts, in.ID, StepSemantic, CategoryScoring,
			fmt.Sprintf("Hybrid score %.2f (semantic %.2f)", hybrid.Overall, hybrid.SemanticScore), hybrid)
	}

	result, tailorErr := opts.Engine.Tailor(ctx, tailoring.Input{
		ResumeText:    in.ResumeText,
		JobText:       in.JobText,
		MatchedSkills: analysis.MatchedSkills,
		MissingSkills: analysis.MissingSkills,
		ScoreBefore:   analysis.Breakdown.Overall,
	})
	if tailorErr != nil {
		report.Status = store.StatusFailed
		report.Error = tailorErr.Error()
		emitProgress(&opts, in.ID, StepTailor, CategoryTailoring, "Tailoring failed: "+tailorErr.Error(), nil)
	} else {
		report.Status = store.StatusCompleted
		report.Result = result
		emitProgress(&opts, in.ID, StepTailor, CategoryTailoring,
			fmt.Sprintf("Tailored résumé: %d changes, score %.1f → %.1f",
				len(result.ChangeSummary), result.ATSScoreBefore, result.ATSScoreAfter), result)
	}

	if opts.Store != nil {
		id, err := opts.Store.SaveResult(ctx, newRecord(in, report))
		if err != nil {
			// persistence is best effort; the report is still returned
			log.Warn("failed to persist result", zap.Error(err))
		} else {
			report.RecordID = id.String()
			emitProgress(&opts, in.ID, StepPersist, CategoryStorage, "Saved result "+report.RecordID, nil)
		}
	}

	report.Duration = time.Since(start)
	if tailorErr != nil {
		return report, tailorErr
	}
	return report, nil
}

func newRecord(in types.TailorInput, report *Report) *store.Record {
	rec := &store.Record{
		ResumeHash:     ingestion.ComputeHash(in.ResumeText),
		JobHash:        ingestion.ComputeHash(in.JobText),
		OriginalText:   in.ResumeText,
		ATSScoreBefore: report.Analysis.Breakdown.Overall,
		Status:         report.Status,
		ErrorMessage:   report.Error,
	}
	if report.Result != nil {
		rec.TailoredText = report.Result.TailoredText
		rec.ChangeSummary = report.Result.ChangeSummary
		rec.ATSScoreAfter = report.Result.ATSScoreAfter
	}
	return rec
}

// IsTailoringFailure reports whether err came from the tailoring stage rather
// than from input validation.
func IsTailoringFailure(err error) bool {
	var pe *tailoring.PipelineError
	return errors.As(err, &pe)
}
