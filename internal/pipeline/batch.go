package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-tailor/internal/store"
	"github.com/jonathan/ats-tailor/internal/types"
)

// DefaultConcurrency bounds concurrent runs when the caller gives no limit.
const DefaultConcurrency = 4

// RunBatch runs every input with at most concurrency runs in flight. The
// reports are returned in input order. A failing pair is recorded in its own
// report and never cancels the others; only cancellation of ctx stops runs
// that have not started yet.
func RunBatch(ctx context.Context, inputs []types.TailorInput, concurrency int, opts Options) []*Report {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	reports := make([]*Report, len(inputs))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				reports[i] = failedReport(in.ID, fmt.Errorf("batch cancelled: %w", err))
				return nil
			}

			report, err := Run(ctx, in, opts)
			if report == nil {
				report = failedReport(in.ID, err)
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

func failedReport(id string, err error) *Report {
	return &Report{ID: id, Status: store.StatusFailed, Error: err.Error()}
}

// Summary counts completed and failed reports.
func Summary(reports []*Report) (completed, failed int) {
	for _, r := range reports {
		if r.Status == store.StatusCompleted {
			completed++
		} else {
			failed++
		}
	}
	return completed, failed
}
