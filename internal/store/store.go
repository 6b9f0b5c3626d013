// Package store persists tailoring results in PostgreSQL or SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ats-tailor/internal/tailoring"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("tailored resume not found")

// Record is one persisted tailoring run.
type Record struct {
	ID             uuid.UUID               `json:"id"`
	ResumeHash     string                  `json:"resume_hash"`
	JobHash        string                  `json:"job_hash"`
	OriginalText   string                  `json:"original_text"`
	TailoredText   string                  `json:"tailored_text,omitempty"`
	ChangeSummary  []tailoring.ChangeEntry `json:"change_summary"`
	ATSScoreBefore float64                 `json:"ats_score_before"`
	ATSScoreAfter  float64                 `json:"ats_score_after"`
	Status         string                  `json:"status"`
	ErrorMessage   string                  `json:"error_message,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Store saves and loads tailoring records.
type Store interface {
	// SaveResult inserts rec and returns its ID. A zero ID or CreatedAt is filled in.
	SaveResult(ctx context.Context, rec *Record) (uuid.UUID, error)
	GetResult(ctx context.Context, id uuid.UUID) (*Record, error)
	// ListResults returns the newest records first.
	ListResults(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open connects to the store named by driver and applies its migration.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// prepare fills the generated fields of rec and validates its status.
func prepare(rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusCompleted
	}
	if rec.Status != StatusCompleted && rec.Status != StatusFailed {
		return fmt.Errorf("invalid status %q", rec.Status)
	}
	if rec.ChangeSummary == nil {
		rec.ChangeSummary = []tailoring.ChangeEntry{}
	}
	return nil
}

// splitStatements splits a migration script on statement terminators.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
