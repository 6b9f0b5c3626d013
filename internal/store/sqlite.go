package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps results in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and creates the results table.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts, err := migration(DriverSQLite)
	if err != nil {
		return fmt.Errorf("failed to load migration: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult stores a tailoring record.
func (s *SQLiteStore) SaveResult(ctx context.Context, rec *Record) (uuid.UUID, error) {
	if err := prepare(rec); err != nil {
		return uuid.Nil, err
	}
	changes, err := json.Marshal(rec.ChangeSummary)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal change summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tailored_resumes
		 (id, resume_hash, job_hash, original_text, tailored_text, change_summary,
		  ats_score_before, ats_score_after, status, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.ResumeHash, rec.JobHash, rec.OriginalText, rec.TailoredText, string(changes),
		rec.ATSScoreBefore, rec.ATSScoreAfter, rec.Status, rec.ErrorMessage, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save result: %w", err)
	}
	return rec.ID, nil
}

const sqliteColumns = `id, resume_hash, job_hash, original_text, COALESCE(tailored_text, ''), change_summary,
	COALESCE(ats_score_before, 0), COALESCE(ats_score_after, 0), status, COALESCE(error_message, ''), created_at`

// GetResult retrieves a record by ID.
func (s *SQLiteStore) GetResult(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteColumns+` FROM tailored_resumes WHERE id = ?`, id.String())
	rec, err := scanSQLite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}
	return rec, nil
}

// ListResults returns up to limit records, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM tailored_resumes ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*Record, error) {
	var rec Record
	var id, changes string
	var createdAt int64
	err := row.Scan(&id, &rec.ResumeHash, &rec.JobHash, &rec.OriginalText, &rec.TailoredText, &changes,
		&rec.ATSScoreBefore, &rec.ATSScoreAfter, &rec.Status, &rec.ErrorMessage, &createdAt)
	if err != nil {
		return nil, err
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(changes), &rec.ChangeSummary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal change summary: %w", err)
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}
