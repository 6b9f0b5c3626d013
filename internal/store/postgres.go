package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore wraps a PostgreSQL connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres establishes a connection pool and creates the results table.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts, err := migration(DriverPostgres)
	if err != nil {
		return fmt.Errorf("failed to load migration: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// SaveResult stores a tailoring record
func (s *PostgresStore) SaveResult(ctx context.Context, rec *Record) (uuid.UUID, error) {
	if err := prepare(rec); err != nil {
		return uuid.Nil, err
	}
	changes, err := json.Marshal(rec.ChangeSummary)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal change summary: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO tailored_resumes
		 (id, resume_hash, job_hash, original_text, tailored_text, change_summary,
		  ats_score_before, ats_score_after, status, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.ResumeHash, rec.JobHash, rec.OriginalText, rec.TailoredText, changes,
		rec.ATSScoreBefore, rec.ATSScoreAfter, rec.Status, rec.ErrorMessage, rec.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save result: %w", err)
	}
	return rec.ID, nil
}

const postgresColumns = `id, resume_hash, job_hash, original_text, COALESCE(tailored_text, ''), change_summary,
	COALESCE(ats_score_before, 0), COALESCE(ats_score_after, 0), status, COALESCE(error_message, ''), created_at`

// GetResult retrieves a record by ID
func (s *PostgresStore) GetResult(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresColumns+` FROM tailored_resumes WHERE id = $1`, id)
	rec, err := scanPostgres(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}
	return rec, nil
}

// ListResults returns up to limit records, newest first
func (s *PostgresStore) ListResults(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresColumns+` FROM tailored_resumes ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanPostgres(rows)
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

func scanPostgres(row pgx.Row) (*Record, error) {
	var rec Record
	var changes []byte
	err := row.Scan(&rec.ID, &rec.ResumeHash, &rec.JobHash, &rec.OriginalText, &rec.TailoredText, &changes,
		&rec.ATSScoreBefore, &rec.ATSScoreAfter, &rec.Status, &rec.ErrorMessage, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(changes, &rec.ChangeSummary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal change summary: %w", err)
	}
	return &rec, nil
}
