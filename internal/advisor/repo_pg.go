package advisor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO advisory_analyses (
	id, industry, language, provider, model, status, profile, result, error_message, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	profilePayload, err := marshalJSONB(analysis.Profile)
	if err != nil {
		return err
	}
	resultPayload, err := marshalJSONB(analysis.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.Industry,
		analysis.Language,
		analysis.Provider,
		analysis.Model,
		analysis.Status,
		profilePayload,
		resultPayload,
		nullableString(analysis.ErrorMessage),
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT id, industry, language, provider, model, status, profile, result, error_message, created_at
FROM advisory_analyses
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID)
	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// List returns analyses newest first with limit/offset.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT id, industry, language, provider, model, status, profile, result, error_message, created_at
FROM advisory_analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var profile sql.NullString
	var result sql.NullString
	var errorMessage sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.Industry,
		&a.Language,
		&a.Provider,
		&a.Model,
		&a.Status,
		&profile,
		&result,
		&errorMessage,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if profile.Valid {
		a.Profile = map[string]any{}
		if err := json.Unmarshal([]byte(profile.String), &a.Profile); err != nil {
			a.Profile = nil
		}
	}
	if result.Valid {
		a.Result = map[string]any{}
		if err := json.Unmarshal([]byte(result.String), &a.Result); err != nil {
			a.Result = nil
		}
	}
	if errorMessage.Valid {
		a.ErrorMessage = errorMessage.String
	}
	return a, nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
