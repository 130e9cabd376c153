package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreatePersistsPayloads(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	analysis := Analysis{
		ID:        "analysis-1",
		Industry:  "retail",
		Language:  "he",
		Provider:  "groq",
		Model:     "llama-3.3-70b-versatile",
		Status:    StatusCompleted,
		Profile:   map[string]any{"industry": "retail"},
		Result:    map[string]any{"success": true},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO advisory_analyses").
		WithArgs(
			analysis.ID,
			analysis.Industry,
			analysis.Language,
			analysis.Provider,
			analysis.Model,
			analysis.Status,
			sqlmock.AnyArg(), // profile
			sqlmock.AnyArg(), // result
			nil,              // error_message
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesJSONB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "industry", "language", "provider", "model", "status", "profile", "result", "error_message", "created_at",
	}).AddRow(
		"analysis-1", "retail", "en", "groq", "llama-3.3-70b-versatile", StatusCompleted,
		`{"industry":"retail"}`, `{"success":true,"analysis":"done"}`, nil, createdAt,
	)
	mock.ExpectQuery("SELECT id, industry, language").
		WithArgs("analysis-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Profile["industry"] != "retail" {
		t.Fatalf("profile = %+v", got.Profile)
	}
	if got.Result["success"] != true {
		t.Fatalf("result = %+v", got.Result)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("error message = %q, want empty", got.ErrorMessage)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT id, industry, language").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "industry", "language", "provider", "model", "status", "profile", "result", "error_message", "created_at",
		}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListOrdersAndClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rows := sqlmock.NewRows([]string{
		"id", "industry", "language", "provider", "model", "status", "profile", "result", "error_message", "created_at",
	}).
		AddRow("a2", "retail", "en", "groq", "m", StatusCompleted, `{}`, `{}`, nil, time.Now().UTC()).
		AddRow("a1", "legal", "he", "groq", "m", StatusFailed, `{}`, `{}`, "parse AI response: bad", time.Now().UTC().Add(-time.Hour))

	// limit above the cap is clamped to 100
	mock.ExpectQuery("SELECT id, industry, language").
		WithArgs(100, 0).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 500, -3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a2" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got[1].ErrorMessage == "" {
		t.Fatalf("expected error message on failed row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
