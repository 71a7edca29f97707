package applications

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var applicationRowColumns = []string{"id", "user_id", "job_id", "resume_id", "status", "match_score", "notes", "auto_applied", "applied_date", "updated_at"}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_user_job_unique"})

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Application{ID: "a1", UserID: "u1", JobID: "j1", Status: StatusApplied})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestPGRepoFindAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM applications WHERE user_id = \$1 AND job_id = \$2`).
		WithArgs("u1", "j1").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).
			AddRow("a1", "u1", "j1", "r1", "interviewing", 75, "", true, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WithArgs("u1", now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM applications WHERE user_id = \$1 AND job_id = \$2`).
		WithArgs("u1", "j2").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	a, err := repo.Find(context.Background(), "u1", "j1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if a.Status != StatusInterviewing || a.MatchScore != 75 || !a.AutoApplied {
		t.Fatalf("Find = %+v", a)
	}
	n, err := repo.CountSince(context.Background(), "u1", now)
	if err != nil || n != 3 {
		t.Fatalf("CountSince = %d, %v", n, err)
	}
	if _, err := repo.Find(context.Background(), "u1", "j2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE applications SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	err = repo.Update(context.Background(), Application{ID: "a1", UserID: "u1", Status: StatusOffered})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
