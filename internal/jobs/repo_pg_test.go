package jobs

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var jobRowColumns = []string{"id", "title", "company", "location", "salary", "description", "required_skills", "source", "posted_date", "url", "job_type", "experience_level", "created_at"}

func TestPGRepoFindBuildsFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM jobs WHERE lower\(location\) = ANY\(\$1\) AND source = ANY\(\$2\) ORDER BY created_at DESC, id LIMIT \$3`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 100).
		WillReturnRows(sqlmock.NewRows(jobRowColumns).
			AddRow("j1", "Go Dev", "Acme", "Remote", "", "", "{Go,SQL}", "linkedin", "Recently", "", "", "", now))

	repo := &PGRepo{DB: db}
	got, err := repo.Find(context.Background(), Filter{Locations: []string{"Remote"}, Sources: []Source{SourceLinkedIn}}, 500)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || len(got[0].RequiredSkills) != 2 || got[0].RequiredSkills[0] != "Go" || got[0].Source != SourceLinkedIn {
		t.Fatalf("Find = %+v", got)
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

	mock.ExpectQuery("FROM jobs WHERE id = ").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	job := Job{ID: "j1", Title: "Go Dev", Company: "Acme", Source: SourceOther, CreatedAt: time.Now().UTC()}
	mock.ExpectExec("INSERT INTO jobs").
		WithArgs(job.ID, job.Title, job.Company, "", "", "", sqlmock.AnyArg(), "other", "", "", "", "", job.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
