package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, file_name, mime_type, storage_key, original_text, enhanced_text, skills, experience_years, contact_name, contact_email, contact_phone, uploaded_at`

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (` + resumeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.FileName,
		res.MimeType,
		res.StorageKey,
		res.OriginalText,
		res.EnhancedText,
		pq.StringArray(nonNil(res.Skills)),
		res.ExperienceYears,
		nullableString(res.Contact.Name),
		nullableString(res.Contact.Email),
		nullableString(res.Contact.Phone),
		res.UploadedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	return r.one(ctx, query, id, userID)
}

func (r *PGRepo) Latest(ctx context.Context, userID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY uploaded_at DESC LIMIT 1`
	return r.one(ctx, query, userID)
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY uploaded_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateVersion(ctx context.Context, v Version) error {
	recs, err := json.Marshal(v.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	const query = `
INSERT INTO resume_versions (id, user_id, resume_id, job_id, version_name, customized_text, skills, highlights, match_score, recommendations, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.DB.ExecContext(ctx, query,
		v.ID,
		v.UserID,
		v.ResumeID,
		v.JobID,
		v.VersionName,
		v.CustomizedText,
		pq.StringArray(nonNil(v.Skills)),
		pq.StringArray(nonNil(v.Highlights)),
		v.MatchScore,
		recs,
		v.CreatedAt,
	)
	return err
}

func (r *PGRepo) ListVersions(ctx context.Context, userID, resumeID string) ([]Version, error) {
	const query = `
SELECT id, user_id, resume_id, job_id, version_name, customized_text, skills, highlights, match_score, recommendations, created_at
FROM resume_versions
WHERE user_id = $1 AND ($2 = '' OR resume_id = $2)
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Version{}
	for rows.Next() {
		var v Version
		var skills, highlights pq.StringArray
		var recs []byte
		if err := rows.Scan(&v.ID, &v.UserID, &v.ResumeID, &v.JobID, &v.VersionName, &v.CustomizedText,
			&skills, &highlights, &v.MatchScore, &recs, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Skills = []string(skills)
		v.Highlights = []string(highlights)
		if len(recs) > 0 {
			if err := json.Unmarshal(recs, &v.Recommendations); err != nil {
				return nil, fmt.Errorf("decode recommendations: %w", err)
			}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PGRepo) one(ctx context.Context, query string, args ...any) (Resume, error) {
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	var skills pq.StringArray
	var name, email, phone sql.NullString
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.FileName,
		&res.MimeType,
		&res.StorageKey,
		&res.OriginalText,
		&res.EnhancedText,
		&skills,
		&res.ExperienceYears,
		&name,
		&email,
		&phone,
		&res.UploadedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	res.Skills = []string(skills)
	res.Contact = Contact{Name: name.String, Email: email.String, Phone: phone.String}
	return res, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
