package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/customize"
	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/notifications"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/storage/object"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/skills"
)

// MaxUploadBytes bounds resume uploads.
const MaxUploadBytes = 10 << 20

// JobLookup resolves the target job of a customization.
type JobLookup interface {
	Get(ctx context.Context, id string) (jobs.Job, error)
}

// Alerts records in-app notifications.
type Alerts interface {
	Notify(ctx context.Context, userID, title, message string, typ notifications.Type) error
}

type Service struct {
	Repo       Repo
	Store      object.Store
	Parser     *skills.Parser
	Customizer *customize.Customizer
	Jobs       JobLookup
	Alerts     Alerts
	Now        func() time.Time
}

// Upload extracts, parses and stores a resume file. The raw file goes to the
// object store when one is configured.
func (s *Service) Upload(ctx context.Context, userID, fileName, declaredType string, r io.Reader) (Resume, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Resume{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Resume{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Resume{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if len(data) > MaxUploadBytes {
		return Resume{}, fmt.Errorf("%w: file exceeds 10MB", ErrInvalidInput)
	}

	mimeType := declaredType
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = http.DetectContentType(data)
	}
	mimeType = extract.Normalize(mimeType, fileName, data)

	text, err := extract.Text(ctx, data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			return Resume{}, fmt.Errorf("%w: only PDF, DOCX and plain text files are supported", ErrInvalidInput)
		}
		return Resume{}, fmt.Errorf("%w: could not read file: %v", ErrInvalidInput, err)
	}

	var storageKey string
	if s.Store != nil {
		obj, err := s.Store.Put(ctx, userID, fileName, bytes.NewReader(data))
		if err != nil {
			return Resume{}, fmt.Errorf("store resume: %w", err)
		}
		storageKey = obj.Key
	}

	profile := s.Parser.Parse(text)
	res := Resume{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		StorageKey:      storageKey,
		OriginalText:    text,
		EnhancedText:    profile.EnhancedText,
		Skills:          profile.Skills,
		ExperienceYears: profile.ExperienceYears,
		Contact: Contact{
			Name:  profile.Contact.Name,
			Email: profile.Contact.Email,
			Phone: profile.Contact.Phone,
		},
		UploadedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		if storageKey != "" {
			_ = s.Store.Delete(ctx, storageKey)
		}
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	metrics.IncResumesParsed()

	s.alert(ctx, userID, "Resume Uploaded Successfully",
		fmt.Sprintf("Your resume has been uploaded and parsed. We found %d skills and %d years of experience.", len(res.Skills), res.ExperienceYears),
		notifications.TypeSuccess)
	telemetry.Info("resumes.upload.complete", map[string]any{
		"request_id": telemetry.RequestIDFromContext(ctx),
		"user_id":    userID,
		"resume_id":  res.ID,
		"mime_type":  mimeType,
		"skills":     len(res.Skills),
	})
	return res, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

func (s *Service) Latest(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.Latest(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.List(ctx, userID)
}

// Customize tailors resume resumeID to jobID and saves the result as a new
// Version. An empty resumeID selects the latest resume.
func (s *Service) Customize(ctx context.Context, userID, resumeID, jobID string) (Version, customize.Result, error) {
	var res Resume
	var err error
	if resumeID == "" {
		res, err = s.Repo.Latest(ctx, userID)
	} else {
		res, err = s.Repo.GetByID(ctx, userID, resumeID)
	}
	if err != nil {
		return Version{}, customize.Result{}, err
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return Version{}, customize.Result{}, err
	}

	result := s.Customizer.Customize(customize.Input{
		Skills:          res.Skills,
		ExperienceYears: res.ExperienceYears,
		OriginalText:    res.OriginalText,
		JobTitle:        job.Title,
		JobDescription:  job.Description,
	})
	v := Version{
		ID:              uuid.NewString(),
		UserID:          userID,
		ResumeID:        res.ID,
		JobID:           job.ID,
		VersionName:     fmt.Sprintf("%s - %s", job.Title, job.Company),
		CustomizedText:  result.Summary,
		Skills:          result.RelevantSkills,
		Highlights:      result.Highlights,
		MatchScore:      result.MatchScore,
		Recommendations: result.Recommendations,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.CreateVersion(ctx, v); err != nil {
		return Version{}, customize.Result{}, fmt.Errorf("create resume version: %w", err)
	}
	return v, result, nil
}

// OpenFile returns the originally uploaded file of a resume.
func (s *Service) OpenFile(ctx context.Context, userID, id string) (Resume, io.ReadCloser, error) {
	res, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return Resume{}, nil, err
	}
	if s.Store == nil || res.StorageKey == "" {
		return Resume{}, nil, ErrNoFile
	}
	rc, err := s.Store.Open(ctx, res.StorageKey)
	if errors.Is(err, object.ErrNotFound) {
		return Resume{}, nil, ErrNoFile
	}
	if err != nil {
		return Resume{}, nil, fmt.Errorf("open resume file: %w", err)
	}
	return res, rc, nil
}

func (s *Service) Versions(ctx context.Context, userID, resumeID string) ([]Version, error) {
	return s.Repo.ListVersions(ctx, userID, resumeID)
}

func (s *Service) alert(ctx context.Context, userID, title, message string, typ notifications.Type) {
	if s.Alerts == nil {
		return
	}
	if err := s.Alerts.Notify(ctx, userID, title, message, typ); err != nil {
		telemetry.Warn("resumes.notification.failed", map[string]any{
			"request_id": telemetry.RequestIDFromContext(ctx),
			"user_id":    userID,
			"error":      err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
