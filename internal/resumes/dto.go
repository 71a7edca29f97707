package resumes

import (
	"time"

	"jobassist-backend/internal/customize"
)

type resumeResponse struct {
	ID              string    `json:"id"`
	FileName        string    `json:"fileName"`
	MimeType        string    `json:"mimeType"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experienceYears"`
	Contact         Contact   `json:"extractedInfo"`
	EnhancedText    string    `json:"enhancedText,omitempty"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

type versionResponse struct {
	ID              string                     `json:"id"`
	ResumeID        string                     `json:"resumeId"`
	JobID           string                     `json:"jobId"`
	VersionName     string                     `json:"versionName"`
	CustomizedText  string                     `json:"customizedSummary"`
	Skills          []string                   `json:"customizedSkills"`
	Highlights      []string                   `json:"highlightedExperience"`
	MatchScore      int                        `json:"matchScore"`
	Recommendations []customize.Recommendation `json:"recommendations"`
	CreatedAt       time.Time                  `json:"createdAt"`
}

type customizeRequest struct {
	JobID string `json:"jobId"`
}

type customizeResponse struct {
	VersionID   string           `json:"versionId"`
	VersionName string           `json:"versionName"`
	Customized  customize.Result `json:"customized"`
}

func toResponse(r Resume, withText bool) resumeResponse {
	out := resumeResponse{
		ID:              r.ID,
		FileName:        r.FileName,
		MimeType:        r.MimeType,
		Skills:          orEmpty(r.Skills),
		ExperienceYears: r.ExperienceYears,
		Contact:         r.Contact,
		UploadedAt:      r.UploadedAt,
	}
	if withText {
		out.EnhancedText = r.EnhancedText
	}
	return out
}

func toVersionResponse(v Version) versionResponse {
	recs := v.Recommendations
	if recs == nil {
		recs = []customize.Recommendation{}
	}
	return versionResponse{
		ID:              v.ID,
		ResumeID:        v.ResumeID,
		JobID:           v.JobID,
		VersionName:     v.VersionName,
		CustomizedText:  v.CustomizedText,
		Skills:          orEmpty(v.Skills),
		Highlights:      orEmpty(v.Highlights),
		MatchScore:      v.MatchScore,
		Recommendations: recs,
		CreatedAt:       v.CreatedAt,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
