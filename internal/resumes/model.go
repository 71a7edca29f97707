package resumes

import (
	"time"

	"jobassist-backend/internal/customize"
)

// Contact holds the details parsed from the resume header. Empty means unknown.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Resume is an uploaded, parsed resume. It is never modified; the newest
// upload is the user's current resume.
type Resume struct {
	ID              string
	UserID          string
	FileName        string
	MimeType        string
	StorageKey      string
	OriginalText    string
	EnhancedText    string
	Skills          []string
	ExperienceYears int
	Contact         Contact
	UploadedAt      time.Time
}

// Version is a resume variant customized for one job.
type Version struct {
	ID              string
	UserID          string
	ResumeID        string
	JobID           string
	VersionName     string
	CustomizedText  string
	Skills          []string
	Highlights      []string
	MatchScore      int
	Recommendations []customize.Recommendation
	CreatedAt       time.Time
}
