package jobs

import "time"

// Source is the job board a listing came from.
type Source string

const (
	SourceLinkedIn Source = "linkedin"
	SourceIndeed   Source = "indeed"
	SourceNaukri   Source = "naukri"
	SourceUnstop   Source = "unstop"
	SourceOther    Source = "other"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceLinkedIn, SourceIndeed, SourceNaukri, SourceUnstop, SourceOther:
		return true
	}
	return false
}

// Job is a listing. It is never modified after creation.
type Job struct {
	ID              string
	Title           string
	Company         string
	Location        string
	Salary          string
	Description     string
	RequiredSkills  []string
	Source          Source
	PostedDate      string
	URL             string
	JobType         string
	ExperienceLevel string
	CreatedAt       time.Time
}

// Filter narrows Find. Empty fields do not filter.
type Filter struct {
	// Locations matches the job location exactly, ignoring case.
	Locations []string
	// Location matches a case-insensitive substring of the job location.
	Location string
	Sources  []Source
	// Search matches title, company or description, ignoring case.
	Search string
}

// SkillCount is one row of the top-skills report.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// MarketStats summarizes the listings table.
type MarketStats struct {
	TotalJobs int            `json:"totalJobs"`
	BySource  map[string]int `json:"bySource"`
	TopSkills []SkillCount   `json:"topSkills"`
}
