package applications

import "time"

// Status is the lifecycle state of an application.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusScreening    Status = "screening"
	StatusInterviewing Status = "interviewing"
	StatusOffered      Status = "offered"
	StatusRejected     Status = "rejected"
	StatusWithdrawn    Status = "withdrawn"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusApplied, StatusScreening, StatusInterviewing, StatusOffered, StatusRejected, StatusWithdrawn}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application records that a user applied to a job with a given resume.
// MatchScore is frozen when the application is created.
type Application struct {
	ID          string
	UserID      string
	JobID       string
	ResumeID    string
	Status      Status
	MatchScore  int
	Notes       string
	AutoApplied bool
	AppliedDate time.Time
	UpdatedAt   time.Time
}
