package applications

import "time"

type applyRequest struct {
	JobID string `json:"jobId"`
	Notes string `json:"notes"`
}

type updateRequest struct {
	Status Status  `json:"status"`
	Notes  *string `json:"notes"`
}

type jobSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Source   string `json:"source"`
	URL      string `json:"url,omitempty"`
}

type applicationResponse struct {
	ID          string      `json:"id"`
	JobID       string      `json:"jobId"`
	ResumeID    string      `json:"resumeId"`
	Status      Status      `json:"status"`
	MatchScore  int         `json:"matchScore"`
	Notes       string      `json:"notes,omitempty"`
	AutoApplied bool        `json:"autoApplied"`
	AppliedDate time.Time   `json:"appliedDate"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Job         *jobSummary `json:"job,omitempty"`
}

func toResponse(d Detail) applicationResponse {
	out := applicationResponse{
		ID:          d.ID,
		JobID:       d.JobID,
		ResumeID:    d.ResumeID,
		Status:      d.Status,
		MatchScore:  d.MatchScore,
		Notes:       d.Notes,
		AutoApplied: d.AutoApplied,
		AppliedDate: d.AppliedDate,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Job != nil {
		out.Job = &jobSummary{
			ID:       d.Job.ID,
			Title:    d.Job.Title,
			Company:  d.Job.Company,
			Location: d.Job.Location,
			Source:   string(d.Job.Source),
			URL:      d.Job.URL,
		}
	}
	return out
}
