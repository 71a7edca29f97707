package jobs

import "time"

type jobResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Salary          string    `json:"salary,omitempty"`
	Description     string    `json:"description,omitempty"`
	RequiredSkills  []string  `json:"requiredSkills"`
	Source          string    `json:"source"`
	PostedDate      string    `json:"postedDate"`
	URL             string    `json:"url,omitempty"`
	JobType         string    `json:"jobType,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type jobRequest struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Salary          string   `json:"salary"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"requiredSkills"`
	Source          string   `json:"source"`
	PostedDate      string   `json:"postedDate"`
	URL             string   `json:"url"`
	JobType         string   `json:"jobType"`
	ExperienceLevel string   `json:"experienceLevel"`
}

type importRequest struct {
	Jobs []jobRequest `json:"jobs"`
}

func (r jobRequest) toJob() Job {
	return Job{
		Title:           r.Title,
		Company:         r.Company,
		Location:        r.Location,
		Salary:          r.Salary,
		Description:     r.Description,
		RequiredSkills:  r.RequiredSkills,
		Source:          Source(r.Source),
		PostedDate:      r.PostedDate,
		URL:             r.URL,
		JobType:         r.JobType,
		ExperienceLevel: r.ExperienceLevel,
	}
}

func toResponse(j Job) jobResponse {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return jobResponse{
		ID:              j.ID,
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		Salary:          j.Salary,
		Description:     j.Description,
		RequiredSkills:  skills,
		Source:          string(j.Source),
		PostedDate:      j.PostedDate,
		URL:             j.URL,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		CreatedAt:       j.CreatedAt,
	}
}
