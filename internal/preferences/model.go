package preferences

import "time"

// SalaryRange is the acceptable pay band. Max 0 means unbounded.
type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// NotificationSettings toggles the optional emails.
type NotificationSettings struct {
	EmailAlerts        bool `json:"emailAlerts"`
	ApplicationUpdates bool `json:"applicationUpdates"`
	JobRecommendations bool `json:"jobRecommendations"`
}

// Preference holds a user's job-search and auto-apply settings. There is at
// most one per user.
type Preference struct {
	UserID                string               `json:"userId"`
	AutoApplyEnabled      bool                 `json:"autoApplyEnabled"`
	TargetRoles           []string             `json:"targetRoles"`
	TargetLocations       []string             `json:"targetLocations"`
	SalaryRange           SalaryRange          `json:"salaryRange"`
	JobTypes              []string             `json:"jobTypes"`
	ExperienceLevels      []string             `json:"experienceLevels"`
	PreferredSources      []string             `json:"preferredSources"`
	MinMatchScore         int                  `json:"minMatchScore"`
	DailyApplicationLimit int                  `json:"dailyApplicationLimit"`
	NotificationSettings  NotificationSettings `json:"notificationSettings"`
	UpdatedAt             time.Time            `json:"updatedAt"`
}

var (
	validJobTypes         = []string{"full-time", "part-time", "contract", "internship", "remote"}
	validExperienceLevels = []string{"entry", "mid", "senior", "lead", "executive"}
)

// Defaults returns the settings a user has before saving any.
func Defaults(userID string) Preference {
	return Preference{
		UserID:                userID,
		TargetRoles:           []string{},
		TargetLocations:       []string{},
		SalaryRange:           SalaryRange{Currency: "INR"},
		JobTypes:              []string{"full-time"},
		ExperienceLevels:      []string{},
		PreferredSources:      []string{"linkedin", "indeed", "naukri"},
		MinMatchScore:         60,
		DailyApplicationLimit: 10,
		NotificationSettings: NotificationSettings{
			EmailAlerts:        true,
			ApplicationUpdates: true,
			JobRecommendations: true,
		},
	}
}
