package gap

// Priority tiers for learning recommendations.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Resource describes how to learn one skill.
type Resource struct {
	Priority     string   `json:"priority"`
	LearningTime string   `json:"learningTime"`
	Resources    []string `json:"resources"`
}

// Recommendation is a Resource bound to a missing skill.
type Recommendation struct {
	Skill        string   `json:"skill"`
	Priority     string   `json:"priority"`
	LearningTime string   `json:"learningTime"`
	Resources    []string `json:"resources"`
}

// Result is the outcome of one gap analysis.
type Result struct {
	MatchingSkills  []string         `json:"matchingSkills"`
	MissingSkills   []string         `json:"missingSkills"`
	MatchScore      int              `json:"matchScore"`
	Recommendations []Recommendation `json:"recommendations"`
}

// PriorityRank orders priorities: high=1, medium=2, low (and anything else)=3.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}
