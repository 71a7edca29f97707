// Package customize derives job-specific resume variants from a base resume.
package customize

import (
	"fmt"
	"regexp"
	"strings"

	"jobassist-backend/internal/skills"
)

const (
	maxSummarySkills   = 5
	maxHighlights      = 5
	maxRecommendations = 3
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// Input is the base resume material and the target job.
type Input struct {
	Skills          []string
	ExperienceYears int
	OriginalText    string
	JobTitle        string
	JobDescription  string
}

// Recommendation suggests a job skill missing from the resume.
type Recommendation struct {
	Skill  string `json:"skill"`
	Action string `json:"action"`
}

// Result is a derived, job-specific view of a resume.
type Result struct {
	RelevantSkills  []string         `json:"relevantSkills"`
	JobSkills       []string         `json:"jobSkills"`
	MatchScore      int              `json:"matchScore"`
	Summary         string           `json:"summary"`
	Highlights      []string         `json:"highlights"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Customizer is stateless apart from its vocabulary and may be shared.
type Customizer struct {
	Vocabulary *skills.Vocabulary
}

func New(vocab *skills.Vocabulary) *Customizer {
	return &Customizer{Vocabulary: vocab}
}

// Customize builds the variant. Inputs are never modified.
func (c *Customizer) Customize(in Input) Result {
	jobSkills := c.Vocabulary.Extract(in.JobDescription)
	candidate := skills.Normalize(in.Skills)

	relevant := make([]string, 0, len(candidate))
	for _, s := range candidate {
		if jobSkills.Contains(s) {
			relevant = append(relevant, s)
		}
	}

	score := skills.Score(candidate, jobSkills)

	return Result{
		RelevantSkills:  relevant,
		JobSkills:       append([]string{}, jobSkills...),
		MatchScore:      score,
		Summary:         summary(in.ExperienceYears, in.JobTitle, relevant, score),
		Highlights:      highlights(in.OriginalText, jobSkills),
		Recommendations: recommendations(candidate, jobSkills),
	}
}

func summary(years int, title string, relevant []string, score int) string {
	top := relevant
	if len(top) > maxSummarySkills {
		top = top[:maxSummarySkills]
	}
	return fmt.Sprintf(
		"Experienced professional with %d+ years targeting %s positions. Proficient in %s. %d%% skill match for this role.",
		years, strings.TrimSpace(title), strings.Join(top, ", "), score,
	)
}

// highlights returns up to five sentences of text that mention a job skill.
func highlights(text string, jobSkills skills.Set) []string {
	out := make([]string, 0, maxHighlights)
	if len(jobSkills) == 0 {
		return out
	}
	lowered := make([]string, len(jobSkills))
	for i, s := range jobSkills {
		lowered[i] = strings.ToLower(s)
	}
	for _, sentence := range sentenceBoundary.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		l := strings.ToLower(sentence)
		for _, skill := range lowered {
			if strings.Contains(l, skill) {
				out = append(out, sentence)
				break
			}
		}
		if len(out) == maxHighlights {
			break
		}
	}
	return out
}

func recommendations(candidate, jobSkills skills.Set) []Recommendation {
	out := make([]Recommendation, 0, maxRecommendations)
	for _, s := range jobSkills {
		if candidate.Contains(s) {
			continue
		}
		out = append(out, Recommendation{
			Skill:  s,
			Action: fmt.Sprintf("Consider adding %s experience to your resume", s),
		})
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
