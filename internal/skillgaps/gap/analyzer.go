// Package gap computes the skill gap between a candidate and a job.
package gap

import (
	"sort"

	"jobassist-backend/internal/skills"
)

// Analyzer is pure given its table and may be shared.
type Analyzer struct {
	Table *Table
}

func NewAnalyzer(table *Table) *Analyzer {
	return &Analyzer{Table: table}
}

// Analyze partitions jobSkills into matching and missing (keeping job order),
// scores the match and recommends how to close the gap, highest priority first.
func (a *Analyzer) Analyze(candidate, jobSkills []string) Result {
	matching, missing := skills.Partition(candidate, jobSkills)
	return Result{
		MatchingSkills:  matching,
		MissingSkills:   missing,
		MatchScore:      skills.Score(candidate, jobSkills),
		Recommendations: a.Recommend(missing),
	}
}

// Recommend maps each missing skill to a Recommendation sorted by priority
// rank; ties keep the order of missing.
func (a *Analyzer) Recommend(missing []string) []Recommendation {
	out := make([]Recommendation, 0, len(missing))
	for _, skill := range missing {
		res := a.Table.Lookup(skill)
		out = append(out, Recommendation{
			Skill:        skill,
			Priority:     res.Priority,
			LearningTime: res.LearningTime,
			Resources:    res.Resources,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return PriorityRank(out[i].Priority) < PriorityRank(out[j].Priority)
	})
	return out
}
