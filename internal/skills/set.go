package skills

import (
	"math"
	"strings"
)

// Set is an ordered collection of skill names with case-insensitive identity.
type Set []string

// Normalize trims names and drops blanks and case-folded duplicates, keeping the
// first spelling seen.
func Normalize(names []string) Set {
	seen := make(map[string]struct{}, len(names))
	out := make(Set, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Contains reports whether name is in the set, ignoring case.
func (s Set) Contains(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, v := range s {
		if strings.ToLower(v) == key {
			return true
		}
	}
	return false
}

func foldSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return out
}

// Partition splits required into the entries present in candidate and the ones
// missing from it. Both results keep required's order.
func Partition(candidate, required []string) (matching, missing []string) {
	have := foldSet(candidate)
	matching = make([]string, 0, len(required))
	missing = make([]string, 0, len(required))
	for _, name := range Normalize(required) {
		if _, ok := have[strings.ToLower(name)]; ok {
			matching = append(matching, name)
		} else {
			missing = append(missing, name)
		}
	}
	return matching, missing
}

// Score returns round(100 * |candidate ∩ required| / |required|), or 0 when
// nothing is required.
func Score(candidate, required []string) int {
	req := Normalize(required)
	if len(req) == 0 {
		return 0
	}
	matching, _ := Partition(candidate, req)
	return int(math.Round(100 * float64(len(matching)) / float64(len(req))))
}
