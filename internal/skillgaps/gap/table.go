package gap

import (
	"net/url"
	"strings"
)

// Table is an immutable skill -> Resource mapping. Lookups ignore case.
type Table struct {
	version string
	entries map[string]Resource
}

// NewTable copies entries into a new Table.
func NewTable(version string, entries map[string]Resource) *Table {
	t := &Table{version: version, entries: make(map[string]Resource, len(entries))}
	for skill, res := range entries {
		res.Resources = append([]string(nil), res.Resources...)
		t.entries[strings.ToLower(strings.TrimSpace(skill))] = res
	}
	return t
}

// DefaultTable returns the built-in learning resources.
func DefaultTable() *Table {
	return NewTable("2024.1", map[string]Resource{
		"JavaScript": {
			Priority:     PriorityHigh,
			LearningTime: "2-3 months",
			Resources: []string{
				"https://javascript.info",
				"https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures",
				"https://developer.mozilla.org/en-US/docs/Web/JavaScript",
			},
		},
		"Python": {
			Priority:     PriorityHigh,
			LearningTime: "2-3 months",
			Resources: []string{
				"https://www.python.org/about/gettingstarted/",
				"https://www.freecodecamp.org/learn/scientific-computing-with-python/",
				"https://docs.python.org/3/tutorial/",
			},
		},
		"React": {
			Priority:     PriorityHigh,
			LearningTime: "1-2 months",
			Resources: []string{
				"https://react.dev/learn",
				"https://www.freecodecamp.org/learn/front-end-development-libraries",
				"https://egghead.io/courses/the-beginner-s-guide-to-react",
			},
		},
		"Node.js": {
			Priority:     PriorityHigh,
			LearningTime: "1-2 months",
			Resources: []string{
				"https://nodejs.org/en/docs/guides/",
				"https://www.freecodecamp.org/learn/back-end-development-and-apis/",
				"https://nodeschool.io/",
			},
		},
		"AWS": {
			Priority:     PriorityMedium,
			LearningTime: "2-4 months",
			Resources: []string{
				"https://aws.amazon.com/training/digital/",
				"https://www.freecodecamp.org/news/tag/aws/",
				"https://cloudacademy.com/library/amazon-web-services/",
			},
		},
		"Docker": {
			Priority:     PriorityMedium,
			LearningTime: "1 month",
			Resources: []string{
				"https://docs.docker.com/get-started/",
				"https://www.freecodecamp.org/news/the-docker-handbook/",
				"https://docker-curriculum.com/",
			},
		},
	})
}

// Version reports the table version.
func (t *Table) Version() string { return t.version }

// Lookup returns the resource for skill, or the generic low-priority fallback.
func (t *Table) Lookup(skill string) Resource {
	if t != nil {
		if res, ok := t.entries[strings.ToLower(strings.TrimSpace(skill))]; ok {
			res.Resources = append([]string(nil), res.Resources...)
			return res
		}
	}
	q := escapeComponent(skill)
	return Resource{
		Priority:     PriorityLow,
		LearningTime: "1-2 months",
		Resources: []string{
			"https://www.google.com/search?q=learn+" + q,
			"https://www.youtube.com/results?search_query=learn+" + q,
		},
	}
}

// componentUnescaper undoes QueryEscape for the characters a URI component
// leaves literal, and writes spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s the way a URI component is encoded.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
