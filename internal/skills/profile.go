package skills

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Contact holds optional contact fields pulled from resume text.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ProfileExtractor pulls best-effort profile details out of free text.
// Implementations must not fail: unknown values are "" or 0.
type ProfileExtractor interface {
	Email(text string) string
	Phone(text string) string
	Name(text string) string
	ExperienceYears(text string) int
}

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(?:\+?(\d{1,3}))?[-.\s]?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})`)

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*of\s*experience`),
		regexp.MustCompile(`(?i)(\d+)\s*years?\s*experience`),
		regexp.MustCompile(`(?i)experience\s*:?\s*(\d+)\+?\s*years?`),
	}
	yearRangePattern = regexp.MustCompile(`(?i)20\d{2}\s*[-–]\s*(?:20\d{2}|present|current)`)
)

// RegexProfileExtractor is the pattern-based ProfileExtractor.
type RegexProfileExtractor struct{}

var _ ProfileExtractor = RegexProfileExtractor{}

func (RegexProfileExtractor) Email(text string) string {
	return emailPattern.FindString(text)
}

func (RegexProfileExtractor) Phone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// Name accepts the first non-blank line when it is 2-4 capitalized words.
func (RegexProfileExtractor) Name(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			return ""
		}
		for _, w := range words {
			first := []rune(w)[0]
			if first > unicode.MaxASCII || !unicode.IsUpper(first) {
				return ""
			}
		}
		return strings.Join(words, " ")
	}
	return ""
}

// ExperienceYears prefers an explicit "N years of experience" style phrase and
// falls back to the number of year ranges (2019 - 2022, 2021 - present).
func (RegexProfileExtractor) ExperienceYears(text string) int {
	for _, p := range experiencePatterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
			return n
		}
	}
	return len(yearRangePattern.FindAllString(text, -1))
}
