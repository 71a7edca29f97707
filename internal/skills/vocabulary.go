package skills

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultVersion identifies the built-in vocabulary.
const DefaultVersion = "2024.1"

var defaultSkills = []string{
	// Programming languages
	"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "Ruby", "PHP", "Go", "Rust",
	"Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl", "Objective-C",

	// Web
	"HTML", "CSS", "React", "Angular", "Vue", "Node.js", "Express", "Next.js", "Nuxt.js",
	"jQuery", "Bootstrap", "Tailwind", "SASS", "LESS", "Webpack", "Vite",

	// Databases
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Oracle", "Cassandra",
	"DynamoDB", "Firebase", "Supabase",

	// APIs
	"GraphQL", "REST API", "gRPC",

	// Cloud and DevOps
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Jenkins", "CI/CD", "Git", "GitHub",
	"GitLab", "Terraform", "Ansible", "Linux", "Nginx", "Apache",

	// Data and ML
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Scikit-learn", "Pandas",
	"NumPy", "Data Analysis", "Statistics", "AI",

	// Mobile
	"React Native", "Flutter", "iOS", "Android", "Xamarin",

	// Process and tools
	"Agile", "Scrum", "JIRA", "Figma", "Adobe XD", "Photoshop",

	// Testing
	"Testing", "Jest", "Mocha", "Cypress", "Selenium", "Unit Testing", "Integration Testing",
}

var ErrEmptyVocabulary = errors.New("vocabulary has no skills")

// Vocabulary is an immutable, versioned list of canonical skill names.
// Entries keep their declared order; duplicates (after case folding) are dropped.
type Vocabulary struct {
	version string
	skills  []string
	lower   []string
	index   map[string]int
}

// NewVocabulary builds a vocabulary from the given canonical names.
func NewVocabulary(version string, names []string) (*Vocabulary, error) {
	v := &Vocabulary{
		version: strings.TrimSpace(version),
		index:   make(map[string]int, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := v.index[key]; ok {
			continue
		}
		v.index[key] = len(v.skills)
		v.skills = append(v.skills, name)
		v.lower = append(v.lower, key)
	}
	if len(v.skills) == 0 {
		return nil, ErrEmptyVocabulary
	}
	return v, nil
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(DefaultVersion, defaultSkills)
	if err != nil {
		panic(err)
	}
	return v
}

type vocabularyFile struct {
	Version string   `json:"version"`
	Skills  []string `json:"skills"`
}

// LoadVocabularyFile reads a vocabulary from disk. JSON files must hold
// {"version": "...", "skills": [...]}; any other file is read one skill per line
// and versioned by its base name.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read vocabulary: %w", err)
		}
		var vf vocabularyFile
		if err := json.Unmarshal(raw, &vf); err != nil {
			return nil, fmt.Errorf("decode vocabulary %s: %w", path, err)
		}
		if vf.Version == "" {
			vf.Version = filepath.Base(path)
		}
		return NewVocabulary(vf.Version, vf.Skills)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan vocabulary %s: %w", path, err)
	}
	return NewVocabulary(filepath.Base(path), names)
}

// Version reports the vocabulary version.
func (v *Vocabulary) Version() string { return v.version }

// Len reports the number of canonical skills.
func (v *Vocabulary) Len() int { return len(v.skills) }

// Skills returns a copy of the canonical names in declared order.
func (v *Vocabulary) Skills() []string {
	return append([]string(nil), v.skills...)
}

// Canonical maps any spelling of a known skill to its canonical display form.
func (v *Vocabulary) Canonical(name string) (string, bool) {
	i, ok := v.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return v.skills[i], true
}

// Extract returns the vocabulary entries that occur in text as case-insensitive
// substrings, in vocabulary order.
func (v *Vocabulary) Extract(text string) Set {
	if v == nil || strings.TrimSpace(text) == "" {
		return Set{}
	}
	haystack := strings.ToLower(text)
	out := make(Set, 0, 8)
	for i, needle := range v.lower {
		if strings.Contains(haystack, needle) {
			out = append(out, v.skills[i])
		}
	}
	return out
}
