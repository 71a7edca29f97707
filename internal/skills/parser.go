package skills

import "strings"

// Profile is everything derived from one resume text.
type Profile struct {
	Skills          Set
	ExperienceYears int
	Contact         Contact
	EnhancedText    string
}

// Parser combines a vocabulary with a ProfileExtractor. It holds no per-call
// state and is safe for concurrent use.
type Parser struct {
	Vocabulary *Vocabulary
	Profile    ProfileExtractor
}

// NewParser returns a Parser using the regex profile heuristics.
func NewParser(vocab *Vocabulary) *Parser {
	return &Parser{Vocabulary: vocab, Profile: RegexProfileExtractor{}}
}

// Parse extracts skills, experience and contact details from text.
func (p *Parser) Parse(text string) Profile {
	extractor := p.Profile
	if extractor == nil {
		extractor = RegexProfileExtractor{}
	}
	return Profile{
		Skills:          p.Vocabulary.Extract(text),
		ExperienceYears: extractor.ExperienceYears(text),
		Contact: Contact{
			Name:  extractor.Name(text),
			Email: extractor.Email(text),
			Phone: extractor.Phone(text),
		},
		EnhancedText: Enhance(text),
	}
}

// Enhance collapses whitespace runs to single spaces.
func Enhance(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
