// Package notify delivers outbound email on behalf of users.
package notify

import (
	"context"
	"fmt"
)

// JobAlert is one job listed in a job-alert email.
type JobAlert struct {
	Title      string
	Company    string
	Location   string
	MatchScore int
	URL        string
}

// SkillRecommendation is one entry of a learning-path email.
type SkillRecommendation struct {
	Skill        string
	Priority     string
	LearningTime string
	Resources    []string
}

// Notifier sends user-facing emails. Implementations must be safe for
// concurrent use.
type Notifier interface {
	SendWelcome(ctx context.Context, to, fullName string) error
	SendApplicationConfirmation(ctx context.Context, to, fullName, jobTitle, company string, matchScore int) error
	SendJobAlert(ctx context.Context, to, fullName string, jobs []JobAlert) error
	SendSkillRecommendations(ctx context.Context, to, fullName string, recs []SkillRecommendation) error
}

// DeliveryError wraps a transport failure for one message.
type DeliveryError struct {
	To      string
	Subject string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %q to %s: %v", e.Subject, e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Message is a rendered email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender is the transport behind a Mailer.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
