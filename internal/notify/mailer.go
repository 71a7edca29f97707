package notify

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/telemetry"
)

// Mailer renders the email templates and hands them to a Sender, throttled by
// a token bucket shared across goroutines.
type Mailer struct {
	Sender  Sender
	From    string
	Limiter *rate.Limiter
}

// NewMailer allows perMinute sends per minute with a burst of the same size.
// perMinute <= 0 disables throttling.
func NewMailer(sender Sender, from string, perMinute int) *Mailer {
	m := &Mailer{Sender: sender, From: from}
	if perMinute > 0 {
		m.Limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	}
	return m
}

func (m *Mailer) SendWelcome(ctx context.Context, to, fullName string) error {
	return m.send(ctx, to, "Welcome to JobAssist!", "welcome", map[string]any{"Name": fullName})
}

func (m *Mailer) SendApplicationConfirmation(ctx context.Context, to, fullName, jobTitle, company string, matchScore int) error {
	subject := fmt.Sprintf("Application Submitted: %s at %s", jobTitle, company)
	return m.send(ctx, to, subject, "confirmation", map[string]any{
		"Name":       fullName,
		"JobTitle":   jobTitle,
		"Company":    company,
		"MatchScore": matchScore,
	})
}

func (m *Mailer) SendJobAlert(ctx context.Context, to, fullName string, jobs []JobAlert) error {
	subject := fmt.Sprintf("%d New Job Matches Found!", len(jobs))
	return m.send(ctx, to, subject, "jobAlert", map[string]any{"Name": fullName, "Jobs": jobs})
}

func (m *Mailer) SendSkillRecommendations(ctx context.Context, to, fullName string, recs []SkillRecommendation) error {
	return m.send(ctx, to, "Skill Gap Analysis & Learning Recommendations", "skills", map[string]any{"Name": fullName, "Recs": recs})
}

func (m *Mailer) send(ctx context.Context, to, subject, tmpl string, data any) error {
	if strings.TrimSpace(to) == "" {
		return &DeliveryError{To: to, Subject: subject, Err: fmt.Errorf("missing recipient")}
	}
	body, err := render(tmpl, data)
	if err != nil {
		return &DeliveryError{To: to, Subject: subject, Err: err}
	}
	if m.Limiter != nil {
		if err := m.Limiter.Wait(ctx); err != nil {
			return &DeliveryError{To: to, Subject: subject, Err: err}
		}
	}
	if err := m.Sender.Send(ctx, Message{From: m.From, To: to, Subject: subject, HTML: body}); err != nil {
		metrics.IncNotificationsFailed()
		return &DeliveryError{To: to, Subject: subject, Err: err}
	}
	metrics.IncNotificationsSent()
	telemetry.Info("notify.email.sent", map[string]any{
		"request_id": telemetry.RequestIDFromContext(ctx),
		"template":   tmpl,
	})
	return nil
}

var _ Notifier = (*Mailer)(nil)
