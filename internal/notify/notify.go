// Package notify sends transactional emails. Sending is best effort: callers
// get a Result, never an error, and a failed send is only logged.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Confirmation is the application-submitted email.
type Confirmation struct {
	ToEmail   string
	UserName  string
	Company   string
	Role      string
	ApplyLink string
}

// Result reports the outcome of one send.
type Result struct {
	Sent bool
	ID   string
	Err  error
}

// Sender delivers application confirmations.
type Sender interface {
	SendApplicationConfirmation(ctx context.Context, c Confirmation) Result
}

// ResendSender delivers through the Resend API. Without an API key every
// send reports failure without contacting anything.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendSender builds a sender; apiKey may be empty.
func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	s := &ResendSender{from: from, logger: logger}
	if apiKey != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

// Enabled reports whether an API key was configured.
func (s *ResendSender) Enabled() bool { return s.client != nil }

func (s *ResendSender) SendApplicationConfirmation(ctx context.Context, c Confirmation) Result {
	if s.client == nil {
		s.logger.Warn("no RESEND_API_KEY, skipping email", zap.String("role", c.Role))
		return Result{Err: fmt.Errorf("email sender not configured")}
	}
	if c.ToEmail == "" {
		return Result{Err: fmt.Errorf("no recipient")}
	}

	html, err := RenderConfirmation(c)
	if err != nil {
		s.logger.Error("render confirmation failed", zap.Error(err))
		return Result{Err: err}
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{c.ToEmail},
		Subject: Subject(c),
		Html:    html,
	})
	if err != nil {
		s.logger.Error("email send failed", zap.String("to", c.ToEmail), zap.Error(err))
		return Result{Err: err}
	}

	s.logger.Info("email sent", zap.String("id", sent.Id))
	return Result{Sent: true, ID: sent.Id}
}

// Subject is the confirmation subject line.
func Subject(c Confirmation) string {
	return fmt.Sprintf("✅ Application Submitted: %s at %s", c.Role, c.Company)
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: 'Segoe UI', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 40px 20px;">
  <h1 style="color: #1e293b; text-align: center;">🎉 Application Submitted!</h1>
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); border-radius: 16px; padding: 30px; color: white;">
    <h2 style="margin: 0 0 10px 0;">{{.Role}}</h2>
    <p style="margin: 0;">{{.Company}}</p>
  </div>
  <div style="background: #f8fafc; border-radius: 12px; padding: 24px; margin: 30px 0; color: #475569;">
    <p>Hi {{.Greeting}}! 👋</p>
    <p>Your application for <strong>{{.Role}}</strong> at <strong>{{.Company}}</strong> has been recorded.</p>
    <p>We've saved this to your profile so you can track all your applications in one place.</p>
  </div>
  {{- if .ShowLink}}
  <div style="text-align: center; margin-bottom: 30px;">
    <a href="{{.ApplyLink}}" style="background: #3b82f6; color: white; text-decoration: none; padding: 14px 32px; border-radius: 12px;">View Job Posting →</a>
  </div>
  {{- end}}
  <p style="text-align: center; color: #94a3b8; font-size: 14px;">Good luck with your interview! 🚀</p>
</div>`))

// RenderConfirmation renders the HTML body. The posting link is included only
// for a real link.
func RenderConfirmation(c Confirmation) (string, error) {
	greeting := c.UserName
	if greeting == "" {
		greeting = "there"
	}
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		Confirmation
		Greeting string
		ShowLink bool
	}{c, greeting, c.ApplyLink != "" && c.ApplyLink != "#"})
	if err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}
