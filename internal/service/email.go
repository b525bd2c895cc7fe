package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
)

// mailSender is the part of *sendgrid.Client we use.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridNotifier struct {
	client mailSender
	from   *mail.Email
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) Notifier {
	return newSendGridNotifier(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newSendGridNotifier(client mailSender, fromEmail, fromName string) *sendGridNotifier {
	return &sendGridNotifier{client: client, from: mail.NewEmail(fromName, fromEmail)}
}

func (n *sendGridNotifier) send(ctx context.Context, to, toName, subject, body string) error {
	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail(toName, to), body, "")
	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (n *sendGridNotifier) SendRegistrationDecision(ctx context.Context, to, studentName, chapterName string, status domain.RegistrationStatus, notes string) error {
	subject, body := decisionEmail(studentName, chapterName, status, notes)
	return n.send(ctx, to, studentName, subject, body)
}

func (n *sendGridNotifier) SendRemovalNotice(ctx context.Context, to, studentName, chapterName, reason string) error {
	subject, body := removalEmail(studentName, chapterName, reason)
	return n.send(ctx, to, studentName, subject, body)
}

func decisionEmail(studentName, chapterName string, status domain.RegistrationStatus, notes string) (string, string) {
	subject := fmt.Sprintf("Your registration for %s was %s", chapterName, status)
	body := fmt.Sprintf("Hello %s,\n\nYour registration for %s has been %s.", studentName, chapterName, status)
	if notes != "" {
		body += fmt.Sprintf("\n\nNote from the chapter head: %s", notes)
	}
	body += "\n\nBest regards,\nThe Unify Team"
	return subject, body
}

func removalEmail(studentName, chapterName, reason string) (string, string) {
	subject := fmt.Sprintf("Membership update - %s", chapterName)
	body := fmt.Sprintf("Hello %s,\n\nYou have been removed from %s.", studentName, chapterName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Unify Team"
	return subject, body
}

// logNotifier writes emails to the log instead of sending them.
type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) SendRegistrationDecision(ctx context.Context, to, studentName, chapterName string, status domain.RegistrationStatus, notes string) error {
	subject, _ := decisionEmail(studentName, chapterName, status, notes)
	logger.InfoContext(ctx, "Email (not sent)", "to", to, "subject", subject)
	return nil
}

func (logNotifier) SendRemovalNotice(ctx context.Context, to, studentName, chapterName, reason string) error {
	subject, _ := removalEmail(studentName, chapterName, reason)
	logger.InfoContext(ctx, "Email (not sent)", "to", to, "subject", subject)
	return nil
}
