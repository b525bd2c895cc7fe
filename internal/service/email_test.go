package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify-backend/internal/domain"
)

type fakeSender struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

func TestSendGridNotifier_Decision(t *testing.T) {
	sender := &fakeSender{response: &rest.Response{StatusCode: 202}}
	n := newSendGridNotifier(sender, "noreply@unify.edu", "Unify")

	err := n.SendRegistrationDecision(context.Background(), "alice@x.edu", "Alice", "Robotics", domain.RegistrationStatusRejected, "try next term")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Your registration for Robotics was rejected", msg.Subject)
	assert.Equal(t, "noreply@unify.edu", msg.From.Address)
	assert.Equal(t, "alice@x.edu", msg.Personalizations[0].To[0].Address)
	assert.Contains(t, msg.Content[0].Value, "try next term")
}

func TestSendGridNotifier_Failures(t *testing.T) {
	rejected := &fakeSender{response: &rest.Response{StatusCode: 401, Body: "bad key"}}
	err := newSendGridNotifier(rejected, "noreply@unify.edu", "Unify").
		SendRemovalNotice(context.Background(), "bob@x.edu", "Bob", "Chess", "")
	assert.ErrorContains(t, err, "status 401")

	broken := &fakeSender{err: errors.New("dial tcp: timeout")}
	err = newSendGridNotifier(broken, "noreply@unify.edu", "Unify").
		SendRemovalNotice(context.Background(), "bob@x.edu", "Bob", "Chess", "")
	assert.ErrorContains(t, err, "failed to send email")
}

func TestEmailBodies(t *testing.T) {
	subject, body := removalEmail("Bob", "Chess", "inactive")
	assert.Equal(t, "Membership update - Chess", subject)
	assert.Contains(t, body, "Reason: inactive")

	_, body = removalEmail("Bob", "Chess", "")
	assert.NotContains(t, body, "Reason")

	_, body = decisionEmail("Alice", "Robotics", domain.RegistrationStatusApproved, "")
	assert.Contains(t, body, "has been approved")
	assert.NotContains(t, body, "Note from")
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier()
	assert.NoError(t, n.SendRegistrationDecision(context.Background(), "a@x.edu", "A", "Robotics", domain.RegistrationStatusApproved, ""))
	assert.NoError(t, n.SendRemovalNotice(context.Background(), "a@x.edu", "A", "Robotics", "gone"))
}
