package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"life-tasks/internal/model"
)

func sampleDigest() Digest {
	due := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	return Digest{
		User: model.User{Name: "Ann", Email: "ann@example.com", Preferences: model.Preferences{NotifyEmail: true}},
		Tasks: []model.Task{
			{Title: "Pay rent", Priority: model.PriorityHigh, DueDate: &due},
			{Title: "Call <mom>", Priority: model.PriorityLow},
		},
		GeneratedAt:  time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC),
		DashboardURL: "http://localhost:3000",
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleDigest())

	assert.Contains(t, text, "Hello Ann,")
	assert.Contains(t, text, "- Pay rent (Due: 2026-03-04) - Priority: high")
	assert.Contains(t, text, "- Call <mom> (No due date) - Priority: low")
	assert.Contains(t, text, "http://localhost:3000")
}

func TestRenderHTMLEscapes(t *testing.T) {
	body := RenderHTML(sampleDigest())

	assert.Contains(t, body, "<strong>Call &lt;mom&gt;</strong>")
	assert.Contains(t, body, `<span style="color: red">high</span>`)
	assert.Contains(t, body, `<a href="http://localhost:3000">`)
}

func TestRenderTelegramIcons(t *testing.T) {
	text := RenderTelegram(sampleDigest())

	assert.Contains(t, text, "⏳ Pay rent")
	assert.Contains(t, text, "🟢 Call &lt;mom&gt;")
	assert.Contains(t, text, "2026-03-03")
}

type fakeSender struct {
	msgs []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.msgs = append(f.msgs, messages...)
	return f.err
}

func TestEmailNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := &EmailNotifier{from: "bot@example.com", sender: sender}

	d := sampleDigest()
	assert.True(t, n.Enabled(d.User))
	assert.False(t, n.Enabled(model.User{Email: "x@example.com"}))

	require.NoError(t, n.Send(context.Background(), d))
	require.Len(t, sender.msgs, 1)

	var buf bytes.Buffer
	_, err := sender.msgs[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "ann@example.com")
	assert.Contains(t, raw, Subject)
	assert.Contains(t, raw, "Hello Ann,")

	sender.err = errors.New("connection refused")
	assert.Error(t, n.Send(context.Background(), d))
}

func TestNewEmailNotifierRequiresHost(t *testing.T) {
	_, err := NewEmailNotifier(EmailConfig{})
	assert.Error(t, err)

	n, err := NewEmailNotifier(EmailConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "u@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "email", n.Channel())
}
