package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pinit-down/pkg/helpers"
	mailtpl "github.com/oksasatya/pinit-down/pkg/mailer/templates"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	return m.Called(ctx, to, subject, text, html).Error(0)
}

func encode(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorkerRendersTemplateJobs(t *testing.T) {
	brand := mailtpl.Brand{CompanyName: "Pinit Down", AppName: "pinit-down"}
	job := EmailJob{
		ID:       "job-1",
		To:       "alice@example.com",
		Template: mailtpl.VerifyEmail,
		Data:     mailtpl.NewVerifyEmailData(brand, "Alice", "alice@example.com", "http://app/verify-email?token=t1"),
	}

	s := &mockSender{}
	s.On("Send", mock.Anything, "alice@example.com", "Verify your email for pinit-down",
		mock.MatchedBy(func(text string) bool { return len(text) > 0 }),
		mock.MatchedBy(func(html string) bool { return len(html) > 0 }),
	).Return(nil).Once()

	w := NewWorker(s, 0, helpers.DiscardLogger())
	assert.Equal(t, Ack, w.Handle(context.Background(), encode(t, job)))
	s.AssertExpectations(t)
}

func TestWorkerSendsPlainJobs(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, "bob@example.com", "hello", "plain body", "").Return(nil).Once()

	w := NewWorker(s, 0, helpers.DiscardLogger())
	out := w.Handle(context.Background(), encode(t, EmailJob{To: "bob@example.com", Subject: "hello", Text: "plain body"}))
	assert.Equal(t, Ack, out)
	s.AssertExpectations(t)
}

func TestWorkerDropsBadMessages(t *testing.T) {
	s := &mockSender{}
	w := NewWorker(s, 0, helpers.DiscardLogger())
	ctx := context.Background()

	assert.Equal(t, Drop, w.Handle(ctx, []byte("{not json")))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{Template: mailtpl.VerifyEmail})))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{To: "x@example.com"})))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{To: "x@example.com", Template: "universal"})))
	s.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerRetriesFailedSends(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("provider down")).Once()

	w := NewWorker(s, 0, helpers.DiscardLogger())
	out := w.Handle(context.Background(), encode(t, EmailJob{To: "c@example.com", Subject: "s", HTML: "<p>x</p>"}))
	assert.Equal(t, Retry, out)
	assert.Equal(t, "retry", out.String())
}

func TestNewSenderConfig(t *testing.T) {
	_, err := NewSender(ProviderConfig{Provider: ProviderMailgun}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSender(ProviderConfig{Provider: "carrier-pigeon"}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	s, err := NewSender(ProviderConfig{Provider: ProviderLog}, helpers.DiscardLogger())
	require.NoError(t, err)
	assert.NoError(t, s.Send(context.Background(), "a@example.com", "s", "t", ""))

	mg, err := NewSender(ProviderConfig{MailgunDomain: "mg.example.com", MailgunAPIKey: "key", MailgunSender: "no-reply@example.com"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Mailgun{}, mg)
}
