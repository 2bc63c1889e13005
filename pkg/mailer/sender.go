package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrMissingRecipient = errors.New("email job has no recipient")
	ErrEmptyMessage     = errors.New("email job needs a template or a subject with body")
	ErrFailedToSend     = errors.New("failed to send email")
	ErrInvalidConfig    = errors.New("invalid mail provider config")
)

// Provider names accepted by NewSender.
const (
	ProviderMailgun  = "mailgun"
	ProviderPostmark = "postmark"
	ProviderLog      = "log"
)

// Sender delivers one rendered message. html is optional.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ProviderConfig carries the credentials of every supported provider.
type ProviderConfig struct {
	Provider             string
	MailgunDomain        string
	MailgunAPIKey        string
	MailgunSender        string
	PostmarkServerToken  string
	PostmarkAccountToken string
	PostmarkSender       string
}

// NewSender builds the Sender selected by cfg.Provider.
func NewSender(cfg ProviderConfig, logger *logrus.Logger) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderMailgun, "":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			return nil, fmt.Errorf("%w: mailgun domain, api key and sender are required", ErrInvalidConfig)
		}
		return NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), nil
	case ProviderPostmark:
		return NewPostmark(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.PostmarkSender)
	case ProviderLog:
		return NewLogSender(logger), nil
	}
	return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
}

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	Logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender { return &LogSender{Logger: logger} }

func (s *LogSender) Send(_ context.Context, to, subject, text, _ string) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info(text)
	}
	return nil
}
