package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/pkg/mailer"
	mailtpl "github.com/oksasatya/pinit-down/pkg/mailer/templates"
)

// Notifier delivers account emails. Implementations may queue the message.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, u entity.User, token string, expires time.Time) error
	SendPasswordResetEmail(ctx context.Context, u entity.User, token string, expires time.Time) error
}

// JobPublisher puts a JSON message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailLinks are the front-end pages that consume the tokens.
type EmailLinks struct {
	VerifyEmailURL   string
	ResetPasswordURL string
}

// EmailNotifier renders nothing itself; it publishes template jobs for the email worker.
type EmailNotifier struct {
	Pub   JobPublisher
	Brand mailtpl.Brand
	Links EmailLinks
	now   func() time.Time
}

func NewEmailNotifier(pub JobPublisher, brand mailtpl.Brand, links EmailLinks) *EmailNotifier {
	return &EmailNotifier{Pub: pub, Brand: brand, Links: links, now: time.Now}
}

func (n *EmailNotifier) SendVerificationEmail(ctx context.Context, u entity.User, token string, expires time.Time) error {
	link := mailtpl.LinkWithToken(n.Links.VerifyEmailURL, token)
	data := mailtpl.NewVerifyEmailData(n.Brand, u.Name, u.Email, link, mailtpl.WithExpiresAt(expires))
	return n.publish(ctx, u.Email, mailtpl.VerifyEmail, data)
}

func (n *EmailNotifier) SendPasswordResetEmail(ctx context.Context, u entity.User, token string, expires time.Time) error {
	link := mailtpl.LinkWithToken(n.Links.ResetPasswordURL, token)
	data := mailtpl.NewForgotPasswordData(n.Brand, u.Name, u.Email, link, mailtpl.WithExpiresAt(expires))
	return n.publish(ctx, u.Email, mailtpl.ForgotPassword, data)
}

func (n *EmailNotifier) publish(ctx context.Context, to, template string, data map[string]any) error {
	job := mailer.EmailJob{
		ID:        uuid.NewString(),
		To:        to,
		Template:  template,
		Data:      data,
		CreatedAt: n.now().UTC(),
	}
	return n.Pub.PublishJSON(ctx, job)
}

// LogNotifier is used when email sending is disabled. Links are logged at debug level.
type LogNotifier struct {
	Logger *logrus.Logger
	Links  EmailLinks
}

func NewLogNotifier(logger *logrus.Logger, links EmailLinks) *LogNotifier {
	return &LogNotifier{Logger: logger, Links: links}
}

func (n *LogNotifier) SendVerificationEmail(_ context.Context, u entity.User, token string, expires time.Time) error {
	n.log(mailtpl.VerifyEmail, u, mailtpl.LinkWithToken(n.Links.VerifyEmailURL, token), expires)
	return nil
}

func (n *LogNotifier) SendPasswordResetEmail(_ context.Context, u entity.User, token string, expires time.Time) error {
	n.log(mailtpl.ForgotPassword, u, mailtpl.LinkWithToken(n.Links.ResetPasswordURL, token), expires)
	return nil
}

func (n *LogNotifier) log(template string, u entity.User, link string, expires time.Time) {
	if n.Logger == nil {
		return
	}
	n.Logger.WithFields(logrus.Fields{
		"template": template,
		"user_id":  u.ID,
		"link":     link,
		"expires":  expires.UTC().Format(time.RFC3339),
	}).Debug("email sending disabled")
}
