package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Postmark sends transactional email through the Postmark API.
type Postmark struct {
	client *postmark.Client
	sender string
}

func NewPostmark(serverToken, accountToken, sender string) (*Postmark, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
	}
	if sender == "" {
		return nil, fmt.Errorf("%w: postmark sender is required", ErrInvalidConfig)
	}
	return &Postmark{client: postmark.NewClient(serverToken, accountToken), sender: sender}, nil
}

func (p *Postmark) Send(ctx context.Context, to, subject, text, html string) error {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:       p.sender,
		To:         to,
		Subject:    subject,
		TextBody:   text,
		HTMLBody:   html,
		TrackOpens: false,
	})
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrFailedToSend, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
