package mailer

import "time"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	ID        string         `json:"id"`
	To        string         `json:"to"`
	Subject   string         `json:"subject,omitempty"`
	Text      string         `json:"text,omitempty"`
	HTML      string         `json:"html,omitempty"`
	Template  string         `json:"template,omitempty"` // "verify_email" or "forgot_password"
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate reports whether the job can be rendered and delivered.
func (j EmailJob) Validate() error {
	if j.To == "" {
		return ErrMissingRecipient
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return ErrEmptyMessage
	}
	return nil
}
