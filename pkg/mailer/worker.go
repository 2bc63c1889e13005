package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/pinit-down/pkg/mailer/templates"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack   Outcome = iota // sent
	Drop                 // malformed or unrenderable; retrying cannot help
	Retry                // delivery failed; requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	case Retry:
		return "retry"
	}
	return "unknown"
}

// Compose returns the message parts, rendering the template when one is set.
func (j EmailJob) Compose() (subject, text, html string, err error) {
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	if !mailtpl.Exists(j.Template) {
		return "", "", "", fmt.Errorf("unknown template %q", j.Template)
	}
	return mailtpl.Render(j.Template, j.Data)
}

// Worker turns queued EmailJob messages into deliveries.
type Worker struct {
	Sender  Sender
	Timeout time.Duration
	Logger  *logrus.Logger
}

func NewWorker(sender Sender, timeout time.Duration, logger *logrus.Logger) *Worker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Worker{Sender: sender, Timeout: timeout, Logger: logger}
}

// Handle decodes, renders and sends one message body.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad message")
		return Drop
	}
	log := w.Logger.WithFields(logrus.Fields{"job_id": job.ID, "template": job.Template})
	if err := job.Validate(); err != nil {
		log.WithError(err).Warn("invalid email job")
		return Drop
	}

	subject, text, html, err := job.Compose()
	if err != nil {
		log.WithError(err).Error("render failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Warn("send failed")
		return Retry
	}
	log.Info("email sent")
	return Ack
}
