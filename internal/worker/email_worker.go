package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/marcadamcarter/pantry-scanner/internal/infra"
)

// EmailJobPayload is the envelope consumed from the email queue.
type EmailJobPayload struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentPath string `json:"attachmentPath,omitempty"`
}

// EmailWorker delivers queued emails through the configured SMTP mailer.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job EmailJobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("email: decoding payload: %w", err)
	}
	if job.To == "" {
		log.Warn().Msg("email job without recipient dropped")
		return nil
	}
	if err := w.mailer.Send(job.To, job.Subject, job.Body, job.AttachmentPath); err != nil {
		return fmt.Errorf("email: sending to %s: %w", job.To, err)
	}
	log.Info().Str("to", job.To).Str("subject", job.Subject).Msg("email sent")
	return nil
}
