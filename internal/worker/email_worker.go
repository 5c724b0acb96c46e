package worker

// email_worker.go
// Processes email jobs from QueueEmail: saved sales reports mailed with the
// PDF attached. Calls go through a circuit breaker so a dead SMTP relay fails
// fast instead of tying up the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"micromercado/internal/infra"

	"github.com/rs/zerolog/log"
)

type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Mailer is satisfied by *infra.Mailer.
type Mailer interface {
	SendReporte(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends the email. Malformed or address-less payloads are dropped
// without retry.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendReporte(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		return fmt.Errorf("email_worker: envio a %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: reporte enviado")
	return nil
}
