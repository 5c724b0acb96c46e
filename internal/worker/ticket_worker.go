package worker

// ticket_worker.go
// Archives the ticket PDF of every committed sale so the download endpoint
// can serve it without re-rendering.

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

type TicketJobPayload struct {
	VentaID string `json:"venta_id"`
}

// TicketArchiver renders and stores the ticket of one sale, returning the
// file path.
type TicketArchiver interface {
	ArchivarTicket(ctx context.Context, ventaID string) (string, error)
}

type TicketWorker struct {
	archiver TicketArchiver
}

func NewTicketWorker(a TicketArchiver) *TicketWorker {
	return &TicketWorker{archiver: a}
}

func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.VentaID == "" {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return nil
	}
	path, err := w.archiver.ArchivarTicket(ctx, payload.VentaID)
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", payload.VentaID).Str("pdf", path).Msg("ticket_worker: ticket archivado")
	return nil
}
