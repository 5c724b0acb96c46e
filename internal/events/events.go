// Package events publishes sale and order lifecycle events. Publishing is
// best-effort: a commit never fails because an event could not be sent.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventVentaRegistrada = "VentaRegistrada"
	EventVentaEliminada  = "VentaEliminada"
	EventPedidoCreado    = "PedidoCreado"
	EventPedidoEntregado = "PedidoEntregado"
	EventPedidoCancelado = "PedidoCancelado"
	EventStockAgotado    = "StockAgotado"
)

const producerName = "micromercado"

// Envelope wraps every payload on the topic.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // sale or order id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope builds a version-1 envelope; key becomes the correlation id.
func NewEnvelope(eventType, key string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: key,
		Payload:       raw,
	}, nil
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any)
}

// Nop discards every event. Used when KAFKA_BROKERS is empty.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) {}

// ---- Payloads ----

type StockAgotadoPayload struct {
	ProductoID string `json:"producto_id"`
	Solicitado int    `json:"solicitado"`
	Disponible int    `json:"disponible"`
	Referencia string `json:"referencia"` // sale or order id
}

type PedidoEstadoPayload struct {
	PedidoID  string `json:"pedido_id"`
	ClienteID string `json:"cliente_id"`
	Estado    string `json:"estado"`
}
