package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoPedido is the lifecycle state of a scheduled order.
type EstadoPedido string

const (
	PedidoPendiente EstadoPedido = "pending"
	PedidoEntregado EstadoPedido = "delivered"
)

// Pedido is an order scheduled for delivery to a registered client.
// Created pending; moves to delivered exactly once.
type Pedido struct {
	ID            string          `json:"id"`
	ClienteID     string          `json:"clientId"`
	Cliente       string          `json:"client"`
	CantidadTotal int             `json:"productQuantity"`
	Monto         decimal.Decimal `json:"amount"`
	Estado        EstadoPedido    `json:"status"`
	FechaEntrega  string          `json:"date"` // YYYY-MM-DD
	Items         []ItemVenta     `json:"products"`
	CreatedAt     time.Time       `json:"createdAt"`
	EntregadoAt   *time.Time      `json:"deliveredAt,omitempty"`
}
