package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketSinDetalle is the only line printed for a sale recorded without items.
const TicketSinDetalle = "Sin detalle de productos disponible"

// LineaTicket is one printed row of a ticket.
type LineaTicket struct {
	Nombre         string          `json:"name"`
	Cantidad       int             `json:"quantity"`
	PrecioUnitario decimal.Decimal `json:"unitPrice"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// Ticket is the printable receipt derived from a single Venta.
type Ticket struct {
	Negocio  string        `json:"business"`
	VentaID  string        `json:"saleId"`
	Cliente  string        `json:"client"`
	Cajero   string        `json:"cashier"`
	TipoPago string        `json:"paymentType"`
	Fecha    time.Time     `json:"date"`
	Lineas   []LineaTicket `json:"lines"`
	// SinDetalle marks a sale without item data; Lineas is empty then.
	SinDetalle bool            `json:"noDetail"`
	Total      decimal.Decimal `json:"total"`
}
