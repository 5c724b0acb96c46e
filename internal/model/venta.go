package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClienteVentaDirecta labels sales without a registered client.
const ClienteVentaDirecta = "Venta directa"

// ItemVenta is one product line copied onto a sale or an order at commit time.
type ItemVenta struct {
	ProductoID string          `json:"id"`
	Nombre     string          `json:"name"`
	Precio     decimal.Decimal `json:"price"`
	Cantidad   int             `json:"quantity"`
}

// Subtotal is Precio × Cantidad.
func (i ItemVenta) Subtotal() decimal.Decimal {
	return i.Precio.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// Venta is an immediate sale. Immutable once created.
type Venta struct {
	ID             string          `json:"id"`
	Cliente        string          `json:"client"`
	CantidadTotal  int             `json:"productQuantity"`
	Cajero         string          `json:"cashier"`
	TipoPago       string          `json:"paymentType"`
	Monto          decimal.Decimal `json:"amount"`
	Fecha          time.Time       `json:"date"`
	Items          []ItemVenta     `json:"products,omitempty"`
	ConflictoStock bool            `json:"stockConflict,omitempty"`
}

// Dia returns the sale date as YYYY-MM-DD in server local time.
func (v Venta) Dia() string { return v.Fecha.Local().Format("2006-01-02") }
