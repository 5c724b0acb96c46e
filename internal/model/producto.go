package model

import "github.com/shopspring/decimal"

// Producto is one sellable catalog entry. Stock is clamped at zero on every
// decrement, so it is never negative once persisted.
type Producto struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"name"`
	Unidad      string          `json:"unit"`
	Categoria   string          `json:"type,omitempty"`
	Precio      decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stockMin"`
}

// StockBajo reports whether the product is at or below its alert threshold.
func (p Producto) StockBajo() bool { return p.Stock <= p.StockMinimo }
