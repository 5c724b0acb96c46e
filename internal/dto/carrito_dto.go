package dto

import "github.com/shopspring/decimal"

type AgregarLineaRequest struct {
	ProductoID string `json:"productId" validate:"required"`
	Cantidad   int    `json:"quantity" validate:"max=100000"` // <= 0 counts as 1
}

type FijarCantidadRequest struct {
	Cantidad int `json:"quantity" validate:"max=100000"` // < 1 counts as 1
}

type LineaCarritoResponse struct {
	ProductoID string          `json:"productId"`
	Nombre     string          `json:"name"`
	Precio     decimal.Decimal `json:"price"`
	Cantidad   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Stock      int             `json:"stock"`
	// Disponible is false when the product was deleted from the catalog.
	Disponible bool `json:"available"`
	// SinStock is true when Cantidad exceeds the current stock; the sale
	// still goes through with stock clamped at zero.
	SinStock bool `json:"overStock"`
}

type CarritoResponse struct {
	Lineas        []LineaCarritoResponse `json:"lines"`
	CantidadTotal int                    `json:"itemCount"`
	Total         decimal.Decimal        `json:"total"`
}
