package dto

import (
	"micromercado/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductoRequest is used for both create and full-record update.
type ProductoRequest struct {
	Nombre      string          `json:"name"     validate:"required,max=120"`
	Unidad      string          `json:"unit"     validate:"required,max=30"`
	Categoria   string          `json:"type"     validate:"max=60"`
	Precio      decimal.Decimal `json:"price"    validate:"min=0"`
	Stock       int             `json:"stock"    validate:"min=0"`
	StockMinimo int             `json:"stockMin" validate:"min=0"`
}

type DescontarStockRequest struct {
	Cantidad int `json:"quantity" validate:"min=1"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"name"`
	Categoria string `form:"type"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoListResponse struct {
	Data       []model.Producto `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint.
type ConsultaPreciosResponse struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"name"`
	Unidad          string          `json:"unit"`
	Precio          decimal.Decimal `json:"price"`
	StockDisponible int             `json:"stock"`
}
