package dto

// CrearPedidoRequest carries no validate tags: missing client and missing
// date have their own error kinds.
type CrearPedidoRequest struct {
	ClienteID    string `json:"clientId"`
	FechaEntrega string `json:"date"` // YYYY-MM-DD
}

type PedidoFilter struct {
	Estado string `form:"status" validate:"omitempty,oneof=pending delivered"`
}
