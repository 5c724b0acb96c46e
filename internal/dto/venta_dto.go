package dto

type RegistrarVentaRequest struct {
	TipoPago string `json:"paymentType" validate:"max=30"`  // default "Efectivo"
	Cliente  string `json:"client"      validate:"max=120"` // default "Venta directa"
}

type VentaFilter struct {
	Fecha string `form:"date"` // YYYY-MM-DD, server local time
}
