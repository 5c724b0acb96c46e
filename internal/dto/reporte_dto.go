package dto

type CrearReporteRequest struct {
	Ventas []string `json:"sales"     validate:"required,min=1,dive,required"`
	Autor  string   `json:"createdBy" validate:"max=120"`
}
