package repository

import (
	"micromercado/internal/model"
)

type VentaRepository interface {
	Repository[model.Venta]
}

type ventaRepo struct{ coleccion[model.Venta] }

func NewVentaRepository() VentaRepository {
	return &ventaRepo{coleccion[model.Venta]{
		key: KeyVentas,
		id:  func(v *model.Venta) string { return v.ID },
	}}
}
