package repository

import (
	"micromercado/internal/model"
)

// ProductoRepository defines the data access contract for the catalog.
type ProductoRepository interface {
	Repository[model.Producto]
}

type productoRepo struct{ coleccion[model.Producto] }

func NewProductoRepository() ProductoRepository {
	return &productoRepo{coleccion[model.Producto]{
		key: KeyProductos,
		id:  func(p *model.Producto) string { return p.ID },
	}}
}
