package repository

import (
	"micromercado/internal/model"
)

type PedidoRepository interface {
	Repository[model.Pedido]
}

type pedidoRepo struct{ coleccion[model.Pedido] }

func NewPedidoRepository() PedidoRepository {
	return &pedidoRepo{coleccion[model.Pedido]{
		key: KeyPedidos,
		id:  func(p *model.Pedido) string { return p.ID },
	}}
}
