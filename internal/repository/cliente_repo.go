package repository

import (
	"strings"

	"micromercado/internal/model"
	"micromercado/internal/store"
)

type ClienteRepository interface {
	Repository[model.Cliente]
	// Search matches q case-insensitively against name, surname and id.
	Search(tx *store.Tx, q string) ([]model.Cliente, error)
}

type clienteRepo struct{ coleccion[model.Cliente] }

func NewClienteRepository() ClienteRepository {
	return &clienteRepo{coleccion[model.Cliente]{
		key: KeyClientes,
		id:  func(c *model.Cliente) string { return c.ID },
	}}
}

func (r *clienteRepo) Search(tx *store.Tx, q string) ([]model.Cliente, error) {
	clientes, err := r.List(tx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return clientes, nil
	}
	out := make([]model.Cliente, 0, len(clientes))
	for _, c := range clientes {
		if strings.Contains(strings.ToLower(c.Nombre), q) ||
			strings.Contains(strings.ToLower(c.Apellido), q) ||
			strings.Contains(strings.ToLower(c.ID), q) {
			out = append(out, c)
		}
	}
	return out, nil
}
