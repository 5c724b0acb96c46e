package repository

import (
	"strings"

	"micromercado/internal/model"
	"micromercado/internal/store"
)

type CajeroRepository interface {
	Repository[model.Cajero]
	FindByEmail(tx *store.Tx, email string) (*model.Cajero, error)
}

type cajeroRepo struct{ coleccion[model.Cajero] }

func NewCajeroRepository() CajeroRepository {
	return &cajeroRepo{coleccion[model.Cajero]{
		key: KeyCajeros,
		id:  func(c *model.Cajero) string { return c.ID },
	}}
}

// FindByEmail compares addresses case-insensitively.
func (r *cajeroRepo) FindByEmail(tx *store.Tx, email string) (*model.Cajero, error) {
	cajeros, err := r.List(tx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	for i := range cajeros {
		if strings.EqualFold(cajeros[i].Email, email) {
			return &cajeros[i], nil
		}
	}
	return nil, ErrNotFound
}
