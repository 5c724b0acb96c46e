package repository

import (
	"micromercado/internal/model"
	"micromercado/internal/store"
)

// SesionRepository persists the logged-in cashier singleton.
type SesionRepository interface {
	Get(tx *store.Tx) (*model.CajeroLogueado, error)
	Set(tx *store.Tx, c model.CajeroLogueado) error
	Clear(tx *store.Tx) error
}

type sesionRepo struct{}

func NewSesionRepository() SesionRepository { return sesionRepo{} }

func (sesionRepo) Get(tx *store.Tx) (*model.CajeroLogueado, error) {
	return store.LoadOne[model.CajeroLogueado](tx, KeyCajeroLogueado)
}

func (sesionRepo) Set(tx *store.Tx, c model.CajeroLogueado) error {
	return store.SaveOne(tx, KeyCajeroLogueado, &c)
}

func (sesionRepo) Clear(tx *store.Tx) error {
	return store.SaveOne[model.CajeroLogueado](tx, KeyCajeroLogueado, nil)
}
