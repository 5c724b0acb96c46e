// Package repository exposes one typed collection per store key. Every
// operation runs inside a *store.Tx; nothing is written until the caller's
// transaction commits.
package repository

import (
	"errors"

	"micromercado/internal/store"
)

// Collection keys. These are the document names the data was always stored
// under and must not change.
const (
	KeyProductos      = "productos"
	KeyClientes       = "clientes"
	KeyCajeros        = "cajeros"
	KeyVentas         = "ventas"
	KeyPedidos        = "pedidos"
	KeyReportes       = "reportes_guardados"
	KeyCajeroLogueado = "cajero_logueado"
)

var ErrNotFound = errors.New("registro no encontrado")

// Repository is the data access contract shared by every collection.
// Services depend on the typed interfaces below, never on coleccion.
type Repository[T any] interface {
	List(tx *store.Tx) ([]T, error)
	FindByID(tx *store.Tx, id string) (*T, error)
	Exists(tx *store.Tx, id string) (bool, error)
	SaveAll(tx *store.Tx, items []T) error
	Append(tx *store.Tx, item T) error
	Replace(tx *store.Tx, item T) error
	Remove(tx *store.Tx, id string) error
}

type coleccion[T any] struct {
	key string
	id  func(*T) string
}

func (c coleccion[T]) List(tx *store.Tx) ([]T, error) {
	return store.Load[T](tx, c.key)
}

func (c coleccion[T]) SaveAll(tx *store.Tx, items []T) error {
	return store.Save(tx, c.key, items)
}

func (c coleccion[T]) FindByID(tx *store.Tx, id string) (*T, error) {
	items, err := c.List(tx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if c.id(&items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (c coleccion[T]) Exists(tx *store.Tx, id string) (bool, error) {
	_, err := c.FindByID(tx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Append adds item at the end, keeping insertion order.
func (c coleccion[T]) Append(tx *store.Tx, item T) error {
	items, err := c.List(tx)
	if err != nil {
		return err
	}
	return c.SaveAll(tx, append(items, item))
}

// Replace swaps the record with the same id in place.
func (c coleccion[T]) Replace(tx *store.Tx, item T) error {
	items, err := c.List(tx)
	if err != nil {
		return err
	}
	id := c.id(&item)
	for i := range items {
		if c.id(&items[i]) == id {
			items[i] = item
			return c.SaveAll(tx, items)
		}
	}
	return ErrNotFound
}

func (c coleccion[T]) Remove(tx *store.Tx, id string) error {
	items, err := c.List(tx)
	if err != nil {
		return err
	}
	for i := range items {
		if c.id(&items[i]) == id {
			return c.SaveAll(tx, append(items[:i], items[i+1:]...))
		}
	}
	return ErrNotFound
}
