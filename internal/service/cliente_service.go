package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"micromercado/internal/dto"
	"micromercado/internal/model"
	"micromercado/internal/repository"
	"micromercado/internal/store"
)

type ClienteService interface {
	Listar(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error)
	Obtener(ctx context.Context, id string) (*model.Cliente, error)
	Crear(ctx context.Context, req dto.ClienteRequest) (*model.Cliente, error)
	Actualizar(ctx context.Context, id string, req dto.ClienteRequest) (*model.Cliente, error)
	Eliminar(ctx context.Context, id string) error
}

type clienteService struct {
	store *store.Store
	repo  repository.ClienteRepository
}

func NewClienteService(st *store.Store, repo repository.ClienteRepository) ClienteService {
	return &clienteService{store: st, repo: repo}
}

func clienteNoEncontrado(id string) error {
	return fmt.Errorf("%w: cliente %s", ErrNoEncontrado, id)
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		clientes, err = s.repo.Search(tx, filter.Q)
		return err
	})
	return clientes, err
}

func (s *clienteService) Obtener(ctx context.Context, id string) (*model.Cliente, error) {
	var c *model.Cliente
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		c, err = s.repo.FindByID(tx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, clienteNoEncontrado(id)
	}
	return c, err
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*model.Cliente, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", ErrValidacion)
	}
	c := model.Cliente{
		Nombre:       strings.TrimSpace(req.Nombre),
		Apellido:     strings.TrimSpace(req.Apellido),
		Telefono:     strings.TrimSpace(req.Telefono),
		Departamento: strings.TrimSpace(req.Departamento),
	}
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		clientes, err := s.repo.List(tx)
		if err != nil {
			return err
		}
		c.ID = nextSeqID("CLI", len(clientes)+1, idSet(clientes, func(c *model.Cliente) string { return c.ID }))
		return s.repo.SaveAll(tx, append(clientes, c))
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Actualizar replaces the contact fields; order counters are kept.
func (s *clienteService) Actualizar(ctx context.Context, id string, req dto.ClienteRequest) (*model.Cliente, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", ErrValidacion)
	}
	var out model.Cliente
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		c, err := s.repo.FindByID(tx, id)
		if err != nil {
			return err
		}
		c.Nombre = strings.TrimSpace(req.Nombre)
		c.Apellido = strings.TrimSpace(req.Apellido)
		c.Telefono = strings.TrimSpace(req.Telefono)
		c.Departamento = strings.TrimSpace(req.Departamento)
		out = *c
		return s.repo.Replace(tx, *c)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, clienteNoEncontrado(id)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Eliminar removes the client. Orders keep their copied client label.
func (s *clienteService) Eliminar(ctx context.Context, id string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		return s.repo.Remove(tx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return clienteNoEncontrado(id)
	}
	return err
}
