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

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type CajeroService interface {
	Listar(ctx context.Context) ([]dto.CajeroResponse, error)
	Obtener(ctx context.Context, id string) (*dto.CajeroResponse, error)
	Crear(ctx context.Context, req dto.CrearCajeroRequest) (*dto.CajeroResponse, error)
	Actualizar(ctx context.Context, id string, req dto.ActualizarCajeroRequest) (*dto.CajeroResponse, error)
	Eliminar(ctx context.Context, id string) error
}

type cajeroService struct {
	store      *store.Store
	repo       repository.CajeroRepository
	maxCajeros int
	bcryptCost int
}

// NewCajeroService caps the registry at maxCajeros (4 when <= 0).
func NewCajeroService(st *store.Store, repo repository.CajeroRepository, maxCajeros int) CajeroService {
	if maxCajeros <= 0 {
		maxCajeros = 4
	}
	return &cajeroService{store: st, repo: repo, maxCajeros: maxCajeros, bcryptCost: bcrypt.DefaultCost}
}

func cajeroToResponse(c *model.Cajero) dto.CajeroResponse {
	return dto.CajeroResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Apellido:    c.Apellido,
		Telefono:    c.Telefono,
		Jornada:     string(c.Jornada),
		HoraEntrada: c.HoraEntrada,
		HoraSalida:  c.HoraSalida,
		Direccion:   c.Direccion,
		Email:       c.Email,
	}
}

func cajeroNoEncontrado(id string) error {
	return fmt.Errorf("%w: cajero %s", ErrNoEncontrado, id)
}

// aplicarJornada sets the shift window derived from the jornada.
func aplicarJornada(c *model.Cajero, jornada string) error {
	j := model.Jornada(strings.ToLower(strings.TrimSpace(jornada)))
	entrada, salida, ok := j.Horario()
	if !ok {
		return fmt.Errorf("%w: jornada %q desconocida (mañana, tarde o completo)", ErrValidacion, jornada)
	}
	c.Jornada, c.HoraEntrada, c.HoraSalida = j, entrada, salida
	return nil
}

// emailLibre fails when another cashier already uses email.
func (s *cajeroService) emailLibre(tx *store.Tx, email, exceptoID string) error {
	otro, err := s.repo.FindByEmail(tx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if otro.ID != exceptoID {
		return fmt.Errorf("%w: %s", ErrEmailDuplicado, email)
	}
	return nil
}

func (s *cajeroService) Listar(ctx context.Context) ([]dto.CajeroResponse, error) {
	var cajeros []model.Cajero
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		cajeros, err = s.repo.List(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajeroResponse, len(cajeros))
	for i := range cajeros {
		resp[i] = cajeroToResponse(&cajeros[i])
	}
	return resp, nil
}

func (s *cajeroService) Obtener(ctx context.Context, id string) (*dto.CajeroResponse, error) {
	var c *model.Cajero
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		c, err = s.repo.FindByID(tx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, cajeroNoEncontrado(id)
	}
	if err != nil {
		return nil, err
	}
	resp := cajeroToResponse(c)
	return &resp, nil
}

func (s *cajeroService) Crear(ctx context.Context, req dto.CrearCajeroRequest) (*dto.CajeroResponse, error) {
	c := model.Cajero{
		Nombre:    strings.TrimSpace(req.Nombre),
		Apellido:  strings.TrimSpace(req.Apellido),
		Telefono:  strings.TrimSpace(req.Telefono),
		Direccion: strings.TrimSpace(req.Direccion),
		Email:     strings.TrimSpace(req.Email),
	}
	if c.Nombre == "" || c.Email == "" {
		return nil, fmt.Errorf("%w: nombre y email son obligatorios", ErrValidacion)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: la contraseña es obligatoria", ErrValidacion)
	}
	if err := aplicarJornada(&c, req.Jornada); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	c.PasswordHash = string(hash)

	err = s.store.Tx(ctx, func(tx *store.Tx) error {
		cajeros, err := s.repo.List(tx)
		if err != nil {
			return err
		}
		if len(cajeros) >= s.maxCajeros {
			return fmt.Errorf("%w: maximo %d", ErrLimiteCajeros, s.maxCajeros)
		}
		if err := s.emailLibre(tx, c.Email, ""); err != nil {
			return err
		}
		c.ID = nextSeqID("CAJ", len(cajeros)+1, idSet(cajeros, func(c *model.Cajero) string { return c.ID }))
		return s.repo.SaveAll(tx, append(cajeros, c))
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("cajero_id", c.ID).Str("email", c.Email).Msg("cajero creado")
	resp := cajeroToResponse(&c)
	return &resp, nil
}

func (s *cajeroService) Actualizar(ctx context.Context, id string, req dto.ActualizarCajeroRequest) (*dto.CajeroResponse, error) {
	var actualizado model.Cajero
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		c, err := s.repo.FindByID(tx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return cajeroNoEncontrado(id)
		}
		if err != nil {
			return err
		}
		c.Nombre = strings.TrimSpace(req.Nombre)
		c.Apellido = strings.TrimSpace(req.Apellido)
		c.Telefono = strings.TrimSpace(req.Telefono)
		c.Direccion = strings.TrimSpace(req.Direccion)
		c.Email = strings.TrimSpace(req.Email)
		if c.Nombre == "" || c.Email == "" {
			return fmt.Errorf("%w: nombre y email son obligatorios", ErrValidacion)
		}
		if err := aplicarJornada(c, req.Jornada); err != nil {
			return err
		}
		if err := s.emailLibre(tx, c.Email, id); err != nil {
			return err
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
			if err != nil {
				return err
			}
			c.PasswordHash = string(hash)
		}
		actualizado = *c
		return s.repo.Replace(tx, *c)
	})
	if err != nil {
		return nil, err
	}
	resp := cajeroToResponse(&actualizado)
	return &resp, nil
}

func (s *cajeroService) Eliminar(ctx context.Context, id string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		return s.repo.Remove(tx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return cajeroNoEncontrado(id)
	}
	return err
}
