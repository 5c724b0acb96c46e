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

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Catalogo(ctx context.Context) ([]model.Producto, error)
	ObtenerPorID(ctx context.Context, id string) (*model.Producto, error)
	Crear(ctx context.Context, req dto.ProductoRequest) (*model.Producto, error)
	Actualizar(ctx context.Context, id string, req dto.ProductoRequest) (*model.Producto, error)
	Eliminar(ctx context.Context, id string) error
	DescontarStock(ctx context.Context, id string, cantidad int) (*model.Producto, error)
	Alertas(ctx context.Context) ([]model.Producto, error)
	ConsultarPrecio(ctx context.Context, id string) (*dto.ConsultaPreciosResponse, error)
}

type productoService struct {
	store *store.Store
	repo  repository.ProductoRepository
	cache precioCache
}

// NewProductoService builds the catalog service; rdb may be nil.
func NewProductoService(st *store.Store, repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{store: st, repo: repo, cache: precioCache{rdb: rdb}}
}

func validarProducto(req dto.ProductoRequest) error {
	switch {
	case strings.TrimSpace(req.Nombre) == "":
		return fmt.Errorf("%w: el nombre es obligatorio", ErrValidacion)
	case req.Precio.IsNegative():
		return fmt.Errorf("%w: el precio no puede ser negativo", ErrValidacion)
	case req.Stock < 0:
		return fmt.Errorf("%w: el stock no puede ser negativo", ErrValidacion)
	case req.StockMinimo < 0:
		return fmt.Errorf("%w: el stock minimo no puede ser negativo", ErrValidacion)
	}
	return nil
}

func productoNoEncontrado(id string) error {
	return fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
}

// Listar pages through the catalog in insertion order.
func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, err := s.Catalogo(ctx)
	if err != nil {
		return nil, err
	}

	nombre := strings.ToLower(strings.TrimSpace(filter.Nombre))
	filtrados := make([]model.Producto, 0, len(productos))
	for _, p := range productos {
		if nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), nombre) {
			continue
		}
		if filter.Categoria != "" && !strings.EqualFold(p.Categoria, filter.Categoria) {
			continue
		}
		filtrados = append(filtrados, p)
	}

	total := len(filtrados)
	from := (filter.Page - 1) * filter.Limit
	if from > total {
		from = total
	}
	to := from + filter.Limit
	if to > total {
		to = total
	}
	return &dto.ProductoListResponse{
		Data:       filtrados[from:to],
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Catalogo returns a snapshot of every product.
func (s *productoService) Catalogo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		productos, err = s.repo.List(tx)
		return err
	})
	return productos, err
}

func (s *productoService) ObtenerPorID(ctx context.Context, id string) (*model.Producto, error) {
	var p *model.Producto
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		p, err = s.repo.FindByID(tx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productoNoEncontrado(id)
	}
	return p, err
}

func (s *productoService) Crear(ctx context.Context, req dto.ProductoRequest) (*model.Producto, error) {
	if err := validarProducto(req); err != nil {
		return nil, err
	}
	var p model.Producto
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		productos, err := s.repo.List(tx)
		if err != nil {
			return err
		}
		p = model.Producto{
			ID:          nextSeqID("PROD", len(productos)+1, idSet(productos, func(p *model.Producto) string { return p.ID })),
			Nombre:      strings.TrimSpace(req.Nombre),
			Unidad:      strings.TrimSpace(req.Unidad),
			Categoria:   strings.TrimSpace(req.Categoria),
			Precio:      req.Precio,
			Stock:       req.Stock,
			StockMinimo: req.StockMinimo,
		}
		return s.repo.SaveAll(tx, append(productos, p))
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("producto_id", p.ID).Str("nombre", p.Nombre).Msg("producto creado")
	return &p, nil
}

// Actualizar replaces every field of the record; the id is kept.
func (s *productoService) Actualizar(ctx context.Context, id string, req dto.ProductoRequest) (*model.Producto, error) {
	if err := validarProducto(req); err != nil {
		return nil, err
	}
	p := model.Producto{
		ID:          id,
		Nombre:      strings.TrimSpace(req.Nombre),
		Unidad:      strings.TrimSpace(req.Unidad),
		Categoria:   strings.TrimSpace(req.Categoria),
		Precio:      req.Precio,
		Stock:       req.Stock,
		StockMinimo: req.StockMinimo,
	}
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		return s.repo.Replace(tx, p)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productoNoEncontrado(id)
	}
	if err != nil {
		return nil, err
	}
	s.cache.evict(ctx, id)
	return &p, nil
}

func (s *productoService) Eliminar(ctx context.Context, id string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		return s.repo.Remove(tx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return productoNoEncontrado(id)
	}
	if err != nil {
		return err
	}
	s.cache.evict(ctx, id)
	return nil
}

// DescontarStock lowers stock by cantidad, clamping at zero. It never fails
// for a known product; the clamp is logged.
func (s *productoService) DescontarStock(ctx context.Context, id string, cantidad int) (*model.Producto, error) {
	var p *model.Producto
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		productos, err := s.repo.List(tx)
		if err != nil {
			return err
		}
		for i := range productos {
			if productos[i].ID == id {
				descontar(&productos[i], cantidad)
				p = &productos[i]
				return s.repo.SaveAll(tx, productos)
			}
		}
		return repository.ErrNotFound
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, productoNoEncontrado(id)
	}
	if err != nil {
		return nil, err
	}
	s.cache.evict(ctx, id)
	return p, nil
}

// descontar applies stock = max(0, stock - cantidad) and reports whether the
// request exceeded the available stock.
func descontar(p *model.Producto, cantidad int) bool {
	if cantidad <= 0 {
		return false
	}
	if cantidad > p.Stock {
		log.Warn().
			Str("producto_id", p.ID).
			Int("stock", p.Stock).
			Int("solicitado", cantidad).
			Msg("stock insuficiente, se recorta a cero")
		p.Stock = 0
		return true
	}
	p.Stock -= cantidad
	return false
}

// Alertas lists products at or below their minimum stock.
func (s *productoService) Alertas(ctx context.Context) ([]model.Producto, error) {
	productos, err := s.Catalogo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Producto, 0)
	for _, p := range productos {
		if p.StockBajo() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ConsultarPrecio answers the public price check, through the Redis cache
// when one is configured.
func (s *productoService) ConsultarPrecio(ctx context.Context, id string) (*dto.ConsultaPreciosResponse, error) {
	if resp, ok := s.cache.get(ctx, id); ok {
		return resp, nil
	}
	p, err := s.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsultaPreciosResponse{
		ID:              p.ID,
		Nombre:          p.Nombre,
		Unidad:          p.Unidad,
		Precio:          p.Precio,
		StockDisponible: p.Stock,
	}
	s.cache.set(ctx, resp)
	return resp, nil
}
