package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"micromercado/internal/dto"
	"micromercado/internal/events"
	"micromercado/internal/infra"
	"micromercado/internal/model"
	"micromercado/internal/repository"
	"micromercado/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type PedidoService interface {
	// CrearPedido commits the session cart as a pending order for a client.
	CrearPedido(ctx context.Context, ses *Sesion, req dto.CrearPedidoRequest) (*model.Pedido, error)
	Entregar(ctx context.Context, id string) (*model.Pedido, error)
	// Cancelar removes a pending order. Stock is not restored.
	Cancelar(ctx context.Context, id string) error
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error)
	Obtener(ctx context.Context, id string) (*model.Pedido, error)
}

type pedidoService struct {
	store     *store.Store
	productos repository.ProductoRepository
	clientes  repository.ClienteRepository
	pedidos   repository.PedidoRepository
	publisher events.Publisher
	cache     precioCache
	now       func() time.Time
}

func NewPedidoService(
	st *store.Store,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	pedidos repository.PedidoRepository,
	publisher events.Publisher,
	rdb *redis.Client,
) PedidoService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &pedidoService{
		store:     st,
		productos: productos,
		clientes:  clientes,
		pedidos:   pedidos,
		publisher: publisher,
		cache:     precioCache{rdb: rdb},
		now:       time.Now,
	}
}

func pedidoNoEncontrado(id string) error {
	return fmt.Errorf("%w: pedido %s", ErrNoEncontrado, id)
}

// ── CrearPedido ───────────────────────────────────────────────────────────────
// Same reconciliation as a sale, plus: the client must resolve and the client
// counters (totalOrders, lastOrderId) move in the same commit as the order.

func (s *pedidoService) CrearPedido(ctx context.Context, ses *Sesion, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	lineas := ses.Carrito.Lineas()
	if len(lineas) == 0 {
		return nil, ErrCarritoVacio
	}
	clienteID := strings.TrimSpace(req.ClienteID)
	if clienteID == "" {
		return nil, ErrClienteFaltante
	}
	fecha := strings.TrimSpace(req.FechaEntrega)
	if fecha == "" {
		return nil, ErrFechaFaltante
	}
	if _, err := time.ParseInLocation("2006-01-02", fecha, time.Local); err != nil {
		return nil, fmt.Errorf("%w: fecha de entrega %q (formato YYYY-MM-DD)", ErrValidacion, fecha)
	}

	var (
		pedido model.Pedido
		rec    reconciliacion
	)
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		clientes, err := s.clientes.List(tx)
		if err != nil {
			return err
		}
		ci := -1
		for i := range clientes {
			if clientes[i].ID == clienteID {
				ci = i
				break
			}
		}
		if ci < 0 {
			return fmt.Errorf("%w: %s", ErrClienteFaltante, clienteID)
		}

		productos, err := s.productos.List(tx)
		if err != nil {
			return err
		}
		rec, err = reconciliar(productos, lineas)
		if err != nil {
			return err
		}
		pedidos, err := s.pedidos.List(tx)
		if err != nil {
			return err
		}

		ahora := s.now()
		pedido = model.Pedido{
			ID:            nextMillisID("PED", ahora, idSet(pedidos, func(p *model.Pedido) string { return p.ID })),
			ClienteID:     clienteID,
			Cliente:       clientes[ci].NombreCompleto(),
			CantidadTotal: rec.cantidad,
			Monto:         rec.monto,
			Estado:        model.PedidoPendiente,
			FechaEntrega:  fecha,
			Items:         rec.items,
			CreatedAt:     ahora,
		}
		clientes[ci].TotalPedidos++
		clientes[ci].UltimoPedidoID = pedido.ID

		if err := s.productos.SaveAll(tx, productos); err != nil {
			return err
		}
		if err := s.clientes.SaveAll(tx, clientes); err != nil {
			return err
		}
		return s.pedidos.SaveAll(tx, append(pedidos, pedido))
	})
	if err != nil {
		return nil, err
	}

	ses.Carrito.Descontar(lineas)

	infra.PedidosEventos.WithLabelValues("creado").Inc()
	s.cache.evict(ctx, rec.productoIDs()...)
	s.publisher.Publish(ctx, events.EventPedidoCreado, pedido.ID, pedido)
	for _, c := range rec.conflictos {
		infra.ConflictosStock.Inc()
		c.Referencia = pedido.ID
		s.publisher.Publish(ctx, events.EventStockAgotado, c.ProductoID, c)
	}

	log.Info().
		Str("pedido_id", pedido.ID).
		Str("cliente_id", pedido.ClienteID).
		Str("fecha_entrega", pedido.FechaEntrega).
		Str("monto", pedido.Monto.StringFixed(2)).
		Msg("pedido creado")
	return &pedido, nil
}

// Entregar moves a pending order to delivered. Delivering twice is rejected.
func (s *pedidoService) Entregar(ctx context.Context, id string) (*model.Pedido, error) {
	var pedido model.Pedido
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		p, err := s.pedidos.FindByID(tx, id)
		if err != nil {
			return err
		}
		if p.Estado != model.PedidoPendiente {
			return fmt.Errorf("%w: %s esta %s", ErrPedidoNoPendiente, id, p.Estado)
		}
		ahora := s.now()
		p.Estado = model.PedidoEntregado
		p.EntregadoAt = &ahora
		pedido = *p
		return s.pedidos.Replace(tx, *p)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, pedidoNoEncontrado(id)
	}
	if err != nil {
		return nil, err
	}
	infra.PedidosEventos.WithLabelValues("entregado").Inc()
	s.publisher.Publish(ctx, events.EventPedidoEntregado, id, events.PedidoEstadoPayload{
		PedidoID: id, ClienteID: pedido.ClienteID, Estado: string(pedido.Estado),
	})
	return &pedido, nil
}

func (s *pedidoService) Cancelar(ctx context.Context, id string) error {
	var pedido *model.Pedido
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		var err error
		pedido, err = s.pedidos.FindByID(tx, id)
		if err != nil {
			return err
		}
		if pedido.Estado != model.PedidoPendiente {
			return fmt.Errorf("%w: %s ya fue entregado", ErrPedidoNoPendiente, id)
		}
		return s.pedidos.Remove(tx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return pedidoNoEncontrado(id)
	}
	if err != nil {
		return err
	}
	infra.PedidosEventos.WithLabelValues("cancelado").Inc()
	s.publisher.Publish(ctx, events.EventPedidoCancelado, id, events.PedidoEstadoPayload{
		PedidoID: id, ClienteID: pedido.ClienteID, Estado: "cancelled",
	})
	return nil
}

// Listar keeps insertion order; an empty Estado returns every order.
func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		pedidos, err = s.pedidos.List(tx)
		return err
	})
	if err != nil || filter.Estado == "" {
		return pedidos, err
	}
	out := make([]model.Pedido, 0, len(pedidos))
	for _, p := range pedidos {
		if string(p.Estado) == filter.Estado {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *pedidoService) Obtener(ctx context.Context, id string) (*model.Pedido, error) {
	var p *model.Pedido
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		p, err = s.pedidos.FindByID(tx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, pedidoNoEncontrado(id)
	}
	return p, err
}
