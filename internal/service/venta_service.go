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
	"micromercado/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const TipoPagoDefault = "Efectivo"

type VentaService interface {
	// RegistrarVenta commits the session cart as an immediate sale.
	RegistrarVenta(ctx context.Context, ses *Sesion, req dto.RegistrarVentaRequest) (*model.Venta, error)
	EliminarVenta(ctx context.Context, id string) error
}

type ventaService struct {
	store      *store.Store
	productos  repository.ProductoRepository
	ventas     repository.VentaRepository
	dispatcher *worker.Dispatcher
	publisher  events.Publisher
	cache      precioCache
	now        func() time.Time
}

// NewVentaService wires the sale engine. dispatcher and rdb may be nil.
func NewVentaService(
	st *store.Store,
	productos repository.ProductoRepository,
	ventas repository.VentaRepository,
	dispatcher *worker.Dispatcher,
	publisher events.Publisher,
	rdb *redis.Client,
) VentaService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ventaService{
		store:      st,
		productos:  productos,
		ventas:     ventas,
		dispatcher: dispatcher,
		publisher:  publisher,
		cache:      precioCache{rdb: rdb},
		now:        time.Now,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One store transaction:
//   1. Load catalog and resolve every cart line (missing product aborts)
//   2. Decrement stock, clamped at zero; flag the sale when a line overdrew
//   3. Append the Venta with a VEN-{millis} id
//   4. Commit catalog + ventas together
// Then take the sold lines out of the cart and fire best-effort side effects.

func (s *ventaService) RegistrarVenta(ctx context.Context, ses *Sesion, req dto.RegistrarVentaRequest) (*model.Venta, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	lineas := ses.Carrito.Lineas()
	if len(lineas) == 0 {
		return nil, ErrCarritoVacio
	}

	tipoPago := strings.TrimSpace(req.TipoPago)
	if tipoPago == "" {
		tipoPago = TipoPagoDefault
	}
	cliente := strings.TrimSpace(req.Cliente)
	if cliente == "" {
		cliente = model.ClienteVentaDirecta
	}

	var (
		venta model.Venta
		rec   reconciliacion
	)
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		productos, err := s.productos.List(tx)
		if err != nil {
			return err
		}
		rec, err = reconciliar(productos, lineas)
		if err != nil {
			return err
		}
		ventas, err := s.ventas.List(tx)
		if err != nil {
			return err
		}

		ahora := s.now()
		venta = model.Venta{
			ID:             nextMillisID("VEN", ahora, idSet(ventas, func(v *model.Venta) string { return v.ID })),
			Cliente:        cliente,
			CantidadTotal:  rec.cantidad,
			Cajero:         ses.Cajero.Nombre,
			TipoPago:       tipoPago,
			Monto:          rec.monto,
			Fecha:          ahora,
			Items:          rec.items,
			ConflictoStock: len(rec.conflictos) > 0,
		}
		if err := s.productos.SaveAll(tx, productos); err != nil {
			return err
		}
		return s.ventas.SaveAll(tx, append(ventas, venta))
	})
	if err != nil {
		return nil, err
	}

	ses.Carrito.Descontar(lineas)

	infra.VentasRegistradas.Inc()
	infra.VentasMonto.Add(venta.Monto.InexactFloat64())
	s.cache.evict(ctx, rec.productoIDs()...)
	s.publisher.Publish(ctx, events.EventVentaRegistrada, venta.ID, venta)
	for _, c := range rec.conflictos {
		infra.ConflictosStock.Inc()
		c.Referencia = venta.ID
		s.publisher.Publish(ctx, events.EventStockAgotado, c.ProductoID, c)
	}
	if err := s.dispatcher.EnqueueTicket(ctx, worker.TicketJobPayload{VentaID: venta.ID}); err != nil {
		log.Warn().Err(err).Str("venta_id", venta.ID).Msg("no se pudo encolar ticket")
	}

	log.Info().
		Str("venta_id", venta.ID).
		Str("cajero", venta.Cajero).
		Str("monto", venta.Monto.StringFixed(2)).
		Bool("conflicto_stock", venta.ConflictoStock).
		Msg("venta registrada")
	return &venta, nil
}

// EliminarVenta removes the record. Stock is not restored.
func (s *ventaService) EliminarVenta(ctx context.Context, id string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		return s.ventas.Remove(tx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: venta %s", ErrNoEncontrado, id)
	}
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.EventVentaEliminada, id, map[string]string{"venta_id": id})
	return nil
}
