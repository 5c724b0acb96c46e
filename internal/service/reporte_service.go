package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"micromercado/internal/dto"
	"micromercado/internal/infra"
	"micromercado/internal/model"
	"micromercado/internal/repository"
	"micromercado/internal/store"
	"micromercado/internal/worker"

	"github.com/rs/zerolog/log"
)

// ReporteService is read-only over sales and owns the saved reports.
type ReporteService interface {
	ListarVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, error)
	ObtenerVenta(ctx context.Context, id string) (*model.Venta, error)
	Ticket(ctx context.Context, ventaID string) (*model.Ticket, error)
	TicketPDF(ctx context.Context, ventaID string) ([]byte, error)
	// ArchivarTicket writes ticket_{id}.pdf under the storage path.
	ArchivarTicket(ctx context.Context, ventaID string) (string, error)
	CrearReporte(ctx context.Context, req dto.CrearReporteRequest) (*model.ReporteGuardado, error)
	ListarReportes(ctx context.Context) ([]model.ReporteGuardado, error)
	ObtenerReporte(ctx context.Context, id string) (*model.ReporteGuardado, error)
	EliminarReporte(ctx context.Context, id string) error
}

type reporteService struct {
	store         *store.Store
	ventas        repository.VentaRepository
	reportes      repository.ReporteRepository
	dispatcher    *worker.Dispatcher
	negocio       string
	storagePath   string
	reportesEmail string
	now           func() time.Time
}

func NewReporteService(
	st *store.Store,
	ventas repository.VentaRepository,
	reportes repository.ReporteRepository,
	dispatcher *worker.Dispatcher,
	negocio, storagePath, reportesEmail string,
) ReporteService {
	return &reporteService{
		store:         st,
		ventas:        ventas,
		reportes:      reportes,
		dispatcher:    dispatcher,
		negocio:       negocio,
		storagePath:   storagePath,
		reportesEmail: reportesEmail,
		now:           time.Now,
	}
}

func ventaNoEncontrada(id string) error {
	return fmt.Errorf("%w: venta %s", ErrNoEncontrado, id)
}

// ListarVentas filters by calendar day (YYYY-MM-DD, server local time).
func (s *reporteService) ListarVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, error) {
	dia := strings.TrimSpace(filter.Fecha)
	if dia != "" {
		if _, err := time.ParseInLocation("2006-01-02", dia, time.Local); err != nil {
			return nil, fmt.Errorf("%w: fecha %q (formato YYYY-MM-DD)", ErrValidacion, dia)
		}
	}
	var ventas []model.Venta
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		ventas, err = s.ventas.List(tx)
		return err
	})
	if err != nil || dia == "" {
		return ventas, err
	}
	out := make([]model.Venta, 0, len(ventas))
	for _, v := range ventas {
		if v.Dia() == dia {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *reporteService) ObtenerVenta(ctx context.Context, id string) (*model.Venta, error) {
	var v *model.Venta
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		v, err = s.ventas.FindByID(tx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ventaNoEncontrada(id)
	}
	return v, err
}

// ConstruirTicket lays out a sale as a ticket. The total is the amount
// recorded on the sale. A sale without items gets the no-detail marker and
// no product lines.
func ConstruirTicket(negocio string, v model.Venta) model.Ticket {
	t := model.Ticket{
		Negocio:  negocio,
		VentaID:  v.ID,
		Cliente:  v.Cliente,
		Cajero:   v.Cajero,
		TipoPago: v.TipoPago,
		Fecha:    v.Fecha,
		Lineas:   make([]model.LineaTicket, 0, len(v.Items)),
		Total:    v.Monto,
	}
	if len(v.Items) == 0 {
		t.SinDetalle = true
		return t
	}
	for _, it := range v.Items {
		t.Lineas = append(t.Lineas, model.LineaTicket{
			Nombre:         it.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.Precio,
			Subtotal:       it.Subtotal(),
		})
	}
	return t
}

// ResumenReporte is the metadata of a batch report.
type ResumenReporte struct {
	FechaDesde string
	FechaHasta string
	CreadoPor  string
}

// ConstruirReporte selects ids from ventas in the given order, one ticket
// each. FechaDesde/FechaHasta are the earliest and latest sale days. The
// author is autor when given; otherwise the cashier of the last sale with a
// non-empty cashier, as reports were always labelled.
func ConstruirReporte(negocio string, ventas []model.Venta, ids []string, autor string) ([]model.Ticket, ResumenReporte, error) {
	porID := make(map[string]*model.Venta, len(ventas))
	for i := range ventas {
		porID[ventas[i].ID] = &ventas[i]
	}

	var (
		tickets       = make([]model.Ticket, 0, len(ids))
		res           ResumenReporte
		desde, hasta  time.Time
		cajeroVigente string
	)
	for i, id := range ids {
		v, ok := porID[id]
		if !ok {
			return nil, ResumenReporte{}, ventaNoEncontrada(id)
		}
		tickets = append(tickets, ConstruirTicket(negocio, *v))
		if i == 0 || v.Fecha.Before(desde) {
			desde = v.Fecha
		}
		if i == 0 || v.Fecha.After(hasta) {
			hasta = v.Fecha
		}
		if v.Cajero != "" {
			cajeroVigente = v.Cajero
		}
	}
	if len(tickets) > 0 {
		res.FechaDesde = desde.Local().Format("2006-01-02")
		res.FechaHasta = hasta.Local().Format("2006-01-02")
	}
	res.CreadoPor = strings.TrimSpace(autor)
	if res.CreadoPor == "" {
		res.CreadoPor = cajeroVigente
	}
	return tickets, res, nil
}

func (s *reporteService) Ticket(ctx context.Context, ventaID string) (*model.Ticket, error) {
	v, err := s.ObtenerVenta(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	t := ConstruirTicket(s.negocio, *v)
	return &t, nil
}

func (s *reporteService) TicketPDF(ctx context.Context, ventaID string) ([]byte, error) {
	t, err := s.Ticket(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	return infra.RenderTicketsPDF([]model.Ticket{*t})
}

func (s *reporteService) ArchivarTicket(ctx context.Context, ventaID string) (string, error) {
	doc, err := s.TicketPDF(ctx, ventaID)
	if err != nil {
		return "", err
	}
	return infra.WritePDF(s.storagePath, "ticket_"+ventaID+".pdf", doc)
}

// ── CrearReporte ──────────────────────────────────────────────────────────────
// Renders the batch PDF, stores it under the storage path and appends the
// ReporteGuardado. When the file write succeeds but the commit fails, the
// file is removed again.

func (s *reporteService) CrearReporte(ctx context.Context, req dto.CrearReporteRequest) (*model.ReporteGuardado, error) {
	if len(req.Ventas) == 0 {
		return nil, fmt.Errorf("%w: el reporte necesita al menos una venta", ErrValidacion)
	}

	var (
		reporte model.ReporteGuardado
		path    string
	)
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		ventas, err := s.ventas.List(tx)
		if err != nil {
			return err
		}
		tickets, res, err := ConstruirReporte(s.negocio, ventas, req.Ventas, req.Autor)
		if err != nil {
			return err
		}
		doc, err := infra.RenderTicketsPDF(tickets)
		if err != nil {
			return err
		}

		reportes, err := s.reportes.List(tx)
		if err != nil {
			return err
		}
		ahora := s.now()
		id := nextMillisID("REP", ahora, idSet(reportes, func(r *model.ReporteGuardado) string { return r.ID }))
		path, err = infra.WritePDF(s.storagePath, id+".pdf", doc)
		if err != nil {
			return err
		}
		reporte = model.ReporteGuardado{
			ID:         id,
			CreadoPor:  res.CreadoPor,
			FechaDesde: res.FechaDesde,
			FechaHasta: res.FechaHasta,
			PDFPath:    path,
			Ventas:     append([]string(nil), req.Ventas...),
			CreatedAt:  ahora,
		}
		return s.reportes.SaveAll(tx, append(reportes, reporte))
	})
	if err != nil {
		if path != "" {
			_ = os.Remove(path)
		}
		return nil, err
	}

	log.Info().Str("reporte_id", reporte.ID).Int("ventas", len(reporte.Ventas)).Str("pdf", path).Msg("reporte guardado")

	if s.reportesEmail != "" {
		job := worker.EmailJobPayload{
			ToEmail: s.reportesEmail,
			Subject: fmt.Sprintf("%s: reporte %s", s.negocio, reporte.ID),
			Body: fmt.Sprintf("Reporte de %d ventas del %s al %s.\nGenerado por: %s",
				len(reporte.Ventas), reporte.FechaDesde, reporte.FechaHasta, reporte.CreadoPor),
			PDFPath: path,
		}
		if err := s.dispatcher.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Str("reporte_id", reporte.ID).Msg("no se pudo encolar email del reporte")
		}
	}
	return &reporte, nil
}

func (s *reporteService) ListarReportes(ctx context.Context) ([]model.ReporteGuardado, error) {
	var reportes []model.ReporteGuardado
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		reportes, err = s.reportes.List(tx)
		return err
	})
	return reportes, err
}

func (s *reporteService) ObtenerReporte(ctx context.Context, id string) (*model.ReporteGuardado, error) {
	var r *model.ReporteGuardado
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		r, err = s.reportes.FindByID(tx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: reporte %s", ErrNoEncontrado, id)
	}
	return r, err
}

// EliminarReporte drops the record, then its PDF. A missing file is not an
// error.
func (s *reporteService) EliminarReporte(ctx context.Context, id string) error {
	var r *model.ReporteGuardado
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		var err error
		r, err = s.reportes.FindByID(tx, id)
		if err != nil {
			return err
		}
		return s.reportes.Remove(tx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: reporte %s", ErrNoEncontrado, id)
	}
	if err != nil {
		return err
	}
	if r.PDFPath != "" && strings.HasPrefix(filepath.Clean(r.PDFPath), filepath.Clean(s.storagePath)) {
		if err := os.Remove(r.PDFPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("pdf", r.PDFPath).Msg("no se pudo borrar el PDF del reporte")
		}
	}
	return nil
}
