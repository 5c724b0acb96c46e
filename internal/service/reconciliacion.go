package service

import (
	"fmt"

	"micromercado/internal/carrito"
	"micromercado/internal/events"
	"micromercado/internal/model"

	"github.com/shopspring/decimal"
)

// reconciliacion is the outcome of pricing a cart against the catalog and
// taking its quantities out of stock.
type reconciliacion struct {
	items      []model.ItemVenta
	monto      decimal.Decimal
	cantidad   int
	conflictos []events.StockAgotadoPayload
}

func (r reconciliacion) productoIDs() []string {
	ids := make([]string, len(r.items))
	for i, it := range r.items {
		ids[i] = it.ProductoID
	}
	return ids
}

// reconciliar resolves every line against productos, decrements stock in
// place (clamped at zero) and prices the lines at the current catalog price.
// A line whose product is gone, or whose quantity is out of range, fails the
// whole reconciliation; the caller's transaction then discards the decrements.
func reconciliar(productos []model.Producto, lineas []carrito.Linea) (reconciliacion, error) {
	idx := make(map[string]int, len(productos))
	for i := range productos {
		idx[productos[i].ID] = i
	}

	r := reconciliacion{monto: decimal.Zero, items: make([]model.ItemVenta, 0, len(lineas))}
	for _, l := range lineas {
		if l.Cantidad < 1 || l.Cantidad > carrito.MaxCantidad {
			return reconciliacion{}, fmt.Errorf("%w: cantidad %d fuera de rango para %s", ErrValidacion, l.Cantidad, l.ProductoID)
		}
		i, ok := idx[l.ProductoID]
		if !ok {
			return reconciliacion{}, productoNoEncontrado(l.ProductoID)
		}
		p := &productos[i]
		item := model.ItemVenta{
			ProductoID: p.ID,
			Nombre:     p.Nombre,
			Precio:     p.Precio,
			Cantidad:   l.Cantidad,
		}
		disponible := p.Stock
		if descontar(p, l.Cantidad) {
			r.conflictos = append(r.conflictos, events.StockAgotadoPayload{
				ProductoID: p.ID,
				Solicitado: l.Cantidad,
				Disponible: disponible,
			})
		}
		r.items = append(r.items, item)
		r.monto = r.monto.Add(item.Subtotal())
		r.cantidad += l.Cantidad
	}
	return r, nil
}

func requerirSesion(ses *Sesion) error {
	if ses == nil || ses.Carrito == nil {
		return fmt.Errorf("%w: sin sesion activa", ErrSesionInvalida)
	}
	return nil
}
