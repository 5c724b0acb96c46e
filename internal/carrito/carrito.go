// Package carrito holds the in-memory shopping cart of one cashier session.
// Carts are never persisted.
package carrito

import (
	"sync"

	"micromercado/internal/model"

	"github.com/shopspring/decimal"
)

// MaxCantidad caps a single line. Adds past it saturate.
const MaxCantidad = 100000

// Linea is one cart entry. 1 <= Cantidad <= MaxCantidad.
type Linea struct {
	ProductoID string `json:"productId"`
	Cantidad   int    `json:"quantity"`
}

// Carrito keeps at most one line per product, in insertion order.
// Stock is not checked here; reconciliation happens at commit.
type Carrito struct {
	mu     sync.Mutex
	lineas []Linea
}

func New() *Carrito { return &Carrito{} }

func (c *Carrito) indexOf(productoID string) int {
	for i := range c.lineas {
		if c.lineas[i].ProductoID == productoID {
			return i
		}
	}
	return -1
}

func acotar(cantidad int) int {
	switch {
	case cantidad < 1:
		return 1
	case cantidad > MaxCantidad:
		return MaxCantidad
	}
	return cantidad
}

// AgregarLinea adds cantidad to the product's line, creating it if needed.
// Non-positive quantities count as 1; the line saturates at MaxCantidad.
func (c *Carrito) AgregarLinea(productoID string, cantidad int) {
	cantidad = acotar(cantidad)
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productoID); i >= 0 {
		// Both operands are <= MaxCantidad, so the sum cannot overflow.
		c.lineas[i].Cantidad = acotar(c.lineas[i].Cantidad + cantidad)
		return
	}
	c.lineas = append(c.lineas, Linea{ProductoID: productoID, Cantidad: cantidad})
}

// QuitarLinea reports whether a line was removed.
func (c *Carrito) QuitarLinea(productoID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(productoID)
	if i < 0 {
		return false
	}
	c.lineas = append(c.lineas[:i], c.lineas[i+1:]...)
	return true
}

// FijarCantidad sets an absolute quantity within [1, MaxCantidad]. Returns
// false when the product has no line.
func (c *Carrito) FijarCantidad(productoID string, cantidad int) bool {
	cantidad = acotar(cantidad)
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(productoID)
	if i < 0 {
		return false
	}
	c.lineas[i].Cantidad = cantidad
	return true
}

// Lineas returns a copy of the current lines.
func (c *Carrito) Lineas() []Linea {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Linea, len(c.lineas))
	copy(out, c.lineas)
	return out
}

func (c *Carrito) CantidadTotal() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lineas {
		n += l.Cantidad
	}
	return n
}

func (c *Carrito) Vacio() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lineas) == 0
}

// Descontar takes committed lines out of the cart. A line that grew after
// the snapshot keeps the difference; lines added meanwhile are untouched.
func (c *Carrito) Descontar(vendidas []Linea) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range vendidas {
		i := c.indexOf(v.ProductoID)
		if i < 0 {
			continue
		}
		if resto := c.lineas[i].Cantidad - v.Cantidad; resto > 0 {
			c.lineas[i].Cantidad = resto
			continue
		}
		c.lineas = append(c.lineas[:i], c.lineas[i+1:]...)
	}
}

func (c *Carrito) Vaciar() {
	c.mu.Lock()
	c.lineas = nil
	c.mu.Unlock()
}

// Total prices every line against catalogo. Lines whose product is not in
// the snapshot contribute zero.
func (c *Carrito) Total(catalogo []model.Producto) decimal.Decimal {
	precios := make(map[string]decimal.Decimal, len(catalogo))
	for _, p := range catalogo {
		precios[p.ID] = p.Precio
	}
	total := decimal.Zero
	for _, l := range c.Lineas() {
		if precio, ok := precios[l.ProductoID]; ok {
			total = total.Add(precio.Mul(decimal.NewFromInt(int64(l.Cantidad))))
		}
	}
	return total
}
