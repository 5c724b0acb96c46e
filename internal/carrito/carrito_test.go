package carrito

import (
	"math"
	"sync"
	"testing"

	"micromercado/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func catalogo() []model.Producto {
	return []model.Producto{
		{ID: "prod-1", Nombre: "Arroz", Precio: decimal.NewFromInt(10), Stock: 5},
		{ID: "prod-2", Nombre: "Leche", Precio: decimal.RequireFromString("4.50"), Stock: 5},
	}
}

func TestAgregarLinea_SumaCantidades(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 2)
	c.AgregarLinea("prod-2", 1)
	c.AgregarLinea("prod-1", 3)

	assert.Equal(t, []Linea{{"prod-1", 5}, {"prod-2", 1}}, c.Lineas())
	assert.Equal(t, 6, c.CantidadTotal())
}

func TestAgregarLinea_CantidadInvalidaEsUno(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 0)
	c.AgregarLinea("prod-2", -4)

	assert.Equal(t, []Linea{{"prod-1", 1}, {"prod-2", 1}}, c.Lineas())
}

func TestAgregarLinea_SinTopeDeStock(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 50)
	assert.Equal(t, 50, c.CantidadTotal())
}

func TestQuitarLinea(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 1)
	c.AgregarLinea("prod-2", 1)

	assert.True(t, c.QuitarLinea("prod-1"))
	assert.False(t, c.QuitarLinea("prod-1"))
	assert.Equal(t, []Linea{{"prod-2", 1}}, c.Lineas())
}

func TestFijarCantidad(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 4)

	assert.True(t, c.FijarCantidad("prod-1", 2))
	assert.Equal(t, 2, c.CantidadTotal())

	assert.True(t, c.FijarCantidad("prod-1", 0))
	assert.Equal(t, 1, c.CantidadTotal(), "minimo 1")

	assert.False(t, c.FijarCantidad("prod-9", 3))
	assert.Len(t, c.Lineas(), 1)
}

func TestTotal_ContraCatalogo(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 2)
	c.AgregarLinea("prod-2", 2)
	assert.True(t, decimal.NewFromInt(29).Equal(c.Total(catalogo())))

	c.FijarCantidad("prod-2", 1)
	c.QuitarLinea("prod-1")
	assert.True(t, decimal.RequireFromString("4.5").Equal(c.Total(catalogo())))
}

func TestTotal_ProductoAusenteAportaCero(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 1)
	c.AgregarLinea("borrado", 7)
	assert.True(t, decimal.NewFromInt(10).Equal(c.Total(catalogo())))
}

func TestTotal_UsaPrecioActual(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 3)
	cat := catalogo()
	cat[0].Precio = decimal.NewFromInt(12)
	assert.True(t, decimal.NewFromInt(36).Equal(c.Total(cat)))
}

func TestVaciar(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 1)
	c.Vaciar()
	assert.True(t, c.Vacio())
	assert.True(t, c.Total(catalogo()).IsZero())
}

func TestConcurrentAdds(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AgregarLinea("prod-1", 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, []Linea{{"prod-1", 50}}, c.Lineas())
}

func TestAgregarLinea_SaturaEnMaxCantidad(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", math.MaxInt)
	c.AgregarLinea("prod-1", math.MaxInt)
	c.AgregarLinea("prod-1", 2)

	assert.Equal(t, []Linea{{"prod-1", MaxCantidad}}, c.Lineas())
	assert.True(t, c.Total(catalogo()).IsPositive())
}

func TestFijarCantidad_Acotada(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 1)
	assert.True(t, c.FijarCantidad("prod-1", math.MaxInt))
	assert.Equal(t, MaxCantidad, c.Lineas()[0].Cantidad)
	assert.True(t, c.FijarCantidad("prod-1", -3))
	assert.Equal(t, 1, c.Lineas()[0].Cantidad)
}

func TestDescontar_SoloLoVendido(t *testing.T) {
	c := New()
	c.AgregarLinea("prod-1", 5)
	c.AgregarLinea("prod-2", 1)
	c.AgregarLinea("prod-3", 2)

	c.Descontar([]Linea{{"prod-1", 2}, {"prod-2", 1}, {"prod-9", 4}})

	assert.Equal(t, []Linea{{"prod-1", 3}, {"prod-3", 2}}, c.Lineas())
}
