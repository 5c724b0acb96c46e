package service

import (
	"context"
	"math"
	"testing"
	"time"

	"micromercado/internal/carrito"
	"micromercado/internal/dto"
	"micromercado/internal/events"
	"micromercado/internal/model"
	"micromercado/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarVenta_DescuentaStockYVaciaCarrito(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t,
		model.Producto{ID: "P1", Nombre: "Arroz", Unidad: "kg", Precio: precio("4.50"), Stock: 5},
		model.Producto{ID: "P2", Nombre: "Leche", Unidad: "lt", Precio: precio("1.25"), Stock: 5},
	)
	ses := sesion(linea("P1", 2), linea("P2", 1))

	v, err := f.ventas.RegistrarVenta(context.Background(), ses, dto.RegistrarVentaRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, f.producto(t, "P1").Stock)
	assert.Equal(t, 4, f.producto(t, "P2").Stock)
	assert.True(t, v.Monto.Equal(precio("10.25")), "2*4.50 + 1*1.25, got %s", v.Monto)
	assert.Equal(t, 3, v.CantidadTotal)
	assert.Equal(t, TipoPagoDefault, v.TipoPago)
	assert.Equal(t, model.ClienteVentaDirecta, v.Cliente)
	assert.Equal(t, "Ana Perez", v.Cajero)
	assert.False(t, v.ConflictoStock)
	assert.Len(t, v.Items, 2)
	assert.True(t, ses.Carrito.Vacio())
	assert.Contains(t, f.pub.tipos(), events.EventVentaRegistrada)
}

func TestRegistrarVenta_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "prod-1", Nombre: "Yerba", Unidad: "u", Precio: precio("10"), Stock: 5})

	antes, err := f.reportes.ListarVentas(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)

	ses := sesion()
	_, err = f.carritos.Agregar(context.Background(), ses, dto.AgregarLineaRequest{ProductoID: "prod-1", Cantidad: 3})
	require.NoError(t, err)

	v, err := f.ventas.RegistrarVenta(context.Background(), ses, dto.RegistrarVentaRequest{TipoPago: "Tarjeta"})
	require.NoError(t, err)

	assert.True(t, v.Monto.Equal(precio("30")))
	assert.Equal(t, 3, v.CantidadTotal)
	assert.Equal(t, "Tarjeta", v.TipoPago)
	assert.Equal(t, 2, f.producto(t, "prod-1").Stock)
	assert.True(t, ses.Carrito.Vacio())

	despues, err := f.reportes.ListarVentas(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Len(t, despues, len(antes)+1)
}

func TestRegistrarVenta_CarritoVacio_NoCambiaNada(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Arroz", Precio: precio("2"), Stock: 5})
	snapshot := f.kv.Snapshot()

	_, err := f.ventas.RegistrarVenta(context.Background(), sesion(), dto.RegistrarVentaRequest{})
	assert.ErrorIs(t, err, ErrCarritoVacio)
	assert.Equal(t, snapshot, f.kv.Snapshot())
	assert.Empty(t, f.pub.tipos())
}

func TestRegistrarVenta_ProductoInexistente_RollbackCompleto(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Arroz", Precio: precio("2"), Stock: 5})
	snapshot := f.kv.Snapshot()
	ses := sesion(linea("P1", 2), linea("BORRADO", 1))

	_, err := f.ventas.RegistrarVenta(context.Background(), ses, dto.RegistrarVentaRequest{})
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.Equal(t, snapshot, f.kv.Snapshot(), "stock of P1 must not move")
	assert.Len(t, ses.Carrito.Lineas(), 2, "cart is kept on failure")
}

func TestRegistrarVenta_StockInsuficiente_RecortaACero(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Pan", Precio: precio("1"), Stock: 2})

	v, err := f.ventas.RegistrarVenta(context.Background(), sesion(linea("P1", 5)), dto.RegistrarVentaRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, f.producto(t, "P1").Stock)
	assert.True(t, v.ConflictoStock)
	assert.True(t, v.Monto.Equal(precio("5")), "charged for what was requested")
	assert.Contains(t, f.pub.tipos(), events.EventStockAgotado)
}

func TestRegistrarVenta_SinSesion(t *testing.T) {
	f := newFixture(t)
	_, err := f.ventas.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{})
	assert.ErrorIs(t, err, ErrSesionInvalida)
}

func TestRegistrarVenta_IDsUnicosEnElMismoMilisegundo(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Pan", Precio: precio("1"), Stock: 10})
	f.ventas.(*ventaService).now = fixedClock(time.UnixMilli(1700000000000))

	v1, err := f.ventas.RegistrarVenta(context.Background(), sesion(linea("P1", 1)), dto.RegistrarVentaRequest{})
	require.NoError(t, err)
	v2, err := f.ventas.RegistrarVenta(context.Background(), sesion(linea("P1", 1)), dto.RegistrarVentaRequest{})
	require.NoError(t, err)

	assert.Equal(t, "VEN-1700000000000", v1.ID)
	assert.Equal(t, "VEN-1700000000001", v2.ID)
}

func TestEliminarVenta(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Pan", Precio: precio("1"), Stock: 10})
	v, err := f.ventas.RegistrarVenta(context.Background(), sesion(linea("P1", 4)), dto.RegistrarVentaRequest{})
	require.NoError(t, err)

	require.NoError(t, f.ventas.EliminarVenta(context.Background(), v.ID))
	_, err = f.reportes.ObtenerVenta(context.Background(), v.ID)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.Equal(t, 6, f.producto(t, "P1").Stock, "stock is not restored")

	assert.ErrorIs(t, f.ventas.EliminarVenta(context.Background(), v.ID), ErrNoEncontrado)
}

func TestRegistrarVenta_CantidadEnormeSeSatura(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Arroz", Precio: precio("10"), Stock: 5})
	ses := sesion()
	ses.Carrito.AgregarLinea("P1", math.MaxInt)
	ses.Carrito.AgregarLinea("P1", math.MaxInt)
	ses.Carrito.AgregarLinea("P1", 2)

	v, err := f.ventas.RegistrarVenta(context.Background(), ses, dto.RegistrarVentaRequest{})
	require.NoError(t, err)

	assert.Equal(t, carrito.MaxCantidad, v.CantidadTotal)
	assert.True(t, v.Monto.IsPositive(), v.Monto.String())
	assert.True(t, v.Monto.Equal(precio("1000000")))
	assert.True(t, v.ConflictoStock)
	assert.Equal(t, 0, f.producto(t, "P1").Stock)
}

func TestReconciliar_RechazaCantidadFueraDeRango(t *testing.T) {
	productos := []model.Producto{{ID: "P1", Precio: precio("3"), Stock: 5}}
	for _, cantidad := range []int{0, -7, carrito.MaxCantidad + 1} {
		_, err := reconciliar(productos, []carrito.Linea{linea("P1", cantidad)})
		assert.ErrorIs(t, err, ErrValidacion, "cantidad %d", cantidad)
	}
	assert.Equal(t, 5, productos[0].Stock)
}

func TestRegistrarVenta_ConservaLineasAgregadasDuranteElCommit(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t,
		model.Producto{ID: "P1", Nombre: "Arroz", Precio: precio("2"), Stock: 5},
		model.Producto{ID: "P2", Nombre: "Leche", Precio: precio("1"), Stock: 5},
	)
	ses := sesion(linea("P1", 2))
	llego, soltar := f.gkv.pausarEn(repository.KeyProductos)

	type resultado struct {
		v   *model.Venta
		err error
	}
	done := make(chan resultado, 1)
	go func() {
		v, err := f.ventas.RegistrarVenta(context.Background(), ses, dto.RegistrarVentaRequest{})
		done <- resultado{v, err}
	}()

	<-llego
	ses.Carrito.AgregarLinea("P2", 2)
	ses.Carrito.AgregarLinea("P1", 3)
	close(soltar)
	r := <-done
	require.NoError(t, r.err)

	require.Len(t, r.v.Items, 1)
	assert.Equal(t, 2, r.v.Items[0].Cantidad)
	assert.Equal(t, 3, f.producto(t, "P1").Stock)
	assert.Equal(t, 5, f.producto(t, "P2").Stock)
	// Only the sold quantities leave the cart.
	assert.Equal(t, []carrito.Linea{linea("P1", 3), linea("P2", 2)}, ses.Carrito.Lineas())
}
