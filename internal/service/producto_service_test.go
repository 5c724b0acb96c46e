package service

import (
	"context"
	"testing"

	"micromercado/internal/dto"
	"micromercado/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productoReq(nombre, p string, stock int) dto.ProductoRequest {
	return dto.ProductoRequest{Nombre: nombre, Unidad: "u", Precio: precio(p), Stock: stock, StockMinimo: 2}
}

func TestCrearProducto_AsignaIDSecuencial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1, err := f.productos.Crear(ctx, productoReq("Arroz", "2.10", 10))
	require.NoError(t, err)
	p2, err := f.productos.Crear(ctx, productoReq("Fideos", "1.80", 10))
	require.NoError(t, err)
	assert.Equal(t, "PROD-001", p1.ID)
	assert.Equal(t, "PROD-002", p2.ID)

	// len+1 collides with PROD-002 after deleting PROD-001.
	require.NoError(t, f.productos.Eliminar(ctx, p1.ID))
	p3, err := f.productos.Crear(ctx, productoReq("Azucar", "1.20", 10))
	require.NoError(t, err)
	assert.Equal(t, "PROD-003", p3.ID)
}

func TestCrearProducto_Validacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.productos.Crear(context.Background(), productoReq("Arroz", "-1", 10))
	assert.ErrorIs(t, err, ErrValidacion)
	_, err = f.productos.Crear(context.Background(), productoReq("Arroz", "1", -3))
	assert.ErrorIs(t, err, ErrValidacion)
	_, err = f.productos.Crear(context.Background(), productoReq("  ", "1", 3))
	assert.ErrorIs(t, err, ErrValidacion)
}

func TestActualizarProducto_ReemplazaRegistro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.productos.Crear(ctx, productoReq("Arroz", "2.10", 10))
	require.NoError(t, err)

	req := productoReq("Arroz largo fino", "2.40", 7)
	req.Categoria = "almacen"
	got, err := f.productos.Actualizar(ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "almacen", got.Categoria)
	assert.Equal(t, *got, f.producto(t, p.ID))

	_, err = f.productos.Actualizar(ctx, "PROD-999", req)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.ErrorIs(t, f.productos.Eliminar(ctx, "PROD-999"), ErrNoEncontrado)
}

func TestDescontarStock_NuncaNegativo(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Pan", Stock: 4})

	p, err := f.productos.DescontarStock(context.Background(), "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	p, err = f.productos.DescontarStock(context.Background(), "P1", 50)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, 0, f.producto(t, "P1").Stock)

	_, err = f.productos.DescontarStock(context.Background(), "X", 1)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestListarProductos_FiltraYPagina(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t,
		model.Producto{ID: "P1", Nombre: "Leche entera"},
		model.Producto{ID: "P2", Nombre: "Pan"},
		model.Producto{ID: "P3", Nombre: "Leche descremada"},
		model.Producto{ID: "P4", Nombre: "Dulce de LECHE"},
	)

	resp, err := f.productos.Listar(context.Background(), dto.ProductoFilter{Nombre: "leche", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "P1", resp.Data[0].ID)
	assert.Equal(t, "P3", resp.Data[1].ID)

	resp, err = f.productos.Listar(context.Background(), dto.ProductoFilter{Nombre: "leche", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "P4", resp.Data[0].ID)
}

func TestAlertas_StockEnOMenorAlMinimo(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t,
		model.Producto{ID: "P1", Stock: 2, StockMinimo: 2},
		model.Producto{ID: "P2", Stock: 9, StockMinimo: 2},
		model.Producto{ID: "P3", Stock: 0, StockMinimo: 0},
	)
	alertas, err := f.productos.Alertas(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(alertas))
	for i, p := range alertas {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"P1", "P3"}, ids)
}

func TestConsultarPrecio_SinRedis(t *testing.T) {
	f := newFixture(t)
	f.seedProductos(t, model.Producto{ID: "P1", Nombre: "Pan", Unidad: "kg", Precio: precio("1.5"), Stock: 4})

	resp, err := f.productos.ConsultarPrecio(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "Pan", resp.Nombre)
	assert.True(t, resp.Precio.Equal(precio("1.5")))
	assert.Equal(t, 4, resp.StockDisponible)

	_, err = f.productos.ConsultarPrecio(context.Background(), "P9")
	assert.ErrorIs(t, err, ErrNoEncontrado)
}
