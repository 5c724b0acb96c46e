package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"micromercado/internal/config"
	"micromercado/internal/dto"
	"micromercado/internal/model"
	"micromercado/internal/repository"
	"micromercado/internal/service"
	"micromercado/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type apiTest struct {
	t      *testing.T
	engine *gin.Engine
	svc    Services
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:                "test",
		StoreBackend:       "memory",
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 1,
	}
	st := store.New(store.NewMemoryKV())

	productoRepo := repository.NewProductoRepository()
	clienteRepo := repository.NewClienteRepository()
	cajeroRepo := repository.NewCajeroRepository()
	ventaRepo := repository.NewVentaRepository()

	productos := service.NewProductoService(st, productoRepo, nil)
	svc := Services{
		Productos: productos,
		Clientes:  service.NewClienteService(st, clienteRepo),
		Cajeros:   service.NewCajeroService(st, cajeroRepo, 4),
		Sesiones:  service.NewSesionService(st, cajeroRepo, repository.NewSesionRepository(), cfg),
		Carrito:   service.NewCarritoService(productos),
		Ventas:    service.NewVentaService(st, productoRepo, ventaRepo, nil, nil, nil),
		Pedidos:   service.NewPedidoService(st, productoRepo, clienteRepo, repository.NewPedidoRepository(), nil, nil),
		Reportes:  service.NewReporteService(st, ventaRepo, repository.NewReporteRepository(), nil, "Test", t.TempDir(), ""),
	}
	return &apiTest{t: t, engine: New(cfg, svc, Deps{Store: st}), svc: svc}
}

func (a *apiTest) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// login registers a cashier directly through the service and logs in over HTTP.
func (a *apiTest) login() string {
	a.t.Helper()
	_, err := a.svc.Cajeros.Crear(context.Background(), dto.CrearCajeroRequest{
		Nombre: "Ana", Apellido: "Perez", Jornada: "mañana",
		Email: "ana@example.com", Password: "secreta1",
	})
	require.NoError(a.t, err)

	w := a.do(http.MethodPost, "/v1/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "secreta1"}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.LoginResponse](a.t, w).AccessToken
}

func (a *apiTest) crearProducto(token, nombre, precio string, stock int) model.Producto {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/productos", dto.ProductoRequest{
		Nombre: nombre, Unidad: "unidad", Precio: decimal.RequireFromString(precio), Stock: stock, StockMinimo: 1,
	}, token)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Producto](a.t, w)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	a := newAPITest(t)
	w := a.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	a := newAPITest(t)

	w := a.do(http.MethodGet, "/v1/productos", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/v1/productos", nil, "no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	a := newAPITest(t)
	a.login()

	w := a.do(http.MethodPost, "/v1/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "otra"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	a := newAPITest(t)
	token := a.login()

	w := a.do(http.MethodGet, "/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", decode[dto.SesionResponse](t, w).Email)

	w = a.do(http.MethodPost, "/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBinding_MalformedVsInvalid(t *testing.T) {
	a := newAPITest(t)
	token := a.login()

	w := a.do(http.MethodPost, "/v1/productos", `{"name": "Arroz",`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/v1/productos", `{"name": "Arroz", "unit": "1kg", "price": "abc"}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/v1/productos", `{"name": "", "unit": "1kg", "price": 5}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)
}

func TestVentaFlow(t *testing.T) {
	a := newAPITest(t)
	token := a.login()
	arroz := a.crearProducto(token, "Arroz", "9.50", 10)
	leche := a.crearProducto(token, "Leche", "7", 1)

	// Public price check.
	w := a.do(http.MethodGet, "/v1/precio/"+arroz.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Empty cart cannot be sold.
	w = a.do(http.MethodPost, "/v1/ventas", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/v1/carrito/lineas", dto.AgregarLineaRequest{ProductoID: arroz.ID, Cantidad: 2}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(http.MethodPost, "/v1/carrito/lineas", dto.AgregarLineaRequest{ProductoID: leche.ID, Cantidad: 3}, token)
	require.Equal(t, http.StatusOK, w.Code)
	carrito := decode[dto.CarritoResponse](t, w)
	assert.Equal(t, 5, carrito.CantidadTotal)
	assert.True(t, carrito.Total.Equal(decimal.RequireFromString("40")), carrito.Total.String())

	w = a.do(http.MethodPost, "/v1/carrito/lineas", dto.AgregarLineaRequest{ProductoID: "PROD-999"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/v1/ventas", dto.RegistrarVentaRequest{TipoPago: "QR"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	venta := decode[model.Venta](t, w)
	assert.Equal(t, 5, venta.CantidadTotal)
	assert.Equal(t, "QR", venta.TipoPago)
	assert.Equal(t, "Ana Perez", venta.Cajero)

	// Stock was clamped at zero for the oversold product.
	w = a.do(http.MethodGet, "/v1/productos/"+leche.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[model.Producto](t, w).Stock)

	// Cart is empty after the sale.
	w = a.do(http.MethodGet, "/v1/carrito", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.CarritoResponse](t, w).Lineas)

	w = a.do(http.MethodGet, "/v1/ventas/"+venta.ID+"/ticket/pdf", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = a.do(http.MethodGet, "/v1/ventas?date=19-10-2026", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodDelete, "/v1/ventas/"+venta.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/v1/ventas/"+venta.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPedidoFlow(t *testing.T) {
	a := newAPITest(t)
	token := a.login()
	pan := a.crearProducto(token, "Pan", "0.5", 100)

	w := a.do(http.MethodPost, "/v1/clientes", dto.ClienteRequest{Nombre: "Luis", Apellido: "Rojas"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cliente := decode[model.Cliente](t, w)

	w = a.do(http.MethodPost, "/v1/carrito/lineas", dto.AgregarLineaRequest{ProductoID: pan.ID, Cantidad: 20}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/v1/pedidos", dto.CrearPedidoRequest{ClienteID: cliente.ID}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing delivery date")

	w = a.do(http.MethodPost, "/v1/pedidos", dto.CrearPedidoRequest{ClienteID: cliente.ID, FechaEntrega: "2026-10-20"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pedido := decode[model.Pedido](t, w)
	assert.Equal(t, model.PedidoPendiente, pedido.Estado)

	w = a.do(http.MethodGet, "/v1/pedidos?status=pending", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Pedido](t, w), 1)

	w = a.do(http.MethodGet, "/v1/pedidos?status=perdido", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPatch, "/v1/pedidos/"+pedido.ID+"/entregar", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.PedidoEntregado, decode[model.Pedido](t, w).Estado)

	w = a.do(http.MethodPatch, "/v1/pedidos/"+pedido.ID+"/entregar", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodGet, "/v1/clientes/"+cliente.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[model.Cliente](t, w).TotalPedidos)
}

func TestCajeros_LimitIsConflict(t *testing.T) {
	a := newAPITest(t)
	token := a.login()

	for i, email := range []string{"b@example.com", "c@example.com", "d@example.com", "e@example.com"} {
		w := a.do(http.MethodPost, "/v1/cajeros", dto.CrearCajeroRequest{
			Nombre: "Cajero", Jornada: "tarde", Email: email, Password: "secreta1",
		}, token)
		if i < 3 {
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			continue
		}
		assert.Equal(t, http.StatusConflict, w.Code)
	}
}

func TestCarrito_CantidadExcesivaEs422(t *testing.T) {
	a := newAPITest(t)
	token := a.login()
	arroz := a.crearProducto(token, "Arroz", "9", 10)

	w := a.do(http.MethodPost, "/v1/carrito/lineas", `{"productId": "`+arroz.ID+`", "quantity": 9223372036854775807}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/v1/carrito/lineas", dto.AgregarLineaRequest{ProductoID: arroz.ID, Cantidad: 2}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodPut, "/v1/carrito/lineas/"+arroz.ID, dto.FijarCantidadRequest{Cantidad: 100001}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodGet, "/v1/carrito", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[dto.CarritoResponse](t, w).CantidadTotal)
}
