package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"micromercado/internal/carrito"
	"micromercado/internal/config"
	"micromercado/internal/model"
	"micromercado/internal/repository"
	"micromercado/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type evento struct {
	tipo    string
	key     string
	payload any
}

// recPublisher records every published event.
type recPublisher struct {
	mu      sync.Mutex
	eventos []evento
}

func (p *recPublisher) Publish(_ context.Context, tipo, key string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, evento{tipo: tipo, key: key, payload: payload})
}

func (p *recPublisher) tipos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.eventos))
	for i, e := range p.eventos {
		out[i] = e.tipo
	}
	return out
}

// kvConPausa lets a test hold a transaction open at the first read of one
// key, to interleave work with an in-flight commit.
type kvConPausa struct {
	*store.MemoryKV
	mu     sync.Mutex
	clave  string
	llego  chan struct{}
	soltar chan struct{}
}

// pausarEn arms a one-shot pause. The returned channels report that the
// read was reached and let it continue.
func (k *kvConPausa) pausarEn(clave string) (llego <-chan struct{}, soltar chan<- struct{}) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.clave = clave
	k.llego = make(chan struct{})
	k.soltar = make(chan struct{})
	return k.llego, k.soltar
}

func (k *kvConPausa) Get(ctx context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	var llego, soltar chan struct{}
	if k.clave != "" && k.clave == key {
		llego, soltar = k.llego, k.soltar
		k.clave = ""
	}
	k.mu.Unlock()
	if llego != nil {
		close(llego)
		<-soltar
	}
	return k.MemoryKV.Get(ctx, key)
}

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture wires every service over one in-memory store, without Redis and
// without a dispatcher.
type fixture struct {
	kv  *store.MemoryKV
	gkv *kvConPausa
	st  *store.Store
	pub *recPublisher
	dir string

	productos ProductoService
	clientes  ClienteService
	cajeros   CajeroService
	sesiones  SesionService
	carritos  CarritoService
	ventas    VentaService
	pedidos   PedidoService
	reportes  ReporteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := store.NewMemoryKV()
	gkv := &kvConPausa{MemoryKV: kv}
	st := store.New(gkv)
	pub := &recPublisher{}
	dir := t.TempDir()
	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 1}

	productoRepo := repository.NewProductoRepository()
	clienteRepo := repository.NewClienteRepository()
	cajeroRepo := repository.NewCajeroRepository()
	ventaRepo := repository.NewVentaRepository()
	pedidoRepo := repository.NewPedidoRepository()

	cajeros := NewCajeroService(st, cajeroRepo, 4)
	cajeros.(*cajeroService).bcryptCost = bcrypt.MinCost

	productos := NewProductoService(st, productoRepo, nil)
	return &fixture{
		kv:        kv,
		gkv:       gkv,
		st:        st,
		pub:       pub,
		dir:       dir,
		productos: productos,
		clientes:  NewClienteService(st, clienteRepo),
		cajeros:   cajeros,
		sesiones:  NewSesionService(st, cajeroRepo, repository.NewSesionRepository(), cfg),
		carritos:  NewCarritoService(productos),
		ventas:    NewVentaService(st, productoRepo, ventaRepo, nil, pub, nil),
		pedidos:   NewPedidoService(st, productoRepo, clienteRepo, pedidoRepo, pub, nil),
		reportes:  NewReporteService(st, ventaRepo, repository.NewReporteRepository(), nil, "Micromercado Test", dir, ""),
	}
}

func precio(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedProductos replaces the catalog with ps.
func (f *fixture) seedProductos(t *testing.T, ps ...model.Producto) {
	t.Helper()
	err := f.st.Tx(context.Background(), func(tx *store.Tx) error {
		return repository.NewProductoRepository().SaveAll(tx, ps)
	})
	require.NoError(t, err)
}

func (f *fixture) seedVentas(t *testing.T, vs ...model.Venta) {
	t.Helper()
	err := f.st.Tx(context.Background(), func(tx *store.Tx) error {
		return repository.NewVentaRepository().SaveAll(tx, vs)
	})
	require.NoError(t, err)
}

func (f *fixture) producto(t *testing.T, id string) model.Producto {
	t.Helper()
	p, err := f.productos.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	return *p
}

// sesion returns a session whose cart already holds lineas.
func sesion(lineas ...carrito.Linea) *Sesion {
	c := carrito.New()
	for _, l := range lineas {
		c.AgregarLinea(l.ProductoID, l.Cantidad)
	}
	return &Sesion{
		ID:       "ses-test",
		Cajero:   model.CajeroLogueado{SesionID: "ses-test", CajeroID: "CAJ-001", Nombre: "Ana Perez"},
		Carrito:  c,
		ExpiraEn: time.Now().Add(time.Hour),
	}
}

func linea(id string, cantidad int) carrito.Linea {
	return carrito.Linea{ProductoID: id, Cantidad: cantidad}
}

// fixedClock makes ids and dates deterministic.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
