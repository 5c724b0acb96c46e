package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide collectors, exposed on /metrics through promhttp.
var (
	VentasRegistradas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "micromercado_ventas_total",
		Help: "Ventas confirmadas.",
	})
	VentasMonto = promauto.NewCounter(prometheus.CounterOpts{
		Name: "micromercado_ventas_monto_total",
		Help: "Suma de montos de ventas confirmadas.",
	})
	ConflictosStock = promauto.NewCounter(prometheus.CounterOpts{
		Name: "micromercado_conflictos_stock_total",
		Help: "Lineas vendidas por encima del stock disponible (stock recortado a cero).",
	})
	PedidosEventos = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "micromercado_pedidos_total",
		Help: "Transiciones de pedidos por evento.",
	}, []string{"evento"})
	JobsProcesados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "micromercado_jobs_total",
		Help: "Jobs asincronos procesados por cola y resultado.",
	}, []string{"queue", "result"})
	HTTPDuracion = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "micromercado_http_request_duration_seconds",
		Help:    "Latencia de requests HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
