package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"micromercado/internal/config"
	"micromercado/internal/events"
	"micromercado/internal/infra"
	"micromercado/internal/repository"
	"micromercado/internal/router"
	"micromercado/internal/service"
	"micromercado/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			log.Fatal().Msg("JWT_SECRET es obligatorio en produccion")
		}
		cfg.JWTSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET vacio: se usa un secreto aleatorio, los tokens no sobreviven un reinicio")
	}

	// Redis is optional: without it there is no job queue and no price cache.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
	}

	st, err := infra.NewStore(cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Domain events go to Kafka only when brokers are configured.
	var publisher events.Publisher = events.Nop{}
	var kafkaPub *events.KafkaPublisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(brokers, cfg.KafkaTopic, 256)
		kafkaPub.Start(ctx)
		publisher = kafkaPub
		log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("kafka publisher enabled")
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository()
	clienteRepo := repository.NewClienteRepository()
	cajeroRepo := repository.NewCajeroRepository()
	ventaRepo := repository.NewVentaRepository()
	pedidoRepo := repository.NewPedidoRepository()
	reporteRepo := repository.NewReporteRepository()
	sesionRepo := repository.NewSesionRepository()

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	productoSvc := service.NewProductoService(st, productoRepo, rdb)
	reporteSvc := service.NewReporteService(st, ventaRepo, reporteRepo, dispatcher,
		cfg.NombreNegocio, cfg.PDFStoragePath, cfg.ReportesEmail)

	svcs := router.Services{
		Productos: productoSvc,
		Clientes:  service.NewClienteService(st, clienteRepo),
		Cajeros:   service.NewCajeroService(st, cajeroRepo, cfg.MaxCajeros),
		Sesiones:  service.NewSesionService(st, cajeroRepo, sesionRepo, cfg),
		Carrito:   service.NewCarritoService(productoSvc),
		Ventas:    service.NewVentaService(st, productoRepo, ventaRepo, dispatcher, publisher, rdb),
		Pedidos:   service.NewPedidoService(st, productoRepo, clienteRepo, pedidoRepo, publisher, rdb),
		Reportes:  reporteSvc,
	}

	// ── Workers ──────────────────────────────────────────────────────────────
	// Handlers are wired here (composition root) so the pool reaches the
	// report service and the mailer without the worker package importing them.
	mailer := infra.NewMailer(cfg)
	var smtpCB *infra.CircuitBreaker
	if mailer.Enabled() {
		smtpCB = infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
		dispatcher.Register(worker.QueueEmail, worker.NewEmailWorker(mailer, smtpCB).Process)
	} else if cfg.ReportesEmail != "" {
		log.Warn().Msg("REPORTES_EMAIL configurado sin SMTP_HOST: los reportes no se enviaran por email")
	}
	dispatcher.Register(worker.QueueTicket, worker.NewTicketWorker(reporteSvc).Process)
	workers := dispatcher.StartWorkerPool(ctx, cfg.WorkerPoolSize)

	r := router.New(cfg, svcs, router.Deps{Store: st, Redis: rdb, SMTPCB: smtpCB})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("store", cfg.StoreBackend).Msgf("micromercado listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// Stop workers and flush pending events after the last request finished.
	cancel()
	workers.Wait()
	if kafkaPub != nil {
		kafkaPub.Wait()
	}
	log.Info().Msg("server exited")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("crypto/rand")
	}
	return hex.EncodeToString(b)
}
