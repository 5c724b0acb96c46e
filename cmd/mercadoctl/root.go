package main

import (
	"fmt"

	"micromercado/internal/config"
	"micromercado/internal/infra"
	"micromercado/internal/repository"
	"micromercado/internal/service"
	"micromercado/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs. Built lazily in PersistentPreRunE
// so --help works without a reachable backend.
type app struct {
	cfg *config.Config
	st  *store.Store
	rdb *redis.Client

	productos service.ProductoService
	cajeros   service.CajeroService
	reportes  service.ReporteService
	pedidos   service.PedidoService
}

func newApp(cfg *config.Config, st *store.Store, rdb *redis.Client) *app {
	productoRepo := repository.NewProductoRepository()
	ventaRepo := repository.NewVentaRepository()
	return &app{
		cfg:       cfg,
		st:        st,
		rdb:       rdb,
		productos: service.NewProductoService(st, productoRepo, rdb),
		cajeros:   service.NewCajeroService(st, repository.NewCajeroRepository(), cfg.MaxCajeros),
		reportes: service.NewReporteService(st, ventaRepo, repository.NewReporteRepository(), nil,
			cfg.NombreNegocio, cfg.PDFStoragePath, ""),
		pedidos: service.NewPedidoService(st, productoRepo, repository.NewClienteRepository(),
			repository.NewPedidoRepository(), nil, rdb),
	}
}

func newRootCmd() *cobra.Command {
	var (
		a       app
		backend string
		verbose bool
	)

	root := &cobra.Command{
		Use:          "mercadoctl",
		Short:        "Administracion del micromercado",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !verbose {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if backend != "" {
				cfg.StoreBackend = backend
			}

			var rdb *redis.Client
			if cfg.RedisURL != "" {
				if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			st, err := infra.NewStore(cfg, rdb)
			if err != nil {
				return err
			}
			a = *newApp(cfg, st, rdb)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.rdb != nil {
				_ = a.rdb.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&backend, "store", "", "backend (memory, redis, postgres); por defecto STORE_BACKEND")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "logs de nivel info")

	root.AddCommand(
		newSeedCmd(&a),
		newCajeroCmd(&a),
		newProductosCmd(&a),
		newVentasCmd(&a),
		newPedidosCmd(&a),
		newDLQCmd(&a),
	)
	return root
}
