package infra

import (
	"fmt"

	"micromercado/internal/config"
	"micromercado/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// redisKeyPrefix namespaces the collection documents in a shared Redis.
const redisKeyPrefix = "micromercado:"

// NewStore opens the KV backend selected by STORE_BACKEND. The redis backend
// reuses rdb, which must then be non-nil.
func NewStore(cfg *config.Config, rdb *redis.Client) (*store.Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		log.Warn().Msg("store: backend en memoria, los datos se pierden al reiniciar")
		return store.New(store.NewMemoryKV()), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("store: STORE_BACKEND=redis requiere REDIS_URL")
		}
		return store.New(store.NewRedisKV(rdb, redisKeyPrefix)), nil
	case "postgres":
		db, err := NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("store: conectar postgres: %w", err)
		}
		kv, err := store.NewPostgresKV(db)
		if err != nil {
			return nil, fmt.Errorf("store: migrar kv_documentos: %w", err)
		}
		return store.New(kv), nil
	default:
		return nil, fmt.Errorf("store: backend desconocido %q (memory, redis o postgres)", cfg.StoreBackend)
	}
}
