package service

import (
	"context"
	"encoding/json"
	"time"

	"micromercado/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const precioCacheTTL = 4 * time.Hour

// precioCache keeps public price-check answers in Redis. A nil client turns
// every method into a no-op.
type precioCache struct{ rdb *redis.Client }

func precioKey(id string) string { return "precio:" + id }

func (c precioCache) get(ctx context.Context, id string) (*dto.ConsultaPreciosResponse, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, precioKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.ConsultaPreciosResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c precioCache) set(ctx context.Context, resp *dto.ConsultaPreciosResponse) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, precioKey(resp.ID), raw, precioCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", resp.ID).Msg("precio cache: set falló")
	}
}

// evict drops cached entries after a price or stock change.
func (c precioCache) evict(ctx context.Context, ids ...string) {
	if c.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = precioKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("precio cache: evict falló")
	}
}
