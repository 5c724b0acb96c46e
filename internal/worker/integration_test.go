//go:build integration

package worker

// Queue round trip against a real Redis via testcontainers.
// Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })
	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	return redis.NewClient(opts)
}

func TestDispatcher_ProcessesAndDeadLetters(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ok, failed atomic.Int32
	d := NewDispatcher(rdb)
	d.backoff = time.Millisecond
	d.Register(QueueTicket, func(_ context.Context, raw json.RawMessage) error {
		var p TicketJobPayload
		_ = json.Unmarshal(raw, &p)
		if p.VentaID == "VEN-MALA" {
			failed.Add(1)
			return errors.New("no se pudo renderizar")
		}
		ok.Add(1)
		return nil
	})
	wg := d.StartWorkerPool(ctx, 1)

	require.NoError(t, d.EnqueueTicket(ctx, TicketJobPayload{VentaID: "VEN-1"}))
	require.NoError(t, d.EnqueueTicket(ctx, TicketJobPayload{VentaID: "VEN-MALA"}))

	require.Eventually(t, func() bool {
		n, _ := DLQLength(ctx, rdb, QueueTicket)
		return n == 1 && ok.Load() == 1
	}, 15*time.Second, 100*time.Millisecond)

	assert.Equal(t, int32(maxAttempts), failed.Load())
	entries, err := ListDLQ(ctx, rdb, QueueTicket, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ticket", entries[0].JobType)
	assert.Equal(t, maxAttempts, entries[0].Attempts)

	cancel()
	wg.Wait()

	bg := context.Background()
	moved, err := RequeueDLQ(bg, rdb, QueueTicket, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	n, _ := DLQLength(bg, rdb, QueueTicket)
	assert.Zero(t, n)

	raw, err := rdb.RPop(bg, QueueTicket).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "ticket", job.Type)
	assert.JSONEq(t, `{"venta_id":"VEN-MALA"}`, string(job.Payload))
}
