package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"micromercado/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTicket = "jobs:ticket"
	QueueEmail  = "jobs:email"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one job payload. A returned error is retried with
// backoff and, once attempts run out, the job goes to the DLQ.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues jobs into Redis lists and routes dequeued jobs to the
// registered handlers. A Dispatcher without Redis accepts and drops jobs, so
// services can call it unconditionally.
type Dispatcher struct {
	rdb      *redis.Client
	handlers map[string]Handler
	backoff  time.Duration
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb, handlers: make(map[string]Handler), backoff: time.Second}
}

// Register binds a handler to a queue. Call before StartWorkerPool and before
// serving requests: jobs for queues without a handler are dropped.
func (d *Dispatcher) Register(queue string, h Handler) {
	d.handlers[queue] = h
}

func (d *Dispatcher) Enabled() bool { return d != nil && d.rdb != nil }

// EnqueueTicket asks for the ticket PDF of a sale to be archived.
func (d *Dispatcher) EnqueueTicket(ctx context.Context, payload TicketJobPayload) error {
	return d.enqueue(ctx, QueueTicket, "ticket", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	if !d.Enabled() {
		log.Debug().Str("queue", queue).Msg("worker: cola deshabilitada (sin Redis), job descartado")
		return nil
	}
	// Nothing would ever pop it.
	if _, ok := d.handlers[queue]; !ok {
		log.Warn().Str("queue", queue).Str("job_type", jobType).Msg("worker: cola sin handler, job descartado")
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming every registered
// queue. Each goroutine blocks on BRPOP. The returned WaitGroup is done once
// all workers have exited after ctx is cancelled.
func (d *Dispatcher) StartWorkerPool(ctx context.Context, numWorkers int) *sync.WaitGroup {
	var wg sync.WaitGroup
	if !d.Enabled() || len(d.handlers) == 0 {
		log.Info().Msg("worker pool deshabilitado")
		return &wg
	}
	queues := make([]string, 0, len(d.handlers))
	for q := range d.handlers {
		queues = append(queues, q)
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			d.runWorker(ctx, queues, id)
		}(i)
	}
	log.Info().Strs("queues", queues).Msgf("worker pool started with %d workers", numWorkers)
	return &wg
}

func (d *Dispatcher) runWorker(ctx context.Context, queues []string, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := d.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP falló")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			d.processJob(ctx, result[0], result[1])
		}
	}
}

func (d *Dispatcher) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, d.rdb, queue, "desconocido", json.RawMessage(`null`), "payload ilegible: "+err.Error(), 0)
		infra.JobsProcesados.WithLabelValues(queue, "dlq").Inc()
		return
	}
	h, ok := d.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("worker: sin handler para la cola")
		return
	}

	attempts := 0
	err := withRetry(ctx, maxAttempts, d.backoff, func(attempt int) error {
		attempts = attempt + 1
		err := h(ctx, job.Payload)
		if err != nil {
			log.Warn().Err(err).Str("queue", queue).Int("attempt", attempts).Msg("worker: job falló")
		}
		return err
	})
	if err != nil {
		SendToDLQ(ctx, d.rdb, queue, job.Type, job.Payload, err.Error(), attempts)
		infra.JobsProcesados.WithLabelValues(queue, "dlq").Inc()
		return
	}
	infra.JobsProcesados.WithLabelValues(queue, "ok").Inc()
}

// withRetry calls fn up to attempts times with exponential backoff
// (base, 2×base, …). Returns nil on the first success, the last error otherwise.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base * time.Duration(1<<uint(i-1))):
			}
		}
		if lastErr = fn(i); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
