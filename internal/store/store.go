// Package store is the key-value persistence adapter. Every collection is one
// JSON document under its own key; mutations go through Store.Tx, which stages
// writes and commits them to the backend in a single atomic PutAll.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrKeyNotFound is returned by KV.Get when the key was never written.
var ErrKeyNotFound = errors.New("store: key not found")

// KV is the backend contract. PutAll must apply every entry or none.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutAll(ctx context.Context, entries map[string][]byte) error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store serializes all transactions of this process behind one mutex.
// Other processes sharing the same backend keyspace are not coordinated:
// their whole-document writes race with last-write-wins.
type Store struct {
	kv KV
	mu sync.Mutex
}

func New(kv KV) *Store { return &Store{kv: kv} }

// Tx runs fn with exclusive access to the store. Writes staged on tx are
// committed only when fn returns nil; on error nothing reaches the backend.
func (s *Store) Tx(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{ctx: ctx, kv: s.kv, pending: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.pending) == 0 {
		return nil
	}
	return s.kv.PutAll(ctx, tx.pending)
}

// View runs fn for reading. Anything staged on tx is discarded.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{ctx: ctx, kv: s.kv, pending: make(map[string][]byte)})
}

// Ping checks backend connectivity when the backend supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.kv.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Tx is a read-your-writes view over the backend.
type Tx struct {
	ctx     context.Context
	kv      KV
	pending map[string][]byte
}

func (tx *Tx) Context() context.Context { return tx.ctx }

// Get returns the staged value for key if any, otherwise the backend's.
func (tx *Tx) Get(key string) ([]byte, error) {
	if v, ok := tx.pending[key]; ok {
		return v, nil
	}
	return tx.kv.Get(tx.ctx, key)
}

// Put stages a whole-document write.
func (tx *Tx) Put(key string, value []byte) {
	tx.pending[key] = value
}

// Load decodes the collection under key. Absent, null or malformed documents
// load as an empty collection; malformed ones are logged.
func Load[T any](tx *Tx, key string) ([]T, error) {
	raw, err := tx.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("store: documento malformado, se usa coleccion vacia")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save stages the whole collection under key.
func Save[T any](tx *Tx, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	tx.Put(key, raw)
	return nil
}

// LoadOne decodes a singleton record; nil when absent, null or malformed.
func LoadOne[T any](tx *Tx, key string) (*T, error) {
	raw, err := tx.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("store: registro malformado, se ignora")
		return nil, nil
	}
	return v, nil
}

// SaveOne stages a singleton record; nil clears it.
func SaveOne[T any](tx *Tx, key string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tx.Put(key, raw)
	return nil
}
