package infra

import (
	"context"
	"testing"

	"micromercado/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Memory(t *testing.T) {
	st, err := NewStore(&config.Config{StoreBackend: "memory"}, nil)
	require.NoError(t, err)
	assert.NoError(t, st.Ping(context.Background()))
}

func TestNewStore_RedisSinCliente(t *testing.T) {
	_, err := NewStore(&config.Config{StoreBackend: "redis"}, nil)
	assert.Error(t, err)
}

func TestNewStore_Desconocido(t *testing.T) {
	_, err := NewStore(&config.Config{StoreBackend: "sqlite"}, nil)
	assert.ErrorContains(t, err, "sqlite")
}
