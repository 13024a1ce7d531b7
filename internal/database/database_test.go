package database

import (
	"context"
	"testing"
	"time"

	"fieldops/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, USER_CACHE_INDEX)
	assert.Equal(t, 2, ORDER_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "db",
		DatabasePort:     5432,
		DatabaseUser:     "fieldops",
		DatabasePassword: "secret",
		DatabaseName:     "orders",
	})

	assert.Equal(
		t,
		"host=db port=5432 user=fieldops password=secret dbname=orders sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestNewGormConfig_TranslatesErrors(t *testing.T) {
	cfg := NewGormConfig()

	assert.True(t, cfg.TranslateError)
	assert.True(t, cfg.SkipDefaultTransaction)
}

func TestCacheBuilder_DisabledCache(t *testing.T) {
	builder := NewCacheBuilder(nil, int64(42)).WithHash("order")
	assert.Equal(t, "order:42", builder.Key())

	found, err := builder.Get(&struct{}{})
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCacheDisabled)
	assert.ErrorIs(t, builder.WithValue("x").Set(), ErrCacheDisabled)
	assert.ErrorIs(t, builder.Delete(), ErrCacheDisabled)
}

func TestCacheBuilder_WithStructError(t *testing.T) {
	builder := NewCacheBuilder(nil, "key").WithStruct(make(chan int))
	require.Error(t, builder.Set())
}

func TestCacheBuilder_TimeoutRespectsShorterDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	builder := NewCacheBuilder(nil, "key").WithContext(parent).WithTimeout(5 * time.Second)
	ctx, done := builder.createTimeoutContext()
	defer done()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 100*time.Millisecond)
}

func TestModelsToMigrate(t *testing.T) {
	assert.Len(t, ModelsToMigrate, 9)
}
