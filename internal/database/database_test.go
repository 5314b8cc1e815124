package database

import (
	"context"
	"testing"

	"maidhub/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, USER_CACHE_INDEX)
	assert.Equal(t, 2, EVENTS_CACHE_INDEX)

	var cache Cache
	assert.Len(t, cache.clients(), 3)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{log: log}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
	assert.NoError(t, db.Close())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "db",
		DatabasePort:     5432,
		DatabaseUser:     "maidhub",
		DatabasePassword: "secret",
		DatabaseName:     "maidhub",
	})

	assert.Equal(
		t,
		"host=db port=5432 user=maidhub password=secret dbname=maidhub sslmode=disable TimeZone=UTC",
		dsn,
	)

	assert.Contains(t, DSN(config.Config{DatabaseSSLMode: "verify-full"}), "sslmode=verify-full")
}

func TestFlushAllCaches_NoClients(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.FlushAllCaches())
}

func TestCacheBuilder_Key(t *testing.T) {
	id := uuid.MustParse("6f1c2a4e-1d2b-4c3d-9e8f-0a1b2c3d4e5f")

	builder := NewCacheBuilder(nil, id).WithHash("user")
	assert.Equal(t, "user:6f1c2a4e-1d2b-4c3d-9e8f-0a1b2c3d4e5f", builder.Key())

	builder = NewCacheBuilder(nil, "42").WithHash("")
	assert.Equal(t, "42", builder.Key())
}

func TestCacheBuilder_NilClient(t *testing.T) {
	builder := NewCacheBuilder(nil, "key").WithContext(context.Background())

	assert.ErrorIs(t, builder.WithValue("value").Set(), ErrCacheUnavailable)

	var out map[string]any
	found, err := builder.Get(&out)
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	_, found, err = builder.GetInt()
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	assert.ErrorIs(t, builder.Delete(), ErrCacheUnavailable)
}

func TestModelsToMigrate(t *testing.T) {
	assert.Len(t, ModelsToMigrate, 11)
}

func TestAfterCommit_OutsideTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestAfterCommit_DeferredUntilRun(t *testing.T) {
	ctx, hooks := WithCommitHooks(context.Background())

	var order []int
	AfterCommit(ctx, func(context.Context) { order = append(order, 1) })
	AfterCommit(ctx, func(context.Context) { order = append(order, 2) })

	assert.Empty(t, order)
	assert.Equal(t, 2, hooks.Len())

	hooks.Run(context.Background())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 0, hooks.Len())
}
