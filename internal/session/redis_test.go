package session

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santan-uz/santan-bot/internal/cart"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	return client, func() {
		_ = client.Close()
		server.Close()
	}
}

func TestRedisStorage_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger())
	ctx := context.Background()

	sess := &Session{
		UserID:    123,
		Step:      StepCollectingPhone,
		Items:     "sovun x2",
		Address:   "📍 Geolokatsiya: 41.372386,69.323775",
		Location:  "41.372386,69.323775",
		Cart:      []cart.Line{{SKU: "soap-1", Qty: 2}},
		CartTotal: 16000,
	}

	require.NoError(t, storage.Set(ctx, sess.UserID, sess))

	result, err := storage.Get(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, result.UserID)
	assert.Equal(t, sess.Step, result.Step)
	assert.Equal(t, sess.Items, result.Items)
	assert.Equal(t, sess.Address, result.Address)
	assert.Equal(t, sess.Location, result.Location)
	assert.Equal(t, sess.Cart, result.Cart)
	assert.Equal(t, sess.CartTotal, result.CartTotal)
	assert.False(t, result.UpdatedAt.IsZero())
}

func TestRedisStorage_GetNotFound(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger())

	sess, err := storage.Get(context.Background(), 999)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_Clear(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger())
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, 55, &Session{UserID: 55, Step: StepCollectingItems}))
	require.NoError(t, storage.Clear(ctx, 55))

	_, err := storage.Get(ctx, 55)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_All(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger())
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, 1, &Session{UserID: 1, Step: StepCollectingItems}))
	require.NoError(t, storage.Set(ctx, 2, &Session{UserID: 2, Step: StepConfirming}))

	sessions, err := storage.All(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestMachine_WithRedisStorageAndLock(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	machine := NewMachine(NewRedisStorage(client, testLogger()), testLogger(), client)
	ctx := context.Background()

	sess, err := machine.Update(ctx, 42, func(s *Session) error {
		s.Step = StepCollectingItems
		s.Items = "2 sovun"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StepCollectingItems, sess.Step)

	// The lock must have been released after the update.
	stored, err := machine.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "2 sovun", stored.Items)
}
