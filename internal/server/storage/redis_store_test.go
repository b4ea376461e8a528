package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	data := &RoomData{
		Code:  "K3X9QZ",
		State: "lobby",
		Host:  "派大星",
		Players: []PlayerData{
			{ID: "p1", Name: "派大星"},
		},
		CreatedAt: time.Now().Unix(),
	}

	require.NoError(t, store.SaveRoom(ctx, data))
	assert.True(t, mr.Exists(roomKeyPrefix+"K3X9QZ"))
	assert.Positive(t, mr.TTL(roomKeyPrefix+"K3X9QZ"))

	loaded, err := store.LoadRoom(ctx, "K3X9QZ")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"K3X9QZ"}, codes)

	require.NoError(t, store.DeleteRoom(ctx, "K3X9QZ"))
	loaded, err = store.LoadRoom(ctx, "K3X9QZ")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Expiry(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, &RoomData{Code: "OLD001"}))
	mr.FastForward(roomExpiration + time.Second)

	loaded, err := store.LoadRoom(ctx, "OLD001")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_CorruptData(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewRedisStore(client)
	require.NoError(t, mr.Set(roomKeyPrefix+"BAD000", "{not json"))

	_, err := store.LoadRoom(context.Background(), "BAD000")
	assert.Error(t, err)
}

func TestRedisStore_NilClient(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(nil)
	ctx := context.Background()

	assert.False(t, store.Enabled())
	assert.NoError(t, store.SaveRoom(ctx, &RoomData{Code: "X"}))
	assert.NoError(t, store.DeleteRoom(ctx, "X"))
	assert.NoError(t, store.Ping(ctx))

	loaded, err := store.LoadRoom(ctx, "X")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	var nilStore *RedisStore
	assert.False(t, nilStore.Enabled())
}
