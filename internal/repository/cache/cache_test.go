package cache

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository"
	"ChannelTrack-Backend/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCache(t *testing.T) (*CachedStorage, *memory.MemStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { rdb.Close() })

	store := memory.New()
	return New(store, rdb, time.Minute, zap.NewNop()), store, mr
}

func TestCachedStorage_GetActiveLinkByHash(t *testing.T) {
	ctx := context.Background()
	c, store, mr := setupCache(t)

	link := &domain.TrackingLink{LinkHash: "abc123", ChannelID: 1, TargetURL: "https://t.me/+invite", IsActive: true}
	require.NoError(t, store.CreateLink(ctx, link))

	got, err := c.GetActiveLinkByHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.True(t, mr.Exists("link:hash:abc123"))

	ttl := mr.TTL("link:hash:abc123")
	assert.Equal(t, time.Minute, ttl)

	// Запись из кэша переживает изменение в хранилище до инвалидации
	require.NoError(t, store.SetLinkActive(ctx, link.ID, false))
	got, err = c.GetActiveLinkByHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+invite", got.TargetURL)
}

func TestCachedStorage_SetLinkActiveInvalidates(t *testing.T) {
	ctx := context.Background()
	c, store, mr := setupCache(t)

	link := &domain.TrackingLink{LinkHash: "abc123", ChannelID: 1, IsActive: true}
	require.NoError(t, store.CreateLink(ctx, link))

	_, err := c.GetActiveLinkByHash(ctx, "abc123")
	require.NoError(t, err)

	require.NoError(t, c.SetLinkActive(ctx, link.ID, false))
	assert.False(t, mr.Exists("link:hash:abc123"))

	_, err = c.GetActiveLinkByHash(ctx, "abc123")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	err = c.SetLinkActive(ctx, 999, false)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestCachedStorage_RedisDown(t *testing.T) {
	ctx := context.Background()
	c, store, mr := setupCache(t)

	link := &domain.TrackingLink{LinkHash: "abc123", ChannelID: 1, IsActive: true}
	require.NoError(t, store.CreateLink(ctx, link))

	mr.Close()

	got, err := c.GetActiveLinkByHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)

	_, err = c.GetActiveLinkByHash(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}
