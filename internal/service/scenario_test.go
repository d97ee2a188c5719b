package service

import (
	"ChannelTrack-Backend/internal/config"
	"ChannelTrack-Backend/internal/database/dbtest"
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository/postgres"
	"ChannelTrack-Backend/pkg/useragent"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Сквозной сценарий поверх настоящей схемы в SQLite
func TestScenario_ClickConversionStats(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	store := postgres.New(db, zap.NewNop())

	cfg := &config.Tracking{DailyWindowDays: 30, MaxDailyWindowDays: 365, HashRetries: 5}
	tracker := NewTracker(store, useragent.NewFallback(zap.NewNop()), nil, zap.NewNop())
	stats := NewStatsService(store, cfg)

	link := &domain.TrackingLink{
		LinkHash:  "abc123",
		ChannelID: 100,
		TargetURL: "https://t.me/+invite",
		Campaign:  domain.Campaign{Source: strPtr("vk"), Medium: strPtr("cpc")},
		IsActive:  true,
	}
	require.NoError(t, store.CreateLink(ctx, link))

	click, err := tracker.TrackClick(ctx, "abc123", ClickContext{UserID: int64Ptr(42)})
	require.NoError(t, err)
	assert.Equal(t, "vk", *click.Campaign.Source)

	conv, err := tracker.MarkConversion(ctx, click.ClickID, 42, 100)
	require.NoError(t, err)
	assert.True(t, conv.SubscriberCreated)

	linkStats, err := stats.GetLinkStats(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), linkStats.TotalClicks)
	assert.Equal(t, int64(1), linkStats.Conversions)
	assert.Equal(t, int64(1), linkStats.UniqueUsers)
	assert.Equal(t, 100.0, linkStats.ConversionRate)

	t.Run("repeated conversion keeps one subscriber", func(t *testing.T) {
		conv, err := tracker.MarkConversion(ctx, click.ClickID, 42, 100)
		require.NoError(t, err)
		assert.True(t, conv.Attributed)
		assert.False(t, conv.SubscriberCreated)

		channelStats, err := stats.GetChannelStats(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), channelStats.TotalSubscribers)
		assert.Equal(t, int64(1), channelStats.TrackedSubscribers)
		assert.Equal(t, int64(0), channelStats.OrganicSubscribers)
		require.Len(t, channelStats.Sources, 1)
		assert.Equal(t, "vk", channelStats.Sources[0].Source)
	})

	t.Run("frozen campaign on subscriber", func(t *testing.T) {
		var sub domain.ChannelSubscriber
		require.NoError(t, db.Where("channel_id = ? AND user_id = ?", 100, 42).First(&sub).Error)
		assert.Equal(t, "vk", *sub.Campaign.Source)
		assert.Equal(t, "cpc", *sub.Campaign.Medium)
		assert.Equal(t, click.ClickID, *sub.SourceClickID)
	})

	t.Run("unknown hash writes nothing", func(t *testing.T) {
		_, err := tracker.TrackClick(ctx, "doesnotexist", ClickContext{})
		assert.ErrorIs(t, err, ErrLinkNotFound)

		assert.Equal(t, int64(1), countRows(t, db, &domain.LinkClick{}))
	})

	t.Run("unsubscribe and organic rejoin", func(t *testing.T) {
		changed, err := tracker.MarkUnsubscription(ctx, 100, 42)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = tracker.MarkUnsubscription(ctx, 100, 42)
		require.NoError(t, err)
		assert.False(t, changed)

		require.NoError(t, tracker.RecordJoin(ctx, 100, 42))
		require.NoError(t, tracker.RecordJoin(ctx, 100, 77))

		channelStats, err := stats.GetChannelStats(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(2), channelStats.TotalSubscribers)
		assert.Equal(t, int64(1), channelStats.TrackedSubscribers)
		assert.Equal(t, int64(1), channelStats.OrganicSubscribers)
		assert.Equal(t, int64(2), channelStats.ActiveSubscribers)
		assert.Equal(t, int64(1), countRows(t, db, &domain.LinkClick{}), "clicks untouched")
	})

	t.Run("daily stats", func(t *testing.T) {
		daily, err := stats.GetDailyStats(ctx, 100, 0)
		require.NoError(t, err)
		assert.Equal(t, 30, daily.Days)
		require.Len(t, daily.Stats, 1)
		assert.Equal(t, int64(1), daily.Stats[0].Clicks)
		assert.Equal(t, 100.0, daily.Stats[0].ConversionRate)
	})
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
