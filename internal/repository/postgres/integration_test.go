//go:build integration

package postgres

import (
	"ChannelTrack-Backend/internal/database"
	"ChannelTrack-Backend/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("channeltrack"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable", "TimeZone=UTC")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	return New(db, zap.NewNop())
}

func TestIntegration_ConversionAndStats(t *testing.T) {
	ctx := context.Background()
	s := setupPostgres(t)

	link := createTestLink(t, s, 100, "abc123", strPtr("vk"))
	direct := createTestLink(t, s, 100, "direct1", nil)

	now := time.Now().UTC()
	click := createTestClick(t, s, link.ID, int64Ptr(42), now)
	createTestClick(t, s, direct.ID, nil, now)

	require.NoError(t, s.MarkClickConverted(ctx, click.ID, now.Add(time.Second)))

	attribution, err := s.GetClickAttribution(ctx, click.ID)
	require.NoError(t, err)

	created, err := s.AddSubscriber(ctx, &domain.ChannelSubscriber{
		ChannelID:     attribution.ChannelID,
		UserID:        42,
		SourceLinkID:  &attribution.LinkID,
		SourceClickID: &attribution.ClickID,
		Campaign:      attribution.Campaign.Clone(),
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.AddSubscriber(ctx, &domain.ChannelSubscriber{ChannelID: 100, UserID: 42})
	require.NoError(t, err)
	assert.False(t, created)

	totals, err := s.ChannelTotals(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.TotalClicks)
	assert.Equal(t, int64(1), totals.TotalConversions)
	assert.Equal(t, int64(1), totals.TotalSubscribers)

	sources, err := s.ChannelSourceBreakdown(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	daily, err := s.ChannelDailyTotals(ctx, 100, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, now.Format("2006-01-02"), daily[0].Day)
	assert.Equal(t, int64(2), daily[0].Clicks)
}
