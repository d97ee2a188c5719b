package postgres

import (
	"ChannelTrack-Backend/internal/domain"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// --- Stats Methods ---

// LinkClickTotals считает клики, конверсии и уникальных пользователей по ссылке
func (s *PostgresStorage) LinkClickTotals(ctx context.Context, linkID int64) (*domain.ClickTotals, error) {
	var totals domain.ClickTotals

	err := s.db.WithContext(ctx).Model(&domain.LinkClick{}).
		Select(`COUNT(*) AS total_clicks,
			COALESCE(SUM(CASE WHEN converted_to_subscriber THEN 1 ELSE 0 END), 0) AS conversions,
			COUNT(DISTINCT user_id) AS unique_users`).
		Where("link_id = ?", linkID).
		Scan(&totals).Error
	if err != nil {
		s.log.Error("failed to get link click totals", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to get link click totals: %w", err)
	}

	return &totals, nil
}

// ClicksByDevice получает клики по типам устройств
func (s *PostgresStorage) ClicksByDevice(ctx context.Context, linkID int64) (map[string]int64, error) {
	var results []struct {
		DeviceType string `gorm:"column:device_type"`
		Count      int64  `gorm:"column:count"`
	}

	err := s.db.WithContext(ctx).Model(&domain.LinkClick{}).
		Select("COALESCE(device_type, 'unknown') AS device_type, COUNT(*) AS count").
		Where("link_id = ?", linkID).
		Group("COALESCE(device_type, 'unknown')").
		Scan(&results).Error
	if err != nil {
		s.log.Error("failed to get clicks by device", zap.Int64("link_id", linkID), zap.Error(err))
		return nil, fmt.Errorf("failed to get clicks by device: %w", err)
	}

	clicksByDevice := make(map[string]int64, len(results))
	for _, r := range results {
		clicksByDevice[r.DeviceType] = r.Count
	}

	return clicksByDevice, nil
}

const channelTotalsQuery = `
SELECT
	(SELECT COUNT(*) FROM tracking_links WHERE channel_id = @channel) AS total_links,
	(SELECT COUNT(*) FROM link_clicks c JOIN tracking_links l ON l.id = c.link_id
		WHERE l.channel_id = @channel) AS total_clicks,
	(SELECT COUNT(*) FROM link_clicks c JOIN tracking_links l ON l.id = c.link_id
		WHERE l.channel_id = @channel AND c.converted_to_subscriber = @yes) AS total_conversions,
	(SELECT COUNT(*) FROM channel_subscribers WHERE channel_id = @channel) AS total_subscribers,
	(SELECT COUNT(*) FROM channel_subscribers
		WHERE channel_id = @channel AND source_link_id IS NOT NULL) AS tracked_subscribers,
	(SELECT COUNT(*) FROM channel_subscribers
		WHERE channel_id = @channel AND is_active = @yes) AS active_subscribers`

// ChannelTotals считает агрегаты по каналу одним запросом
func (s *PostgresStorage) ChannelTotals(ctx context.Context, channelID int64) (*domain.ChannelTotals, error) {
	var totals domain.ChannelTotals

	err := s.db.WithContext(ctx).
		Raw(channelTotalsQuery, map[string]interface{}{"channel": channelID, "yes": true}).
		Scan(&totals).Error
	if err != nil {
		s.log.Error("failed to get channel totals", zap.Int64("channel_id", channelID), zap.Error(err))
		return nil, fmt.Errorf("failed to get channel totals: %w", err)
	}

	return &totals, nil
}

// ChannelSourceBreakdown группирует клики канала по utm_source.
// Пустой и отсутствующий источник возвращаются одной группой с Source == "".
func (s *PostgresStorage) ChannelSourceBreakdown(ctx context.Context, channelID int64) ([]domain.SourceTotals, error) {
	var rows []domain.SourceTotals

	err := s.db.WithContext(ctx).
		Table("link_clicks AS c").
		Select(`COALESCE(l.utm_source, '') AS source,
			COUNT(*) AS clicks,
			COALESCE(SUM(CASE WHEN c.converted_to_subscriber THEN 1 ELSE 0 END), 0) AS conversions`).
		Joins("JOIN tracking_links AS l ON l.id = c.link_id").
		Where("l.channel_id = ?", channelID).
		Group("COALESCE(l.utm_source, '')").
		Order("clicks DESC, source ASC").
		Scan(&rows).Error
	if err != nil {
		s.log.Error("failed to get channel source breakdown", zap.Int64("channel_id", channelID), zap.Error(err))
		return nil, fmt.Errorf("failed to get channel source breakdown: %w", err)
	}

	return rows, nil
}

// ChannelDailyTotals группирует клики канала по дням (UTC) начиная с since
func (s *PostgresStorage) ChannelDailyTotals(ctx context.Context, channelID int64, since time.Time) ([]domain.DailyTotals, error) {
	var rows []domain.DailyTotals

	day := s.dayExpr("c.clicked_at")
	err := s.db.WithContext(ctx).
		Table("link_clicks AS c").
		Select(day+` AS day,
			COUNT(*) AS clicks,
			COALESCE(SUM(CASE WHEN c.converted_to_subscriber THEN 1 ELSE 0 END), 0) AS conversions`).
		Joins("JOIN tracking_links AS l ON l.id = c.link_id").
		Where("l.channel_id = ? AND c.clicked_at >= ?", channelID, since.UTC()).
		Group(day).
		Order("day DESC").
		Scan(&rows).Error
	if err != nil {
		s.log.Error("failed to get channel daily totals", zap.Int64("channel_id", channelID), zap.Error(err))
		return nil, fmt.Errorf("failed to get channel daily totals: %w", err)
	}

	return rows, nil
}

// dayExpr возвращает выражение, усекающее время до даты YYYY-MM-DD в диалекте текущей БД
func (s *PostgresStorage) dayExpr(column string) string {
	if s.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', " + column + ")"
	}
	return "TO_CHAR(" + column + " AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
}
