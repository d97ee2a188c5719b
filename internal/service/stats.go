package service

import (
	"ChannelTrack-Backend/internal/config"
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"fmt"
	"sort"
	"time"
)

const (
	defaultDailyWindowDays    = 30
	defaultMaxDailyWindowDays = 365
)

// StatsService считает статистику по ссылкам и каналам на лету из хранилища
type StatsService struct {
	store  repository.StatsStore
	config *config.Tracking
	now    func() time.Time
}

func NewStatsService(store repository.StatsStore, cfg *config.Tracking) *StatsService {
	return &StatsService{
		store:  store,
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *StatsService) GetLinkStats(ctx context.Context, linkID int64) (*domain.LinkStats, error) {
	totals, err := s.store.LinkClickTotals(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get link totals: %w", err)
	}

	devices, err := s.store.ClicksByDevice(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clicks by device: %w", err)
	}

	return &domain.LinkStats{
		LinkID:         linkID,
		TotalClicks:    totals.TotalClicks,
		Conversions:    totals.Conversions,
		UniqueUsers:    totals.UniqueUsers,
		ConversionRate: domain.ConversionRate(totals.Conversions, totals.TotalClicks),
		ClicksByDevice: devices,
	}, nil
}

func (s *StatsService) GetChannelStats(ctx context.Context, channelID int64) (*domain.ChannelStats, error) {
	totals, err := s.store.ChannelTotals(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel totals: %w", err)
	}

	rows, err := s.store.ChannelSourceBreakdown(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel sources: %w", err)
	}

	return &domain.ChannelStats{
		ChannelID:          channelID,
		TotalLinks:         totals.TotalLinks,
		TotalClicks:        totals.TotalClicks,
		TotalConversions:   totals.TotalConversions,
		ConversionRate:     domain.ConversionRate(totals.TotalConversions, totals.TotalClicks),
		TotalSubscribers:   totals.TotalSubscribers,
		TrackedSubscribers: totals.TrackedSubscribers,
		OrganicSubscribers: totals.TotalSubscribers - totals.TrackedSubscribers,
		ActiveSubscribers:  totals.ActiveSubscribers,
		Sources:            sourceStats(rows),
	}, nil
}

// sourceStats подписывает пустой источник как прямой трафик и сортирует
// по кликам по убыванию, при равенстве по имени.
func sourceStats(rows []domain.SourceTotals) []domain.SourceStats {
	merged := make(map[string]*domain.SourceStats, len(rows))
	for _, row := range rows {
		name := row.Source
		if name == "" {
			name = domain.DirectTrafficSource
		}
		st, ok := merged[name]
		if !ok {
			st = &domain.SourceStats{Source: name}
			merged[name] = st
		}
		st.Clicks += row.Clicks
		st.Conversions += row.Conversions
	}

	sources := make([]domain.SourceStats, 0, len(merged))
	for _, st := range merged {
		st.ConversionRate = domain.ConversionRate(st.Conversions, st.Clicks)
		sources = append(sources, *st)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Clicks != sources[j].Clicks {
			return sources[i].Clicks > sources[j].Clicks
		}
		return sources[i].Source < sources[j].Source
	})
	return sources
}

// GetDailyStats возвращает статистику по дням за последние days суток, свежие дни первыми.
// days <= 0 заменяется значением по умолчанию, слишком большое окно обрезается.
func (s *StatsService) GetDailyStats(ctx context.Context, channelID int64, days int) (*domain.DailyStats, error) {
	days = s.window(days)
	since := s.now().AddDate(0, 0, -days)

	rows, err := s.store.ChannelDailyTotals(ctx, channelID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}

	stats := make([]domain.DailyStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.DailyStat{
			Date:           row.Day,
			Clicks:         row.Clicks,
			Conversions:    row.Conversions,
			ConversionRate: domain.ConversionRate(row.Conversions, row.Clicks),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Date > stats[j].Date })

	return &domain.DailyStats{
		ChannelID: channelID,
		Days:      days,
		Stats:     stats,
	}, nil
}

func (s *StatsService) window(days int) int {
	defDays, maxDays := s.config.DailyWindowDays, s.config.MaxDailyWindowDays
	if defDays <= 0 {
		defDays = defaultDailyWindowDays
	}
	if maxDays <= 0 {
		maxDays = defaultMaxDailyWindowDays
	}
	if days <= 0 {
		days = defDays
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}
