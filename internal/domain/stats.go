package domain

import "math"

// DirectTrafficSource обозначает клики по ссылкам без utm_source
const DirectTrafficSource = "direct traffic"

// ClickTotals сырые агрегаты по кликам одной ссылки
type ClickTotals struct {
	TotalClicks int64 `gorm:"column:total_clicks"`
	Conversions int64 `gorm:"column:conversions"`
	UniqueUsers int64 `gorm:"column:unique_users"`
}

// ChannelTotals сырые агрегаты по каналу
type ChannelTotals struct {
	TotalLinks         int64 `gorm:"column:total_links"`
	TotalClicks        int64 `gorm:"column:total_clicks"`
	TotalConversions   int64 `gorm:"column:total_conversions"`
	TotalSubscribers   int64 `gorm:"column:total_subscribers"`
	TrackedSubscribers int64 `gorm:"column:tracked_subscribers"`
	ActiveSubscribers  int64 `gorm:"column:active_subscribers"`
}

// SourceTotals агрегаты по одному utm_source
type SourceTotals struct {
	Source      string `gorm:"column:source"`
	Clicks      int64  `gorm:"column:clicks"`
	Conversions int64  `gorm:"column:conversions"`
}

// DailyTotals агрегаты за один календарный день (UTC), Day в формате 2006-01-02
type DailyTotals struct {
	Day         string `gorm:"column:day"`
	Clicks      int64  `gorm:"column:clicks"`
	Conversions int64  `gorm:"column:conversions"`
}

// LinkStats статистика по ссылке
type LinkStats struct {
	LinkID         int64            `json:"link_id"`
	TotalClicks    int64            `json:"total_clicks"`
	Conversions    int64            `json:"conversions"`
	UniqueUsers    int64            `json:"unique_users"`
	ConversionRate float64          `json:"conversion_rate"`
	ClicksByDevice map[string]int64 `json:"clicks_by_device"`
}

// SourceStats статистика по источнику трафика
type SourceStats struct {
	Source         string  `json:"source"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ChannelStats статистика по каналу
type ChannelStats struct {
	ChannelID          int64         `json:"channel_id"`
	TotalLinks         int64         `json:"total_links"`
	TotalClicks        int64         `json:"total_clicks"`
	TotalConversions   int64         `json:"total_conversions"`
	ConversionRate     float64       `json:"conversion_rate"`
	TotalSubscribers   int64         `json:"total_subscribers"`
	TrackedSubscribers int64         `json:"tracked_subscribers"`
	OrganicSubscribers int64         `json:"organic_subscribers"`
	ActiveSubscribers  int64         `json:"active_subscribers"`
	Sources            []SourceStats `json:"sources"`
}

// DailyStat статистика за день
type DailyStat struct {
	Date           string  `json:"date"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DailyStats статистика канала по дням, самый свежий день первым
type DailyStats struct {
	ChannelID int64       `json:"channel_id"`
	Days      int         `json:"days"`
	Stats     []DailyStat `json:"stats"`
}

// ConversionRate считает конверсию в процентах с округлением до сотых.
// При нуле кликов возвращает 0.
func ConversionRate(conversions, clicks int64) float64 {
	if clicks <= 0 || conversions <= 0 {
		return 0
	}
	if conversions >= clicks {
		return 100
	}
	rate := float64(conversions) / float64(clicks) * 100
	return math.Round(rate*100) / 100
}
