package domain

import "time"

// ChannelSubscriber представляет вступление пользователя в канал.
// SourceLinkID == nil означает органическую подписку.
type ChannelSubscriber struct {
	ID            int64      `gorm:"primaryKey;column:id" json:"id"`
	ChannelID     int64      `gorm:"column:channel_id;not null;uniqueIndex:idx_channel_subscribers_channel_user,priority:1" json:"channel_id"`
	UserID        int64      `gorm:"column:user_id;not null;uniqueIndex:idx_channel_subscribers_channel_user,priority:2" json:"user_id"`
	SourceLinkID  *int64     `gorm:"column:source_link_id;index" json:"source_link_id,omitempty"`
	SourceClickID *int64     `gorm:"column:source_click_id" json:"source_click_id,omitempty"`
	Campaign      Campaign   `gorm:"embedded" json:"campaign"`
	JoinedAt      time.Time  `gorm:"column:joined_at;not null" json:"joined_at"`
	LeftAt        *time.Time `gorm:"column:left_at" json:"left_at,omitempty"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName возвращает название таблицы для GORM
func (ChannelSubscriber) TableName() string {
	return "channel_subscribers"
}

// IsTracked показывает, пришел ли подписчик по отслеживаемой ссылке
func (s *ChannelSubscriber) IsTracked() bool {
	return s.SourceLinkID != nil
}
