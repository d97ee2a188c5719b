package domain

import "time"

// TrackingLink представляет отслеживаемую ссылку рекламной кампании канала
type TrackingLink struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	LinkHash  string    `gorm:"column:link_hash;size:64;uniqueIndex;not null" json:"link_hash"`
	ChannelID int64     `gorm:"column:channel_id;not null;index" json:"channel_id"`
	PostID    *int64    `gorm:"column:post_id" json:"post_id,omitempty"`
	TargetURL string    `gorm:"column:target_url;size:500;not null;default:''" json:"target_url"`
	Campaign  Campaign  `gorm:"embedded" json:"campaign"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName возвращает название таблицы для GORM
func (TrackingLink) TableName() string {
	return "tracking_links"
}
