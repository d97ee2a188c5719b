package domain

import "time"

// Channel представляет Telegram-канал. ID совпадает с chat id в Telegram.
type Channel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	Title     string    `gorm:"column:title;size:255;not null;default:''" json:"title"`
	Username  *string   `gorm:"column:username;size:64" json:"username,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName возвращает название таблицы для GORM
func (Channel) TableName() string {
	return "channels"
}

// ChannelAdmin дает пользователю доступ к ссылкам и статистике канала
type ChannelAdmin struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	ChannelID int64     `gorm:"column:channel_id;not null;uniqueIndex:idx_channel_admins_channel_user,priority:1" json:"channel_id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_channel_admins_channel_user,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName возвращает название таблицы для GORM
func (ChannelAdmin) TableName() string {
	return "channel_admins"
}
