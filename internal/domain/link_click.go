package domain

import "time"

// LinkClick представляет один переход по отслеживаемой ссылке
type LinkClick struct {
	ID                    int64      `gorm:"primaryKey;column:id" json:"id"`
	LinkID                int64      `gorm:"column:link_id;not null;index" json:"link_id"`
	UserID                *int64     `gorm:"column:user_id;index" json:"user_id,omitempty"`
	IPAddress             *string    `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent             *string    `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	Referer               *string    `gorm:"column:referer;size:500" json:"referer,omitempty"`
	DeviceType            *string    `gorm:"column:device_type;size:10" json:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	Browser               *string    `gorm:"column:browser;size:50" json:"browser,omitempty"`
	OS                    *string    `gorm:"column:os;size:50" json:"os,omitempty"`
	ClickedAt             time.Time  `gorm:"column:clicked_at;not null;index" json:"clicked_at"`
	ConvertedToSubscriber bool       `gorm:"column:converted_to_subscriber;not null;default:false" json:"converted_to_subscriber"`
	ConversionDate        *time.Time `gorm:"column:conversion_date" json:"conversion_date,omitempty"`

	// Relationships
	Link *TrackingLink `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (LinkClick) TableName() string {
	return "link_clicks"
}

// GetDeviceType возвращает тип устройства или "unknown"
func (c *LinkClick) GetDeviceType() string {
	if c.DeviceType != nil {
		return *c.DeviceType
	}
	return "unknown"
}

// ClickAttribution связывает клик с кампанией ссылки, по которой он был сделан
type ClickAttribution struct {
	ClickID   int64
	LinkID    int64
	ChannelID int64
	Campaign  Campaign
}
