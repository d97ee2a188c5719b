// Package events описывает уведомления о трекинге, которые сервис отдает наружу.
package events

import (
	"ChannelTrack-Backend/internal/domain"
	"context"
	"time"
)

const (
	TypeLinkCreated      = "link.created"
	TypeClickTracked     = "click.tracked"
	TypeConversionMarked = "conversion.marked"
	TypeSubscriberJoined = "subscriber.joined"
	TypeSubscriberLeft   = "subscriber.left"
)

// Event конверт, который уходит в Kafka. Key задает партиционирование.
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher принимает события без ожидания доставки.
// Реализации не должны блокировать вызывающего.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop отбрасывает все события
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

type LinkCreated struct {
	LinkID    int64           `json:"link_id"`
	ChannelID int64           `json:"channel_id"`
	LinkHash  string          `json:"link_hash"`
	Campaign  domain.Campaign `json:"campaign"`
}

type ClickTracked struct {
	ClickID    int64  `json:"click_id"`
	LinkID     int64  `json:"link_id"`
	ChannelID  int64  `json:"channel_id"`
	UserID     *int64 `json:"user_id,omitempty"`
	DeviceType string `json:"device_type"`
}

type ConversionMarked struct {
	ClickID           int64 `json:"click_id"`
	UserID            int64 `json:"user_id"`
	ChannelID         int64 `json:"channel_id"`
	Attributed        bool  `json:"attributed"`
	SubscriberCreated bool  `json:"subscriber_created"`
}

type SubscriberChanged struct {
	ChannelID int64 `json:"channel_id"`
	UserID    int64 `json:"user_id"`
}
