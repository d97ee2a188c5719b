package repository

import (
	"ChannelTrack-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrLinkNotFound    = errors.New("tracking link not found")
	ErrLinkHashExists  = errors.New("link hash already exists")
	ErrClickNotFound   = errors.New("click not found")
	ErrChannelNotFound = errors.New("channel not found")
)

// LinkStore хранит отслеживаемые ссылки
type LinkStore interface {
	CreateLink(ctx context.Context, link *domain.TrackingLink) error
	GetLinkByID(ctx context.Context, id int64) (*domain.TrackingLink, error)
	// GetActiveLinkByHash возвращает ErrLinkNotFound для неизвестных и выключенных ссылок
	GetActiveLinkByHash(ctx context.Context, hash string) (*domain.TrackingLink, error)
	LinkHashExists(ctx context.Context, hash string) (bool, error)
	SetLinkActive(ctx context.Context, id int64, active bool) error
	ListChannelLinks(ctx context.Context, channelID int64) ([]*domain.TrackingLink, error)
}

// ClickStore хранит клики
type ClickStore interface {
	CreateClick(ctx context.Context, click *domain.LinkClick) error
	// MarkClickConverted выставляет флаг конверсии без проверки текущего состояния
	MarkClickConverted(ctx context.Context, clickID int64, at time.Time) error
	GetClickAttribution(ctx context.Context, clickID int64) (*domain.ClickAttribution, error)
}

// SubscriberStore хранит подписчиков каналов
type SubscriberStore interface {
	// AddSubscriber вставляет строку, если пары (channel_id, user_id) еще нет.
	// Возвращает false, если подписчик уже существовал.
	AddSubscriber(ctx context.Context, sub *domain.ChannelSubscriber) (bool, error)
	// RecordJoin вставляет органического подписчика или реактивирует ушедшего
	RecordJoin(ctx context.Context, channelID, userID int64, at time.Time) error
	DeactivateSubscriber(ctx context.Context, channelID, userID int64, at time.Time) (bool, error)
}

// ChannelStore хранит каналы и их администраторов
type ChannelStore interface {
	UpsertChannel(ctx context.Context, channel *domain.Channel) error
	GetChannel(ctx context.Context, id int64) (*domain.Channel, error)
	AddChannelAdmin(ctx context.Context, channelID, userID int64) error
	IsChannelAdmin(ctx context.Context, channelID, userID int64) (bool, error)
}

// StatsStore считает агрегаты по кликам и подписчикам
type StatsStore interface {
	LinkClickTotals(ctx context.Context, linkID int64) (*domain.ClickTotals, error)
	ClicksByDevice(ctx context.Context, linkID int64) (map[string]int64, error)
	ChannelTotals(ctx context.Context, channelID int64) (*domain.ChannelTotals, error)
	ChannelSourceBreakdown(ctx context.Context, channelID int64) ([]domain.SourceTotals, error)
	ChannelDailyTotals(ctx context.Context, channelID int64, since time.Time) ([]domain.DailyTotals, error)
}

type Storage interface {
	LinkStore
	ClickStore
	SubscriberStore
	ChannelStore
	StatsStore

	Ping(ctx context.Context) error
}
