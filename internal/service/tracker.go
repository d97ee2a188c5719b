package service

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/events"
	"ChannelTrack-Backend/internal/metrics"
	"ChannelTrack-Backend/internal/repository"
	"ChannelTrack-Backend/pkg/useragent"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// TrackerStore набор хранилищ, с которыми работает Tracker
type TrackerStore interface {
	repository.LinkStore
	repository.ClickStore
	repository.SubscriberStore
}

// ClickContext необязательные данные о посетителе
type ClickContext struct {
	UserID    *int64
	IPAddress *string
	UserAgent *string
	Referer   *string
}

// ClickResult то, что нужно вызывающему для редиректа и последующей атрибуции
type ClickResult struct {
	ClickID   int64           `json:"click_id"`
	LinkID    int64           `json:"link_id"`
	ChannelID int64           `json:"channel_id"`
	PostID    *int64          `json:"post_id,omitempty"`
	TargetURL string          `json:"target_url"`
	Campaign  domain.Campaign `json:"campaign"`
}

// ConversionResult итог MarkConversion
type ConversionResult struct {
	// Attributed: клик найден и его кампания известна
	Attributed bool `json:"attributed"`
	// SubscriberCreated: строка подписчика создана этим вызовом
	SubscriberCreated bool `json:"subscriber_created"`
}

// Tracker записывает клики, конверсии, вступления и отписки
type Tracker struct {
	store     TrackerStore
	ua        *useragent.Parser
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewTracker(store TrackerStore, ua *useragent.Parser, publisher events.Publisher, log *zap.Logger) *Tracker {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Tracker{
		store:     store,
		ua:        ua,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// TrackClick записывает переход по активной ссылке. Каждый вызов создает новую строку.
func (t *Tracker) TrackClick(ctx context.Context, hash string, cc ClickContext) (*ClickResult, error) {
	if hash == "" {
		metrics.ObserveClick(metrics.ClickNotFound)
		return nil, ErrLinkNotFound
	}

	link, err := t.store.GetActiveLinkByHash(ctx, hash)
	if errors.Is(err, repository.ErrLinkNotFound) {
		metrics.ObserveClick(metrics.ClickNotFound)
		return nil, ErrLinkNotFound
	}
	if err != nil {
		metrics.ObserveClick(metrics.ClickFailed)
		return nil, fmt.Errorf("failed to resolve link: %w", err)
	}

	click := &domain.LinkClick{
		LinkID:    link.ID,
		UserID:    cc.UserID,
		IPAddress: nonEmpty(cc.IPAddress),
		UserAgent: nonEmpty(cc.UserAgent),
		Referer:   nonEmpty(cc.Referer),
		ClickedAt: t.now(),
	}
	if click.UserAgent != nil && t.ua != nil {
		info := t.ua.ParseUserAgent(*click.UserAgent)
		click.DeviceType = &info.DeviceType
		click.Browser = &info.Browser
		click.OS = &info.OS
	}

	if err := t.store.CreateClick(ctx, click); err != nil {
		metrics.ObserveClick(metrics.ClickFailed)
		return nil, fmt.Errorf("failed to record click: %w", err)
	}
	metrics.ObserveClick(metrics.ClickRecorded)

	t.publisher.Publish(ctx, events.Event{
		Type:       events.TypeClickTracked,
		Key:        channelKey(link.ChannelID),
		OccurredAt: click.ClickedAt,
		Payload: events.ClickTracked{
			ClickID:    click.ID,
			LinkID:     link.ID,
			ChannelID:  link.ChannelID,
			UserID:     click.UserID,
			DeviceType: click.GetDeviceType(),
		},
	})

	return &ClickResult{
		ClickID:   click.ID,
		LinkID:    link.ID,
		ChannelID: link.ChannelID,
		PostID:    link.PostID,
		TargetURL: link.TargetURL,
		Campaign:  link.Campaign.Clone(),
	}, nil
}

// MarkConversion помечает клик сконвертированным и создает подписчика с атрибуцией.
// Шаги не объединены в транзакцию: флаг клика может остаться выставленным,
// даже если вставка подписчика упала.
func (t *Tracker) MarkConversion(ctx context.Context, clickID, userID, channelID int64) (*ConversionResult, error) {
	if clickID <= 0 || userID <= 0 || channelID == 0 {
		return nil, fmt.Errorf("%w: click_id, user_id and channel_id are required", ErrInvalidArgument)
	}

	now := t.now()
	log := t.log.With(zap.Int64("click_id", clickID), zap.Int64("user_id", userID), zap.Int64("channel_id", channelID))

	if err := t.store.MarkClickConverted(ctx, clickID, now); err != nil {
		metrics.ObserveConversion(metrics.ConversionFailed)
		return nil, fmt.Errorf("failed to mark click converted: %w", err)
	}

	result := &ConversionResult{}

	attribution, err := t.store.GetClickAttribution(ctx, clickID)
	switch {
	case errors.Is(err, repository.ErrClickNotFound):
		log.Warn("conversion for unknown click, subscriber not attributed")
		metrics.ObserveConversion(metrics.ConversionOrphan)
		t.publishConversion(ctx, clickID, userID, channelID, result, now)
		return result, nil
	case err != nil:
		metrics.ObserveConversion(metrics.ConversionFailed)
		return nil, fmt.Errorf("failed to get click attribution: %w", err)
	}
	result.Attributed = true

	if attribution.ChannelID != channelID {
		log.Warn("click belongs to another channel", zap.Int64("link_channel_id", attribution.ChannelID))
	}

	created, err := t.store.AddSubscriber(ctx, &domain.ChannelSubscriber{
		ChannelID:     channelID,
		UserID:        userID,
		SourceLinkID:  &attribution.LinkID,
		SourceClickID: &attribution.ClickID,
		Campaign:      attribution.Campaign.Clone(),
		JoinedAt:      now,
		IsActive:      true,
	})
	if err != nil {
		metrics.ObserveConversion(metrics.ConversionFailed)
		return nil, fmt.Errorf("failed to add subscriber: %w", err)
	}
	result.SubscriberCreated = created

	if created {
		metrics.ObserveConversion(metrics.ConversionAttributed)
		log.Info("subscriber attributed", zap.Int64("link_id", attribution.LinkID))
	} else {
		metrics.ObserveConversion(metrics.ConversionDuplicate)
	}

	t.publishConversion(ctx, clickID, userID, channelID, result, now)
	return result, nil
}

func (t *Tracker) publishConversion(ctx context.Context, clickID, userID, channelID int64, result *ConversionResult, at time.Time) {
	t.publisher.Publish(ctx, events.Event{
		Type:       events.TypeConversionMarked,
		Key:        channelKey(channelID),
		OccurredAt: at,
		Payload: events.ConversionMarked{
			ClickID:           clickID,
			UserID:            userID,
			ChannelID:         channelID,
			Attributed:        result.Attributed,
			SubscriberCreated: result.SubscriberCreated,
		},
	})
}

// MarkUnsubscription помечает подписчика ушедшим. Возвращает false, если активной подписки не было.
func (t *Tracker) MarkUnsubscription(ctx context.Context, channelID, userID int64) (bool, error) {
	if userID <= 0 || channelID == 0 {
		return false, fmt.Errorf("%w: channel_id and user_id are required", ErrInvalidArgument)
	}

	now := t.now()
	changed, err := t.store.DeactivateSubscriber(ctx, channelID, userID, now)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate subscriber: %w", err)
	}
	if !changed {
		return false, nil
	}

	metrics.ObserveUnsubscription()
	t.publisher.Publish(ctx, events.Event{
		Type:       events.TypeSubscriberLeft,
		Key:        channelKey(channelID),
		OccurredAt: now,
		Payload:    events.SubscriberChanged{ChannelID: channelID, UserID: userID},
	})
	return true, nil
}

// RecordJoin фиксирует вступление без клика или возвращение ушедшего подписчика
func (t *Tracker) RecordJoin(ctx context.Context, channelID, userID int64) error {
	if userID <= 0 || channelID == 0 {
		return fmt.Errorf("%w: channel_id and user_id are required", ErrInvalidArgument)
	}

	now := t.now()
	if err := t.store.RecordJoin(ctx, channelID, userID, now); err != nil {
		return fmt.Errorf("failed to record join: %w", err)
	}

	t.publisher.Publish(ctx, events.Event{
		Type:       events.TypeSubscriberJoined,
		Key:        channelKey(channelID),
		OccurredAt: now,
		Payload:    events.SubscriberChanged{ChannelID: channelID, UserID: userID},
	})
	return nil
}

func channelKey(channelID int64) string {
	return strconv.FormatInt(channelID, 10)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
