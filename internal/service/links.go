package service

import (
	"ChannelTrack-Backend/internal/config"
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/events"
	"ChannelTrack-Backend/internal/lib/linkhash"
	"ChannelTrack-Backend/internal/metrics"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const defaultHashRetries = 5

// CreateLinkInput параметры новой ссылки
type CreateLinkInput struct {
	ChannelID int64
	PostID    *int64
	TargetURL string
	Campaign  domain.Campaign
}

// LinkService управляет отслеживаемыми ссылками
type LinkService struct {
	store     repository.LinkStore
	config    *config.Tracking
	publisher events.Publisher
	log       *zap.Logger
	newHash   func() (string, error)
}

func NewLinkService(store repository.LinkStore, cfg *config.Tracking, publisher events.Publisher, log *zap.Logger) *LinkService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &LinkService{
		store:     store,
		config:    cfg,
		publisher: publisher,
		log:       log,
		newHash:   linkhash.New,
	}
}

// CreateLink генерирует хеш и сохраняет ссылку, повторяя попытку при коллизии хеша
func (s *LinkService) CreateLink(ctx context.Context, in CreateLinkInput) (*domain.TrackingLink, error) {
	if in.ChannelID == 0 {
		return nil, fmt.Errorf("%w: channel_id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.TargetURL) == "" {
		return nil, fmt.Errorf("%w: target_url is required", ErrInvalidArgument)
	}

	retries := s.config.HashRetries
	if retries <= 0 {
		retries = defaultHashRetries
	}

	for i := 0; i < retries; i++ {
		hash, err := s.newHash()
		if err != nil {
			return nil, fmt.Errorf("failed to generate link hash: %w", err)
		}

		link := &domain.TrackingLink{
			LinkHash:  hash,
			ChannelID: in.ChannelID,
			PostID:    in.PostID,
			TargetURL: in.TargetURL,
			Campaign:  in.Campaign.Clone(),
			IsActive:  true,
		}

		err = s.store.CreateLink(ctx, link)
		if errors.Is(err, repository.ErrLinkHashExists) {
			s.log.Warn("link hash collision, retrying", zap.Int("attempt", i+1))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save link: %w", err)
		}

		metrics.ObserveLinkCreated()
		s.publisher.Publish(ctx, events.Event{
			Type:       events.TypeLinkCreated,
			Key:        channelKey(link.ChannelID),
			OccurredAt: link.CreatedAt,
			Payload: events.LinkCreated{
				LinkID:    link.ID,
				ChannelID: link.ChannelID,
				LinkHash:  link.LinkHash,
				Campaign:  link.Campaign.Clone(),
			},
		})

		return link, nil
	}

	return nil, fmt.Errorf("failed to generate unique link hash after %d attempts", retries)
}

// SetLinkActive включает или выключает ссылку и возвращает ее актуальное состояние
func (s *LinkService) SetLinkActive(ctx context.Context, linkID int64, active bool) (*domain.TrackingLink, error) {
	if err := s.store.SetLinkActive(ctx, linkID, active); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to toggle link: %w", err)
	}
	return s.GetLink(ctx, linkID)
}

// GetLink возвращает ссылку по id, в том числе выключенную
func (s *LinkService) GetLink(ctx context.Context, linkID int64) (*domain.TrackingLink, error) {
	link, err := s.store.GetLinkByID(ctx, linkID)
	if errors.Is(err, repository.ErrLinkNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

func (s *LinkService) ListChannelLinks(ctx context.Context, channelID int64) ([]*domain.TrackingLink, error) {
	links, err := s.store.ListChannelLinks(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel links: %w", err)
	}
	return links, nil
}

// TrackingURL собирает публичный адрес, по которому посетители попадают на редирект
func (s *LinkService) TrackingURL(hash string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/t/" + hash
}
