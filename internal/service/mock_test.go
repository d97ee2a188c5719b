package service

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/events"
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of repository.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStorage) CreateLink(ctx context.Context, link *domain.TrackingLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockStorage) GetLinkByID(ctx context.Context, id int64) (*domain.TrackingLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingLink), args.Error(1)
}

func (m *MockStorage) GetActiveLinkByHash(ctx context.Context, hash string) (*domain.TrackingLink, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingLink), args.Error(1)
}

func (m *MockStorage) LinkHashExists(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetLinkActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockStorage) ListChannelLinks(ctx context.Context, channelID int64) ([]*domain.TrackingLink, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).([]*domain.TrackingLink), args.Error(1)
}

func (m *MockStorage) CreateClick(ctx context.Context, click *domain.LinkClick) error {
	return m.Called(ctx, click).Error(0)
}

func (m *MockStorage) MarkClickConverted(ctx context.Context, clickID int64, at time.Time) error {
	return m.Called(ctx, clickID, at).Error(0)
}

func (m *MockStorage) GetClickAttribution(ctx context.Context, clickID int64) (*domain.ClickAttribution, error) {
	args := m.Called(ctx, clickID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickAttribution), args.Error(1)
}

func (m *MockStorage) AddSubscriber(ctx context.Context, sub *domain.ChannelSubscriber) (bool, error) {
	args := m.Called(ctx, sub)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) RecordJoin(ctx context.Context, channelID, userID int64, at time.Time) error {
	return m.Called(ctx, channelID, userID, at).Error(0)
}

func (m *MockStorage) DeactivateSubscriber(ctx context.Context, channelID, userID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, channelID, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) UpsertChannel(ctx context.Context, channel *domain.Channel) error {
	return m.Called(ctx, channel).Error(0)
}

func (m *MockStorage) GetChannel(ctx context.Context, id int64) (*domain.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Channel), args.Error(1)
}

func (m *MockStorage) AddChannelAdmin(ctx context.Context, channelID, userID int64) error {
	return m.Called(ctx, channelID, userID).Error(0)
}

func (m *MockStorage) IsChannelAdmin(ctx context.Context, channelID, userID int64) (bool, error) {
	args := m.Called(ctx, channelID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) LinkClickTotals(ctx context.Context, linkID int64) (*domain.ClickTotals, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickTotals), args.Error(1)
}

func (m *MockStorage) ClicksByDevice(ctx context.Context, linkID int64) (map[string]int64, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockStorage) ChannelTotals(ctx context.Context, channelID int64) (*domain.ChannelTotals, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelTotals), args.Error(1)
}

func (m *MockStorage) ChannelSourceBreakdown(ctx context.Context, channelID int64) ([]domain.SourceTotals, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).([]domain.SourceTotals), args.Error(1)
}

func (m *MockStorage) ChannelDailyTotals(ctx context.Context, channelID int64, since time.Time) ([]domain.DailyTotals, error) {
	args := m.Called(ctx, channelID, since)
	return args.Get(0).([]domain.DailyTotals), args.Error(1)
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
