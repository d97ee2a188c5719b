package memory

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

type subscriberKey struct {
	channelID int64
	userID    int64
}

// MemStorage хранит все данные в памяти процесса. Используется в тестах
// и при storage: memory для локальной разработки.
type MemStorage struct {
	mu sync.RWMutex

	links       map[int64]*domain.TrackingLink
	linksByHash map[string]int64
	clicks      map[int64]*domain.LinkClick
	subscribers map[subscriberKey]*domain.ChannelSubscriber
	channels    map[int64]*domain.Channel
	admins      map[subscriberKey]struct{}

	linkCounter       int64
	clickCounter      int64
	subscriberCounter int64

	now func() time.Time
}

func New() *MemStorage {
	return &MemStorage{
		links:       make(map[int64]*domain.TrackingLink),
		linksByHash: make(map[string]int64),
		clicks:      make(map[int64]*domain.LinkClick),
		subscribers: make(map[subscriberKey]*domain.ChannelSubscriber),
		channels:    make(map[int64]*domain.Channel),
		admins:      make(map[subscriberKey]struct{}),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemStorage) Ping(_ context.Context) error {
	return nil
}

// --- Link Methods ---

func (s *MemStorage) CreateLink(_ context.Context, link *domain.TrackingLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.linksByHash[link.LinkHash]; exists {
		return repository.ErrLinkHashExists
	}

	s.linkCounter++
	now := s.now()
	link.ID = s.linkCounter
	link.CreatedAt = now
	link.UpdatedAt = now

	stored := *link
	stored.Campaign = link.Campaign.Clone()
	s.links[stored.ID] = &stored
	s.linksByHash[stored.LinkHash] = stored.ID
	return nil
}

func (s *MemStorage) GetLinkByID(_ context.Context, id int64) (*domain.TrackingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return copyLink(link), nil
}

func (s *MemStorage) GetActiveLinkByHash(_ context.Context, hash string) (*domain.TrackingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.linksByHash[hash]
	if !ok || !s.links[id].IsActive {
		return nil, repository.ErrLinkNotFound
	}
	return copyLink(s.links[id]), nil
}

func (s *MemStorage) LinkHashExists(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.linksByHash[hash]
	return ok, nil
}

func (s *MemStorage) SetLinkActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[id]
	if !ok {
		return repository.ErrLinkNotFound
	}
	link.IsActive = active
	link.UpdatedAt = s.now()
	return nil
}

func (s *MemStorage) ListChannelLinks(_ context.Context, channelID int64) ([]*domain.TrackingLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*domain.TrackingLink, 0)
	for _, link := range s.links {
		if link.ChannelID == channelID {
			links = append(links, copyLink(link))
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID > links[j].ID })
	return links, nil
}

// --- Click Methods ---

func (s *MemStorage) CreateClick(_ context.Context, click *domain.LinkClick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[click.LinkID]; !ok {
		return repository.ErrLinkNotFound
	}
	if click.ClickedAt.IsZero() {
		click.ClickedAt = s.now()
	}
	click.ClickedAt = click.ClickedAt.UTC()

	s.clickCounter++
	click.ID = s.clickCounter

	stored := *click
	stored.Link = nil
	s.clicks[stored.ID] = &stored
	return nil
}

func (s *MemStorage) MarkClickConverted(_ context.Context, clickID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Как и UPDATE без совпадений: неизвестный клик не ошибка
	if click, ok := s.clicks[clickID]; ok {
		at = at.UTC()
		click.ConvertedToSubscriber = true
		click.ConversionDate = &at
	}
	return nil
}

func (s *MemStorage) GetClickAttribution(_ context.Context, clickID int64) (*domain.ClickAttribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	click, ok := s.clicks[clickID]
	if !ok {
		return nil, repository.ErrClickNotFound
	}
	link, ok := s.links[click.LinkID]
	if !ok {
		return nil, repository.ErrClickNotFound
	}

	return &domain.ClickAttribution{
		ClickID:   click.ID,
		LinkID:    link.ID,
		ChannelID: link.ChannelID,
		Campaign:  link.Campaign.Clone(),
	}, nil
}

// --- Subscriber Methods ---

func (s *MemStorage) AddSubscriber(_ context.Context, sub *domain.ChannelSubscriber) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subscriberKey{sub.ChannelID, sub.UserID}
	if _, exists := s.subscribers[key]; exists {
		return false, nil
	}

	if sub.JoinedAt.IsZero() {
		sub.JoinedAt = s.now()
	}
	sub.IsActive = true
	s.subscriberCounter++
	sub.ID = s.subscriberCounter

	stored := *sub
	stored.Campaign = sub.Campaign.Clone()
	s.subscribers[key] = &stored
	return true, nil
}

func (s *MemStorage) RecordJoin(_ context.Context, channelID, userID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subscriberKey{channelID, userID}
	if sub, exists := s.subscribers[key]; exists {
		sub.IsActive = true
		sub.LeftAt = nil
		return nil
	}

	s.subscriberCounter++
	s.subscribers[key] = &domain.ChannelSubscriber{
		ID:        s.subscriberCounter,
		ChannelID: channelID,
		UserID:    userID,
		JoinedAt:  at.UTC(),
		IsActive:  true,
	}
	return nil
}

func (s *MemStorage) DeactivateSubscriber(_ context.Context, channelID, userID int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscribers[subscriberKey{channelID, userID}]
	if !ok || !sub.IsActive {
		return false, nil
	}
	at = at.UTC()
	sub.IsActive = false
	sub.LeftAt = &at
	return true, nil
}

// --- Channel Methods ---

func (s *MemStorage) UpsertChannel(_ context.Context, channel *domain.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.channels[channel.ID]; ok {
		existing.Title = channel.Title
		existing.Username = channel.Username
		existing.UpdatedAt = now
		return nil
	}

	channel.CreatedAt = now
	channel.UpdatedAt = now
	stored := *channel
	s.channels[channel.ID] = &stored
	return nil
}

func (s *MemStorage) GetChannel(_ context.Context, id int64) (*domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.channels[id]
	if !ok {
		return nil, repository.ErrChannelNotFound
	}
	c := *channel
	return &c, nil
}

func (s *MemStorage) AddChannelAdmin(_ context.Context, channelID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[subscriberKey{channelID, userID}] = struct{}{}
	return nil
}

func (s *MemStorage) IsChannelAdmin(_ context.Context, channelID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[subscriberKey{channelID, userID}]
	return ok, nil
}

// --- Stats Methods ---

func (s *MemStorage) LinkClickTotals(_ context.Context, linkID int64) (*domain.ClickTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := &domain.ClickTotals{}
	users := make(map[int64]struct{})
	for _, click := range s.clicks {
		if click.LinkID != linkID {
			continue
		}
		totals.TotalClicks++
		if click.ConvertedToSubscriber {
			totals.Conversions++
		}
		if click.UserID != nil {
			users[*click.UserID] = struct{}{}
		}
	}
	totals.UniqueUsers = int64(len(users))
	return totals, nil
}

func (s *MemStorage) ClicksByDevice(_ context.Context, linkID int64) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clicksByDevice := make(map[string]int64)
	for _, click := range s.clicks {
		if click.LinkID == linkID {
			clicksByDevice[click.GetDeviceType()]++
		}
	}
	return clicksByDevice, nil
}

func (s *MemStorage) ChannelTotals(_ context.Context, channelID int64) (*domain.ChannelTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := &domain.ChannelTotals{}
	for _, link := range s.links {
		if link.ChannelID == channelID {
			totals.TotalLinks++
		}
	}
	for _, click := range s.channelClicks(channelID) {
		totals.TotalClicks++
		if click.ConvertedToSubscriber {
			totals.TotalConversions++
		}
	}
	for _, sub := range s.subscribers {
		if sub.ChannelID != channelID {
			continue
		}
		totals.TotalSubscribers++
		if sub.IsTracked() {
			totals.TrackedSubscribers++
		}
		if sub.IsActive {
			totals.ActiveSubscribers++
		}
	}
	return totals, nil
}

func (s *MemStorage) ChannelSourceBreakdown(_ context.Context, channelID int64) ([]domain.SourceTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySource := make(map[string]*domain.SourceTotals)
	for _, click := range s.channelClicks(channelID) {
		source := s.links[click.LinkID].Campaign.SourceOrDefault("")
		row, ok := bySource[source]
		if !ok {
			row = &domain.SourceTotals{Source: source}
			bySource[source] = row
		}
		row.Clicks++
		if click.ConvertedToSubscriber {
			row.Conversions++
		}
	}

	rows := make([]domain.SourceTotals, 0, len(bySource))
	for _, row := range bySource {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Clicks != rows[j].Clicks {
			return rows[i].Clicks > rows[j].Clicks
		}
		return rows[i].Source < rows[j].Source
	})
	return rows, nil
}

func (s *MemStorage) ChannelDailyTotals(_ context.Context, channelID int64, since time.Time) ([]domain.DailyTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := make(map[string]*domain.DailyTotals)
	for _, click := range s.channelClicks(channelID) {
		if click.ClickedAt.Before(since) {
			continue
		}
		day := click.ClickedAt.UTC().Format(time.DateOnly)
		row, ok := byDay[day]
		if !ok {
			row = &domain.DailyTotals{Day: day}
			byDay[day] = row
		}
		row.Clicks++
		if click.ConvertedToSubscriber {
			row.Conversions++
		}
	}

	rows := make([]domain.DailyTotals, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day > rows[j].Day })
	return rows, nil
}

// channelClicks возвращает клики по ссылкам канала; вызывать под блокировкой
func (s *MemStorage) channelClicks(channelID int64) []*domain.LinkClick {
	var clicks []*domain.LinkClick
	for _, click := range s.clicks {
		if link, ok := s.links[click.LinkID]; ok && link.ChannelID == channelID {
			clicks = append(clicks, click)
		}
	}
	return clicks
}

func copyLink(link *domain.TrackingLink) *domain.TrackingLink {
	c := *link
	c.Campaign = link.Campaign.Clone()
	return &c
}
