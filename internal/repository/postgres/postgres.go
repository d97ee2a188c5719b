package postgres

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStorage реализует repository.Storage поверх GORM.
// Запросы совместимы и с SQLite, который используется в тестах.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Ping проверяет соединение с базой
func (s *PostgresStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// --- Link Methods ---

// CreateLink сохраняет новую отслеживаемую ссылку
func (s *PostgresStorage) CreateLink(ctx context.Context, link *domain.TrackingLink) error {
	exists, err := s.LinkHashExists(ctx, link.LinkHash)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrLinkHashExists
	}

	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrLinkHashExists
		}
		s.log.Error("failed to save link", zap.Int64("channel_id", link.ChannelID), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new tracking link", zap.Int64("link_id", link.ID), zap.Int64("channel_id", link.ChannelID))
	return nil
}

// GetLinkByID получает ссылку по id независимо от активности
func (s *PostgresStorage) GetLinkByID(ctx context.Context, id int64) (*domain.TrackingLink, error) {
	var link domain.TrackingLink

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link by id", zap.Int64("link_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// GetActiveLinkByHash получает активную ссылку по хешу
func (s *PostgresStorage) GetActiveLinkByHash(ctx context.Context, hash string) (*domain.TrackingLink, error) {
	var link domain.TrackingLink

	err := s.db.WithContext(ctx).Where("link_hash = ? AND is_active = ?", hash, true).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLinkNotFound
	}
	if err != nil {
		s.log.Error("failed to get link by hash", zap.String("link_hash", hash), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// LinkHashExists проверяет, занят ли хеш
func (s *PostgresStorage) LinkHashExists(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.TrackingLink{}).Where("link_hash = ?", hash).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check link hash existence", zap.String("link_hash", hash), zap.Error(err))
		return false, fmt.Errorf("failed to check link hash: %w", err)
	}

	return count > 0, nil
}

// SetLinkActive включает или выключает прием кликов по ссылке
func (s *PostgresStorage) SetLinkActive(ctx context.Context, id int64, active bool) error {
	result := s.db.WithContext(ctx).Model(&domain.TrackingLink{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		s.log.Error("failed to toggle link", zap.Int64("link_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to toggle link: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	s.log.Info("toggled link", zap.Int64("link_id", id), zap.Bool("is_active", active))
	return nil
}

// ListChannelLinks возвращает ссылки канала, новые первыми
func (s *PostgresStorage) ListChannelLinks(ctx context.Context, channelID int64) ([]*domain.TrackingLink, error) {
	var links []*domain.TrackingLink

	err := s.db.WithContext(ctx).Where("channel_id = ?", channelID).
		Order("created_at DESC, id DESC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list channel links", zap.Int64("channel_id", channelID), zap.Error(err))
		return nil, fmt.Errorf("failed to list channel links: %w", err)
	}

	return links, nil
}

// --- Click Methods ---

// CreateClick записывает клик. clicked_at проставляется сервером, если не задан.
func (s *PostgresStorage) CreateClick(ctx context.Context, click *domain.LinkClick) error {
	if click.ClickedAt.IsZero() {
		click.ClickedAt = s.now()
	}
	click.ClickedAt = click.ClickedAt.UTC()

	if err := s.db.WithContext(ctx).Create(click).Error; err != nil {
		s.log.Error("failed to create click record", zap.Int64("link_id", click.LinkID), zap.Error(err))
		return fmt.Errorf("failed to create click: %w", err)
	}

	return nil
}

// MarkClickConverted помечает клик сконвертированным.
// Повторный вызов перезаписывает conversion_date.
func (s *PostgresStorage) MarkClickConverted(ctx context.Context, clickID int64, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&domain.LinkClick{}).
		Where("id = ?", clickID).
		Updates(map[string]interface{}{
			"converted_to_subscriber": true,
			"conversion_date":         at.UTC(),
		}).Error
	if err != nil {
		s.log.Error("failed to mark click converted", zap.Int64("click_id", clickID), zap.Error(err))
		return fmt.Errorf("failed to mark click converted: %w", err)
	}

	return nil
}

// GetClickAttribution возвращает кампанию ссылки, по которой был сделан клик
func (s *PostgresStorage) GetClickAttribution(ctx context.Context, clickID int64) (*domain.ClickAttribution, error) {
	var row struct {
		ClickID   int64   `gorm:"column:click_id"`
		LinkID    int64   `gorm:"column:link_id"`
		ChannelID int64   `gorm:"column:channel_id"`
		Source    *string `gorm:"column:utm_source"`
		Medium    *string `gorm:"column:utm_medium"`
		Campaign  *string `gorm:"column:utm_campaign"`
		Term      *string `gorm:"column:utm_term"`
		Content   *string `gorm:"column:utm_content"`
		Tag       *string `gorm:"column:tag"`
	}

	result := s.db.WithContext(ctx).
		Table("link_clicks AS c").
		Select("c.id AS click_id, c.link_id, l.channel_id, l.utm_source, l.utm_medium, l.utm_campaign, l.utm_term, l.utm_content, l.tag").
		Joins("JOIN tracking_links AS l ON l.id = c.link_id").
		Where("c.id = ?", clickID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		s.log.Error("failed to get click attribution", zap.Int64("click_id", clickID), zap.Error(result.Error))
		return nil, fmt.Errorf("failed to get click attribution: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrClickNotFound
	}

	return &domain.ClickAttribution{
		ClickID:   row.ClickID,
		LinkID:    row.LinkID,
		ChannelID: row.ChannelID,
		Campaign: domain.Campaign{
			Source:   row.Source,
			Medium:   row.Medium,
			Campaign: row.Campaign,
			Term:     row.Term,
			Content:  row.Content,
			Tag:      row.Tag,
		},
	}, nil
}

// --- Subscriber Methods ---

var subscriberKey = []clause.Column{{Name: "channel_id"}, {Name: "user_id"}}

// AddSubscriber вставляет подписчика; конфликт по (channel_id, user_id) поглощается
func (s *PostgresStorage) AddSubscriber(ctx context.Context, sub *domain.ChannelSubscriber) (bool, error) {
	if sub.JoinedAt.IsZero() {
		sub.JoinedAt = s.now()
	}
	sub.IsActive = true

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: subscriberKey, DoNothing: true}).
		Create(sub)
	if result.Error != nil {
		s.log.Error("failed to add subscriber",
			zap.Int64("channel_id", sub.ChannelID),
			zap.Int64("user_id", sub.UserID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to add subscriber: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// RecordJoin фиксирует органическое вступление. Атрибуция существующей строки не меняется.
func (s *PostgresStorage) RecordJoin(ctx context.Context, channelID, userID int64, at time.Time) error {
	sub := domain.ChannelSubscriber{
		ChannelID: channelID,
		UserID:    userID,
		JoinedAt:  at.UTC(),
		IsActive:  true,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: subscriberKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_active": true,
				"left_at":   nil,
			}),
		}).
		Create(&sub).Error
	if err != nil {
		s.log.Error("failed to record join", zap.Int64("channel_id", channelID), zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to record join: %w", err)
	}

	return nil
}

// DeactivateSubscriber помечает активного подписчика ушедшим
func (s *PostgresStorage) DeactivateSubscriber(ctx context.Context, channelID, userID int64, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&domain.ChannelSubscriber{}).
		Where("channel_id = ? AND user_id = ? AND is_active = ?", channelID, userID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"left_at":   at.UTC(),
		})
	if result.Error != nil {
		s.log.Error("failed to deactivate subscriber", zap.Int64("channel_id", channelID), zap.Int64("user_id", userID), zap.Error(result.Error))
		return false, fmt.Errorf("failed to deactivate subscriber: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// --- Channel Methods ---

// UpsertChannel создает канал или обновляет его название
func (s *PostgresStorage) UpsertChannel(ctx context.Context, channel *domain.Channel) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "username", "updated_at"}),
		}).
		Create(channel).Error
	if err != nil {
		s.log.Error("failed to upsert channel", zap.Int64("channel_id", channel.ID), zap.Error(err))
		return fmt.Errorf("failed to upsert channel: %w", err)
	}

	return nil
}

// GetChannel получает канал по id
func (s *PostgresStorage) GetChannel(ctx context.Context, id int64) (*domain.Channel, error) {
	var channel domain.Channel

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrChannelNotFound
	}
	if err != nil {
		s.log.Error("failed to get channel", zap.Int64("channel_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &channel, nil
}

// AddChannelAdmin добавляет администратора; дубликаты поглощаются
func (s *PostgresStorage) AddChannelAdmin(ctx context.Context, channelID, userID int64) error {
	admin := domain.ChannelAdmin{ChannelID: channelID, UserID: userID}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&admin).Error
	if err != nil {
		s.log.Error("failed to add channel admin", zap.Int64("channel_id", channelID), zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to add channel admin: %w", err)
	}

	return nil
}

// IsChannelAdmin проверяет права пользователя на канал
func (s *PostgresStorage) IsChannelAdmin(ctx context.Context, channelID, userID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ChannelAdmin{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to check channel admin", zap.Int64("channel_id", channelID), zap.Int64("user_id", userID), zap.Error(err))
		return false, fmt.Errorf("failed to check channel admin: %w", err)
	}

	return count > 0, nil
}
