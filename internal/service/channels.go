package service

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ChannelService регистрирует каналы и проверяет права администраторов
type ChannelService struct {
	store repository.ChannelStore
	log   *zap.Logger
}

func NewChannelService(store repository.ChannelStore, log *zap.Logger) *ChannelService {
	return &ChannelService{store: store, log: log}
}

// RegisterChannel создает или обновляет канал и добавляет администратора.
// Повторная регистрация того же администратора ничего не меняет.
func (s *ChannelService) RegisterChannel(ctx context.Context, channel *domain.Channel, adminUserID int64) error {
	if channel.ID == 0 || adminUserID <= 0 {
		return fmt.Errorf("%w: channel_id and admin_user_id are required", ErrInvalidArgument)
	}
	if channel.Username != nil {
		username := strings.TrimPrefix(*channel.Username, "@")
		channel.Username = nonEmpty(&username)
	}

	if err := s.store.UpsertChannel(ctx, channel); err != nil {
		return fmt.Errorf("failed to save channel: %w", err)
	}
	if err := s.store.AddChannelAdmin(ctx, channel.ID, adminUserID); err != nil {
		return fmt.Errorf("failed to add channel admin: %w", err)
	}

	s.log.Info("channel registered", zap.Int64("channel_id", channel.ID), zap.Int64("admin_user_id", adminUserID))
	return nil
}

func (s *ChannelService) IsAdmin(ctx context.Context, channelID, userID int64) (bool, error) {
	ok, err := s.store.IsChannelAdmin(ctx, channelID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check channel admin: %w", err)
	}
	return ok, nil
}
