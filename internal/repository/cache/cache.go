// Package cache кэширует разрешение хешей ссылок в Redis.
package cache

import (
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "link:hash:"

// CachedStorage оборачивает repository.Storage и кэширует только активные ссылки.
// Ошибки Redis не ломают запрос: чтение уходит в хранилище.
type CachedStorage struct {
	repository.Storage

	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(storage repository.Storage, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedStorage {
	return &CachedStorage{
		Storage: storage,
		rdb:     rdb,
		ttl:     ttl,
		log:     log,
	}
}

// NewClient создает клиента Redis по адресу и паролю
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (s *CachedStorage) GetActiveLinkByHash(ctx context.Context, hash string) (*domain.TrackingLink, error) {
	key := getKey(hash)

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var link domain.TrackingLink
		if err := json.Unmarshal(data, &link); err == nil {
			return &link, nil
		}
		s.log.Warn("dropping corrupted cached link", zap.String("link_hash", hash))
		s.rdb.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		s.log.Warn("redis get failed, falling back to storage", zap.String("link_hash", hash), zap.Error(err))
	}

	link, err := s.Storage.GetActiveLinkByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(link); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.Warn("redis set failed", zap.String("link_hash", hash), zap.Error(err))
		}
	}

	return link, nil
}

func (s *CachedStorage) SetLinkActive(ctx context.Context, id int64, active bool) error {
	link, err := s.Storage.GetLinkByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Storage.SetLinkActive(ctx, id, active); err != nil {
		return err
	}

	if err := s.rdb.Del(ctx, getKey(link.LinkHash)).Err(); err != nil {
		s.log.Warn("failed to invalidate cached link", zap.Int64("link_id", id), zap.Error(err))
	}
	return nil
}

func getKey(hash string) string {
	return keyPrefix + hash
}
