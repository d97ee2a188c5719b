package database

import (
	"ChannelTrack-Backend/internal/domain"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models возвращает модели в порядке миграции
func Models() []interface{} {
	return []interface{}{
		&domain.Channel{},           // Сначала каналы
		&domain.ChannelAdmin{},      // Администраторы каналов
		&domain.TrackingLink{},      // Ссылки (принадлежат каналам)
		&domain.LinkClick{},         // Клики (зависят от ссылок)
		&domain.ChannelSubscriber{}, // Подписчики (ссылаются на ссылки и клики)
	}
}

// AutoMigrate выполняет автоматические миграции для всех доменных моделей
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	models := Models()
	log.Info("migrating database models", zap.Int("total_models", len(models)))

	for i, model := range models {
		modelName := fmt.Sprintf("%T", model)
		log.Info("migrating model",
			zap.String("model", modelName),
			zap.Int("step", i+1),
			zap.Int("total", len(models)))

		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model",
				zap.String("model", modelName),
				zap.Error(err))
			return fmt.Errorf("failed to migrate model %s: %w", modelName, err)
		}
	}

	log.Info("database auto-migration completed successfully", zap.Int("migrated_models", len(models)))
	return nil
}
