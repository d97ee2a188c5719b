// Package dbtest поднимает временную SQLite базу с мигрированной схемой для тестов.
package dbtest

import (
	"ChannelTrack-Backend/internal/database"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New создает базу во временном файле и удаляет ее по завершении теста.
// Файл вместо :memory: нужен, чтобы все соединения пула видели одну базу.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	f, err := os.CreateTemp("", "channeltrack-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := gorm.Open(sqlite.Open(f.Name()+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}
