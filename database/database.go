package database

import (
	"fmt"
	"time"

	"exhibits-dashboard/config"
	"exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres connection, applies pool settings, and migrates
// the domain models.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.Server.Env == "development" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.Database.GetDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return nil, fmt.Errorf("database: pgcrypto: %w", err)
	}

	start := time.Now()
	if err := db.AutoMigrate(
		&users.User{},

		&exhibits.Exhibit{},
		&exhibits.Heading{},
		&exhibits.Item{},
		&exhibits.Grid{},
		&exhibits.GridItem{},
	); err != nil {
		return nil, fmt.Errorf("database: migrate: %w", err)
	}

	log.Info("database connected and migrated",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
		zap.Duration("migration", time.Since(start)))

	return db, nil
}
