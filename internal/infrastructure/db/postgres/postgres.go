// Package postgres implements the repository ports on top of GORM and
// PostgreSQL. The loan lifecycle mutations rely on SELECT ... FOR UPDATE row
// locks, so the dual write (loan row + asset status) is race-free without
// serializable isolation.
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/labops/server-loans/internal/core/domain"
)

const connectTimeout = 5 * time.Second

// Connect opens a GORM connection, validates it with a ping and migrates the
// schema.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Asset{}, &domain.Loan{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
