package database

import (
	"fmt"

	"anoa.com/tradeaid/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the PostgreSQL connection described by cfg. TranslateError
// is enabled so unique-index violations surface as gorm.ErrDuplicatedKey and
// can be remapped to conflict responses instead of opaque 500s.
func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}
