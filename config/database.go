package config

import (
	"fmt"
	"strings"

	"github.com/andrewpaige1/studydeck/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Connect opens the server database and migrates it. Postgres URLs go to the
// postgres driver; anything else is treated as a sqlite path.
func Connect(dbURL string) (*gorm.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		dialector = postgres.Open(dbURL)
	} else {
		dialector = sqlite.Open(dbURL)
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return db, nil
}
