// Package snapshot is the client's durable local storage: named blobs kept in
// a sqlite file so the card repository and sign-in survive restarts.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// Snapshot is one named blob.
type Snapshot struct {
	Name      string `gorm:"primaryKey;size:100"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open opens (or creates) the sqlite file at path. ":memory:" is accepted.
func Open(path string, log *logger.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		// one connection keeps ":memory:" databases shared
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db, log)
}

// New wraps an existing connection and migrates the snapshot table.
func New(db *gorm.DB, log *logger.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("migrate snapshots: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log.With("component", "snapshot")}, nil
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("snapshot %q: %w", name, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return snap.Data, nil
}

func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	snap := Snapshot{Name: name, Data: data, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	s.log.Debug("snapshot saved", "name", name, "bytes", len(data))
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Where("name = ?", name).Delete(&Snapshot{}).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
