package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRecord is the row holding one serialized collection.
type CollectionRecord struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Payload   datatypes.JSON `gorm:"not null"`
	Version   int64          `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName pins the table name regardless of naming strategy.
func (CollectionRecord) TableName() string {
	return "engine_collections"
}

// SQLStore persists collections through GORM, one row per collection.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLStore migrates the collection table and returns a store backed by db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sql store requires a database handle")
	}
	if err := db.AutoMigrate(&CollectionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate collection table: %w", err)
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

func (s *SQLStore) Read(ctx context.Context, c Collection) ([]byte, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}

	var record CollectionRecord
	err := s.db.WithContext(ctx).Where("name = ?", c.String()).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(record.Payload), nil
}

func (s *SQLStore) Write(ctx context.Context, c Collection, payload []byte) error {
	if err := checkCollection(c); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current CollectionRecord
		err := tx.Where("name = ?", c.String()).Take(&current).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := CollectionRecord{
			Name:      c.String(),
			Payload:   datatypes.JSON(payload),
			Version:   current.Version + 1,
			UpdatedAt: s.now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "version", "updated_at"}),
		}).Create(&record).Error
	})
}

// Version returns how many times a collection has been written.
func (s *SQLStore) Version(ctx context.Context, c Collection) (int64, error) {
	var record CollectionRecord
	err := s.db.WithContext(ctx).Select("version").Where("name = ?", c.String()).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return record.Version, err
}
