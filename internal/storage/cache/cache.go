// Package cache is the optional read-through MariaDB cache for catalog data.
// Only read-only catalog responses are cached; game-log records never are,
// the remote API stays the single source of truth for shelves.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/config"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage"
)

type Storage struct {
	DB  *gorm.DB
	ttl time.Duration
}

type genreRow struct {
	ID              int64  `gorm:"primaryKey"`
	Name            string `gorm:"size:255"`
	Slug            string `gorm:"size:255;index"`
	ImageBackground string `gorm:"size:500"`
	FetchedAt       time.Time
}

func (genreRow) TableName() string { return "cached_genres" }

type gameRow struct {
	ID        int64  `gorm:"primaryKey"`
	Payload   []byte `gorm:"type:mediumblob"`
	FetchedAt time.Time
}

func (gameRow) TableName() string { return "cached_games" }

func New(cfg config.Database) (*Storage, error) {
	const op = "storage.cache.New"

	db, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db, ttl: cfg.TTL}, nil
}

func (s *Storage) Migrate() error {
	const op = "storage.cache.Migrate"

	if err := s.DB.AutoMigrate(&genreRow{}, &gameRow{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	db, err := s.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// Genres returns the cached genre list, or storage.ErrNotFound when the cache
// is empty or past its TTL.
func (s *Storage) Genres() ([]models.Genre, error) {
	const op = "storage.cache.Genres"

	var rows []genreRow
	if err := s.DB.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}

	cutoff := time.Now().Add(-s.ttl)
	genres := make([]models.Genre, 0, len(rows))
	for _, r := range rows {
		if r.FetchedAt.Before(cutoff) {
			return nil, storage.ErrNotFound
		}
		genres = append(genres, models.Genre{
			ID:              r.ID,
			Name:            r.Name,
			Slug:            r.Slug,
			ImageBackground: r.ImageBackground,
		})
	}

	return genres, nil
}

// PutGenres replaces the cached genre list.
func (s *Storage) PutGenres(genres []models.Genre) error {
	const op = "storage.cache.PutGenres"

	now := time.Now()
	rows := make([]genreRow, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, genreRow{
			ID:              g.ID,
			Name:            g.Name,
			Slug:            g.Slug,
			ImageBackground: g.ImageBackground,
			FetchedAt:       now,
		})
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}

	if err := tx.Where("1 = 1").Delete(&genreRow{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Game returns a cached detail record, or storage.ErrNotFound when absent
// or stale.
func (s *Storage) Game(id int64) (*models.GameDetail, error) {
	const op = "storage.cache.Game"

	var row gameRow
	err := s.DB.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if row.FetchedAt.Before(time.Now().Add(-s.ttl)) {
		return nil, storage.ErrNotFound
	}

	var detail models.GameDetail
	if err := json.Unmarshal(row.Payload, &detail); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &detail, nil
}

// PutGame stores a detail record.
func (s *Storage) PutGame(detail *models.GameDetail) error {
	const op = "storage.cache.PutGame"

	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	row := gameRow{ID: detail.ID, Payload: payload, FetchedAt: time.Now()}
	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
