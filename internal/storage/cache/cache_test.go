package cache

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage"
)

func setupMockDB(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return &Storage{DB: gormDB, ttl: time.Hour}, mock
}

func TestGenresFresh(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "image_background", "fetched_at"}).
		AddRow(4, "Action", "action", "https://img.example/a.jpg", time.Now()).
		AddRow(51, "Indie", "indie", "https://img.example/i.jpg", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `cached_genres` ORDER BY id")).
		WillReturnRows(rows)

	genres, err := s.Genres()

	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "action", genres[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenresEmptyIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `cached_genres` ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "image_background", "fetched_at"}))

	_, err := s.Genres()

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenresStaleIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "image_background", "fetched_at"}).
		AddRow(4, "Action", "action", "", time.Now().Add(-2*time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `cached_genres` ORDER BY id")).
		WillReturnRows(rows)

	_, err := s.Genres()

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutGenresReplacesAll(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `cached_genres`")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `cached_genres`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.PutGenres([]models.Genre{{ID: 4, Name: "Action", Slug: "action"}})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRoundTrip(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	detail := &models.GameDetail{ID: 3498, Name: "GTA V", Metacritic: 92}
	payload, err := json.Marshal(detail)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "payload", "fetched_at"}).
		AddRow(3498, payload, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `cached_games` WHERE `cached_games`.`id` = ? ORDER BY `cached_games`.`id` LIMIT ?")).
		WithArgs(3498, 1).
		WillReturnRows(rows)

	got, err := s.Game(3498)

	require.NoError(t, err)
	assert.Equal(t, "GTA V", got.Name)
	assert.Equal(t, 92, got.Metacritic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameMissingIsNotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `cached_games` WHERE `cached_games`.`id` = ? ORDER BY `cached_games`.`id` LIMIT ?")).
		WithArgs(404, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := s.Game(404)

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
