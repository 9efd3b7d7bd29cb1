package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
)

func TestStoreCreateAndFind(t *testing.T) {
	st := NewStore(time.Hour)
	user := &models.User{ID: "u1", Name: "Chaitanya"}

	s := st.Create(user, "backend-cookie")
	require.NotEmpty(t, s.ID)
	assert.True(t, s.Authenticated())

	found := st.Find(s.ID)
	require.NotNil(t, found)
	assert.Equal(t, "u1", found.User.ID)
	assert.Equal(t, "backend-cookie", found.BackendCookie)

	assert.Nil(t, st.Find("missing"))
	assert.Nil(t, st.Find(""))
}

func TestStoreExpiry(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create(&models.User{ID: "u1"}, "")
	s.ExpiresAt = time.Now().Add(-time.Minute)

	assert.Nil(t, st.Find(s.ID))
}

func TestStoreSweep(t *testing.T) {
	st := NewStore(time.Hour)
	live := st.Create(&models.User{ID: "live"}, "")
	dead := st.Create(&models.User{ID: "dead"}, "")
	dead.ExpiresAt = time.Now().Add(-time.Minute)

	removed := st.Sweep()

	assert.Equal(t, 1, removed)
	assert.NotNil(t, st.Find(live.ID))
}

func TestShelvesLifecycle(t *testing.T) {
	s := &Session{User: &models.User{ID: "u1"}}

	_, ok := s.Shelves()
	assert.False(t, ok)

	s.SetShelves(shelf.Collection{Played: []models.Game{{ID: 1, Name: "Portal"}}})
	c, ok := s.Shelves()
	require.True(t, ok)
	assert.Equal(t, shelf.Played, c.StatusOf(1))

	s.DropShelves()
	_, ok = s.Shelves()
	assert.False(t, ok)
}

func TestApplyMoveUpdatesCachedCollection(t *testing.T) {
	s := &Session{User: &models.User{ID: "u1"}}
	s.SetShelves(shelf.Collection{CurrentlyPlaying: []models.Game{{ID: 7, Name: "Outer Wilds"}}})

	got := s.ApplyMove(7, shelf.WantToPlay, nil)
	assert.Equal(t, shelf.WantToPlay, got)

	c, ok := s.Shelves()
	require.True(t, ok)
	assert.Equal(t, shelf.WantToPlay, c.StatusOf(7))
	assert.Empty(t, c.CurrentlyPlaying)
}

func TestApplyMoveWithoutLoadedShelvesIsSafe(t *testing.T) {
	s := &Session{User: &models.User{ID: "u1"}}

	got := s.ApplyMove(7, shelf.Played, &models.Game{ID: 7})
	assert.Equal(t, shelf.Played, got)

	_, ok := s.Shelves()
	assert.False(t, ok)
}

func TestPendingRatings(t *testing.T) {
	s := &Session{}

	assert.Equal(t, 0, s.PendingRating(5))

	s.SetPendingRating(5, 4)
	assert.Equal(t, 4, s.PendingRating(5))

	assert.Equal(t, 4, s.TakePendingRating(5))
	assert.Equal(t, 0, s.TakePendingRating(5))
}
