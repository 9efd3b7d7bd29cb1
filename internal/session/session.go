// Package session holds the explicit per-browser session state: the signed-in
// user, the backend session cookie to forward, and the view-scoped shelf
// collection with its optimistic updates. Nothing here is persisted; a lost
// session only costs a re-login and a re-fetch from the server of record.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
)

// CookieName is the local session cookie set on the browser.
const CookieName = "questlog_session"

type Session struct {
	ID            string
	User          *models.User
	BackendCookie string
	ExpiresAt     time.Time

	mu sync.Mutex
	// shelves is the profile view's collection; nil until loaded.
	shelves *shelf.Collection
	// pendingRatings holds star picks made before a game is shelved. They are
	// sent with the next shelf assignment and dropped otherwise.
	pendingRatings map[int64]int
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// Shelves returns the cached collection and whether one is loaded.
func (s *Session) Shelves() (shelf.Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shelves == nil {
		return shelf.Collection{}, false
	}
	return *s.shelves, true
}

func (s *Session) SetShelves(c shelf.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shelves = &c
}

// DropShelves discards the cached collection; the next profile view fetches
// fresh from the server.
func (s *Session) DropShelves() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shelves = nil
}

// ApplyMove runs the optimistic transform against the cached collection, if
// one is loaded, and returns the game's resulting shelf.
func (s *Session) ApplyMove(gameID int64, newShelf shelf.Shelf, record *models.Game) shelf.Shelf {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shelves != nil {
		next := s.shelves.Move(gameID, newShelf, record)
		s.shelves = &next
	}
	return newShelf
}

func (s *Session) SetPendingRating(gameID int64, rating int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingRatings == nil {
		s.pendingRatings = make(map[int64]int)
	}
	s.pendingRatings[gameID] = rating
}

// TakePendingRating returns and clears the rating held for an unshelved game.
func (s *Session) TakePendingRating(gameID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	rating := s.pendingRatings[gameID]
	delete(s.pendingRatings, gameID)
	return rating
}

func (s *Session) PendingRating(gameID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingRatings[gameID]
}

// Store is an in-memory session registry keyed by the local cookie value.
type Store struct {
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create registers a session for a signed-in user.
func (st *Store) Create(user *models.User, backendCookie string) *Session {
	s := &Session{
		ID:            uuid.New().String(),
		User:          user,
		BackendCookie: backendCookie,
		ExpiresAt:     time.Now().Add(st.ttl),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

// Find returns the live session for id, or nil when it is unknown or expired.
func (st *Store) Find(id string) *Session {
	if id == "" {
		return nil
	}

	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil
	}
	if time.Now().After(s.ExpiresAt) {
		st.Delete(id)
		return nil
	}
	return s
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Sweep drops expired sessions. Run it periodically from main.
func (st *Store) Sweep() int {
	now := time.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.After(s.ExpiresAt) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
