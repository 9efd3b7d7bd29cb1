package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/gamelog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/metrics"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
)

// writeTimeout bounds the detached shelf writes so an unreachable backend
// cannot pile up goroutines.
const writeTimeout = 15 * time.Second

type GameLogger interface {
	Get(ctx context.Context, userID string, gameID int64) (*gamelog.Entry, error)
	Shelf(ctx context.Context, userID string, s shelf.Shelf) ([]models.Game, error)
	Upsert(ctx context.Context, userID string, gameID int64, s shelf.Shelf, rating int) error
	Delete(ctx context.Context, userID string, gameID int64) error
}

// LibraryService owns the shelf lifecycle: the all-or-nothing profile load,
// the optimistic local moves, and the best-effort remote writes behind them.
type LibraryService struct {
	gamelog GameLogger
	log     *slog.Logger
	metrics metrics.Recorder
}

func NewLibraryService(gl GameLogger, log *slog.Logger, rec metrics.Recorder) *LibraryService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &LibraryService{
		gamelog: gl,
		log:     log,
		metrics: rec,
	}
}

// LoadShelves fetches the three shelves concurrently and caches the combined
// collection on the session. Any single failure fails the whole load; partial
// results are never kept.
func (s *LibraryService) LoadShelves(ctx context.Context, sess *session.Session) (shelf.Collection, error) {
	const op = "services.library.LoadShelves"

	userID := sess.User.ID

	var c shelf.Collection
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		games, err := s.gamelog.Shelf(gctx, userID, shelf.Played)
		if err != nil {
			return err
		}
		c.Played = games
		return nil
	})
	g.Go(func() error {
		games, err := s.gamelog.Shelf(gctx, userID, shelf.CurrentlyPlaying)
		if err != nil {
			return err
		}
		c.CurrentlyPlaying = games
		return nil
	})
	g.Go(func() error {
		games, err := s.gamelog.Shelf(gctx, userID, shelf.WantToPlay)
		if err != nil {
			return err
		}
		c.WantToPlay = games
		return nil
	})

	if err := g.Wait(); err != nil {
		return shelf.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.SetShelves(c)
	return c, nil
}

// MoveGame applies the transition locally and issues the matching remote
// write without waiting for it. The local state is the one the user sees;
// a failed write is logged and counted, never rolled back. record is required
// for games not already on a shelf, since the collection stores full cards.
func (s *LibraryService) MoveGame(ctx context.Context, sess *session.Session, gameID int64, newShelf shelf.Shelf, record *models.Game) error {
	const op = "services.library.MoveGame"

	if gameID <= 0 {
		return fmt.Errorf("%s: invalid game id %d", op, gameID)
	}

	sess.ApplyMove(gameID, newShelf, record)

	// A rating picked before the game was shelved rides along now; it was
	// only ever held locally.
	rating := sess.TakePendingRating(gameID)

	userID := sess.User.ID
	go func() {
		wctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		var err error
		if newShelf == shelf.None {
			err = s.gamelog.Delete(wctx, userID, gameID)
		} else {
			// The upsert replaces the whole log entry, so a move must carry
			// the stored rating or it would be wiped. Best effort: a failed
			// lookup falls through to an unrated write.
			if rating == 0 {
				if entry, gerr := s.gamelog.Get(wctx, userID, gameID); gerr == nil {
					rating = entry.Rating
				}
			}
			err = s.gamelog.Upsert(wctx, userID, gameID, newShelf, rating)
		}

		s.metrics.RecordShelfWrite(err == nil)
		if err != nil {
			s.log.Error("shelf write failed, local state kept",
				slog.String("operation", op),
				slog.Int64("game_id", gameID),
				slog.String("shelf", string(newShelf)),
				slog.String("error", err.Error()))
		}
	}()

	return nil
}

// SetRating validates and records a star rating. A game already on a shelf
// gets the rating written remotely together with its current shelf; an
// unshelved game keeps the rating in the session only, until a shelf is
// picked or the session ends.
func (s *LibraryService) SetRating(ctx context.Context, sess *session.Session, gameID int64, rating int, current shelf.Shelf) error {
	const op = "services.library.SetRating"

	if gameID <= 0 {
		return fmt.Errorf("%s: invalid game id %d", op, gameID)
	}
	if err := shelf.ValidateRating(rating); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if current == shelf.None {
		sess.SetPendingRating(gameID, rating)
		return nil
	}

	userID := sess.User.ID
	go func() {
		wctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		err := s.gamelog.Upsert(wctx, userID, gameID, current, rating)
		s.metrics.RecordShelfWrite(err == nil)
		if err != nil {
			s.log.Error("rating write failed",
				slog.String("operation", op),
				slog.Int64("game_id", gameID),
				slog.Int("rating", rating),
				slog.String("error", err.Error()))
		}
	}()

	return nil
}

// GameStatus looks up the remote log entry for the detail page.
func (s *LibraryService) GameStatus(ctx context.Context, sess *session.Session, gameID int64) (*gamelog.Entry, error) {
	const op = "services.library.GameStatus"

	entry, err := s.gamelog.Get(ctx, sess.User.ID, gameID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entry, nil
}
