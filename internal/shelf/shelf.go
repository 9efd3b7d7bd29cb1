// Package shelf holds the shelf-state model: the three-way partition of a
// user's games into Played / Currently Playing / Want to Play, kept pairwise
// disjoint across local optimistic updates.
package shelf

import (
	"errors"
	"fmt"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
)

// Shelf is the wire code for a game's shelf. The single-letter encoding is
// fixed by the GameLog API and must not change.
type Shelf string

const (
	Played           Shelf = "P"
	CurrentlyPlaying Shelf = "C"
	WantToPlay       Shelf = "W"
	None             Shelf = "NA"
)

var (
	ErrUnknownShelf  = errors.New("unknown shelf code")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Parse validates a shelf code from a request or a response body.
// An empty string counts as None, matching log records that omit the field.
func Parse(code string) (Shelf, error) {
	switch Shelf(code) {
	case Played, CurrentlyPlaying, WantToPlay:
		return Shelf(code), nil
	case None, "":
		return None, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownShelf, code)
}

// Title returns the display name for a shelf code.
func (s Shelf) Title() string {
	switch s {
	case Played:
		return "Played"
	case CurrentlyPlaying:
		return "Currently Playing"
	case WantToPlay:
		return "Want to Play"
	}
	return "Add to My Games"
}

// ValidateRating rejects anything outside the five-star range. The star
// buttons make out-of-range values impossible in the UI, but the action
// endpoint is reachable without them.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	return nil
}

// Collection is the per-view aggregate of the three non-None shelves.
// The three sequences are pairwise disjoint by game ID; a game with a shelf
// assignment appears in exactly one of them.
type Collection struct {
	Played           []models.Game
	CurrentlyPlaying []models.Game
	WantToPlay       []models.Game
}

// Len reports the total number of shelved games.
func (c Collection) Len() int {
	return len(c.Played) + len(c.CurrentlyPlaying) + len(c.WantToPlay)
}

// StatusOf scans the three sequences for gameID and returns its shelf,
// or None when the game is on no shelf.
func (c Collection) StatusOf(gameID int64) Shelf {
	for _, g := range c.Played {
		if g.ID == gameID {
			return Played
		}
	}
	for _, g := range c.CurrentlyPlaying {
		if g.ID == gameID {
			return CurrentlyPlaying
		}
	}
	for _, g := range c.WantToPlay {
		if g.ID == gameID {
			return WantToPlay
		}
	}
	return None
}

// Move returns the collection after moving gameID to newShelf. It is a pure
// transform: the receiver is never mutated.
//
// The game is first removed from all three sequences, so the disjointness
// invariant holds no matter what the prior state was, and moving to None is
// idempotent. For any other destination the full record is looked up in the
// pre-removal union; record is the caller-supplied fallback for a game not
// yet on any shelf. Without either, local state is left unchanged and the
// remote write (issued by the caller) wins on the next full reload.
// Insertion appends; order within a shelf is insertion order.
func (c Collection) Move(gameID int64, newShelf Shelf, record *models.Game) Collection {
	next := Collection{
		Played:           without(c.Played, gameID),
		CurrentlyPlaying: without(c.CurrentlyPlaying, gameID),
		WantToPlay:       without(c.WantToPlay, gameID),
	}

	if newShelf == None {
		return next
	}

	moved := c.find(gameID)
	if moved == nil {
		moved = record
	}
	if moved == nil || moved.ID != gameID {
		return next
	}

	switch newShelf {
	case Played:
		next.Played = append(next.Played, *moved)
	case CurrentlyPlaying:
		next.CurrentlyPlaying = append(next.CurrentlyPlaying, *moved)
	case WantToPlay:
		next.WantToPlay = append(next.WantToPlay, *moved)
	}
	return next
}

func (c Collection) find(gameID int64) *models.Game {
	for _, seq := range [][]models.Game{c.Played, c.CurrentlyPlaying, c.WantToPlay} {
		for i := range seq {
			if seq[i].ID == gameID {
				return &seq[i]
			}
		}
	}
	return nil
}

func without(seq []models.Game, gameID int64) []models.Game {
	out := make([]models.Game, 0, len(seq))
	for _, g := range seq {
		if g.ID != gameID {
			out = append(out, g)
		}
	}
	return out
}
