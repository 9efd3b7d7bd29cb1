package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
)

// ShelfController handles the write actions behind the shelf buttons. All of
// them answer with a redirect; the optimistic local state is what the next
// page render shows, whatever the remote write ends up doing.
type ShelfController struct {
	library LibraryServicer
	log     *slog.Logger
}

func NewShelfController(lib LibraryServicer, log *slog.Logger) *ShelfController {
	return &ShelfController{library: lib, log: log}
}

// Move handles POST /shelf/move. The form carries the full game record so a
// first-time add has something to insert into the collection; without it the
// local list would silently lag the remote log until the next reload.
func (c *ShelfController) Move(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.shelf.Move"

	sess := sessionFor(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	gameID, err := strconv.ParseInt(r.PostFormValue("game_id"), 10, 64)
	if err != nil || gameID <= 0 {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	newShelf, err := shelf.Parse(r.PostFormValue("shelf"))
	if err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	record := recordFromForm(r, gameID)
	if err := c.library.MoveGame(r.Context(), sess, gameID, newShelf, record); err != nil {
		c.log.Error(ErrShelfUpdate.Error(),
			slog.String("operation", op),
			slog.Int64("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrShelfUpdate.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, backURL(r), http.StatusSeeOther)
}

// Rate handles POST /shelf/rate.
func (c *ShelfController) Rate(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.shelf.Rate"

	sess := sessionFor(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	gameID, err := strconv.ParseInt(r.PostFormValue("game_id"), 10, 64)
	if err != nil || gameID <= 0 {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	if err := shelf.ValidateRating(rating); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The rating write needs the game's current shelf; the collection answers
	// when it is loaded, the remote log otherwise.
	current := shelf.None
	if collection, ok := sess.Shelves(); ok {
		current = collection.StatusOf(gameID)
	} else if entry, err := c.library.GameStatus(r.Context(), sess, gameID); err == nil {
		current = entry.Shelf
	} else {
		c.log.Error("failed to fetch game log",
			slog.String("operation", op),
			slog.Int64("game_id", gameID),
			slog.String("error", err.Error()))
	}

	if err := c.library.SetRating(r.Context(), sess, gameID, rating, current); err != nil {
		c.log.Error(ErrRatingUpdate.Error(),
			slog.String("operation", op),
			slog.Int64("game_id", gameID),
			slog.String("error", err.Error()))
		http.Error(w, ErrRatingUpdate.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, backURL(r), http.StatusSeeOther)
}

func recordFromForm(r *http.Request, gameID int64) *models.Game {
	name := r.PostFormValue("name")
	if name == "" {
		return nil
	}

	var genres []models.GenreRef
	for _, g := range r.PostForm["genre"] {
		if g != "" {
			genres = append(genres, models.GenreRef{Name: g})
		}
	}

	return &models.Game{
		ID:          gameID,
		Name:        name,
		Image:       r.PostFormValue("image"),
		Genres:      genres,
		ReleaseDate: r.PostFormValue("release_date"),
	}
}

// backURL returns the in-site redirect target from the form, guarding
// against open redirects.
func backURL(r *http.Request) string {
	back := r.PostFormValue("back")
	if back == "" || !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		return "/profile?cached=1"
	}
	return back
}
