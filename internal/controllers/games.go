package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/catalog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/clients/gamelog"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/storage"
)

type CatalogServicer interface {
	Genres(ctx context.Context) ([]models.Genre, error)
	GamesByGenre(ctx context.Context, genre string, page int) (*catalog.GamesPage, error)
	Search(ctx context.Context, query string, page int) (*catalog.GamesPage, error)
	GameDetail(ctx context.Context, id int64) (*models.GameDetail, error)
	Excerpt(description string, max int) string
}

type LibraryServicer interface {
	LoadShelves(ctx context.Context, sess *session.Session) (shelf.Collection, error)
	MoveGame(ctx context.Context, sess *session.Session, gameID int64, newShelf shelf.Shelf, record *models.Game) error
	SetRating(ctx context.Context, sess *session.Session, gameID int64, rating int, current shelf.Shelf) error
	GameStatus(ctx context.Context, sess *session.Session, gameID int64) (*gamelog.Entry, error)
}

type GameController struct {
	catalog CatalogServicer
	library LibraryServicer
	views   Renderer
	log     *slog.Logger
}

func NewGameController(cat CatalogServicer, lib LibraryServicer, views Renderer, log *slog.Logger) *GameController {
	return &GameController{
		catalog: cat,
		library: lib,
		views:   views,
		log:     log,
	}
}

// genreTitles are the slugs whose display name is not just the slug with the
// dashes swapped out.
var genreTitles = map[string]string{
	"role-playing-games-rpg": "RPG",
	"board-games":            "Board Games",
	"massively-multiplayer":  "Massively Multiplayer",
}

func genreTitle(slug string) string {
	if title, ok := genreTitles[slug]; ok {
		return title
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type homePage struct {
	Base
}

func (c *GameController) Home(w http.ResponseWriter, r *http.Request) {
	if err := c.views.Render(w, "home", homePage{Base: baseFor(r)}); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

type genresPage struct {
	Base
	Genres []models.Genre
}

func (c *GameController) Genres(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Genres"

	genres, err := c.catalog.Genres(r.Context())
	if err != nil {
		c.log.Error(ErrGetGenres.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		renderError(w, r, c.log, c.views, http.StatusInternalServerError, ErrGetGenres.Error())
		return
	}

	// newest genres first, same order the original page shows
	reversed := make([]models.Genre, 0, len(genres))
	for i := len(genres) - 1; i >= 0; i-- {
		reversed = append(reversed, genres[i])
	}

	if err := c.views.Render(w, "genres", genresPage{Base: baseFor(r), Genres: reversed}); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

type gamesPage struct {
	Base
	Title    string
	Genre    string
	Cards    []Card
	HasMore  bool
	NextPage int
}

func (c *GameController) GamesByGenre(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GamesByGenre"

	genre := chi.URLParam(r, "genre")
	page := pageParam(r)

	resp, err := c.catalog.GamesByGenre(r.Context(), genre, page)
	if err != nil {
		c.log.Error(ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("genre", genre),
			slog.String("error", err.Error()))
		renderError(w, r, c.log, c.views, http.StatusInternalServerError, ErrGetGames.Error())
		return
	}

	back := "/games/" + genre
	if page > 1 {
		back += "?page=" + strconv.Itoa(page)
	}

	data := gamesPage{
		Base:     baseFor(r),
		Title:    genreTitle(genre),
		Genre:    genre,
		Cards:    c.cards(r, resp.Data, back),
		HasMore:  len(resp.Data) > 0,
		NextPage: page + 1,
	}

	if err := c.views.Render(w, "games", data); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

type searchPage struct {
	Base
	Query    string
	Cards    []Card
	HasMore  bool
	NextPage int
}

func (c *GameController) Search(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Search"

	query := r.URL.Query().Get("query")
	if query == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	page := pageParam(r)

	resp, err := c.catalog.Search(r.Context(), query, page)
	if err != nil {
		c.log.Error(ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("query", query),
			slog.String("error", err.Error()))
		renderError(w, r, c.log, c.views, http.StatusInternalServerError, ErrGetGames.Error())
		return
	}

	back := "/games/search?query=" + url.QueryEscape(query)

	data := searchPage{
		Base:     baseFor(r),
		Query:    query,
		Cards:    c.cards(r, resp.Data, back),
		HasMore:  len(resp.Data) > 0,
		NextPage: page + 1,
	}

	if err := c.views.Render(w, "search", data); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

type gamePage struct {
	Base
	Detail *models.GameDetail
	// Record is the compact card shape the shelf form carries for first-time
	// adds.
	Record      models.Game
	Image       string
	Summary     string
	Description template.HTML
	Status      shelf.Shelf
	Rating      int
	UpdatedAt   string
}

func (c *GameController) GameDetails(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GameDetails"

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(w, r, c.log, c.views, http.StatusNotFound, ErrNotFound.Error())
		return
	}

	detail, err := c.catalog.GameDetail(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		renderError(w, r, c.log, c.views, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err != nil {
		c.log.Error(ErrGetGame.Error(),
			slog.String("operation", op),
			slog.Int64("game_id", id),
			slog.String("error", err.Error()))
		renderError(w, r, c.log, c.views, http.StatusInternalServerError, ErrGetGame.Error())
		return
	}

	image := detail.BackgroundImage
	if image == "" {
		image = models.PlaceholderImage
	}

	data := gamePage{
		Base:    baseFor(r),
		Detail:  detail,
		Record:  detail.Card(),
		Image:   image,
		Summary: c.catalog.Excerpt(detail.Description, 160),
		// already sanitized by the catalog service
		Description: template.HTML(detail.Description),
		Status:      shelf.None,
	}

	// The log lookup is per-user; anonymous visitors just see the catalog
	// view. A failed lookup degrades the same way, logged only.
	if sess := sessionFor(r); sess.Authenticated() {
		entry, err := c.library.GameStatus(r.Context(), sess, id)
		if err != nil {
			c.log.Error("failed to fetch game log",
				slog.String("operation", op),
				slog.Int64("game_id", id),
				slog.String("error", err.Error()))
		} else if entry.Shelf != shelf.None {
			data.Status = entry.Shelf
			data.Rating = entry.Rating
			data.UpdatedAt = entry.UpdatedAt
		}
		if data.Rating == 0 {
			data.Rating = sess.PendingRating(id)
		}
	}

	if err := c.views.Render(w, "game", data); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

type profilePage struct {
	Base
	Collection            shelf.Collection
	PlayedCards           []Card
	CurrentlyPlayingCards []Card
	WantToPlayCards       []Card
}

// Profile renders the three shelves. A plain GET re-syncs from the server of
// record; the redirect after a shelf action carries cached=1 so the view shows
// the optimistic state instead of racing the fire-and-forget write.
func (c *GameController) Profile(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Profile"

	sess := sessionFor(r)

	var collection shelf.Collection
	cached, ok := sess.Shelves()
	if ok && r.URL.Query().Get("cached") == "1" {
		collection = cached
	} else {
		var err error
		collection, err = c.library.LoadShelves(r.Context(), sess)
		if err != nil {
			c.log.Error(ErrGetShelves.Error(),
				slog.String("operation", op),
				slog.String("error", err.Error()))
			renderError(w, r, c.log, c.views, http.StatusInternalServerError, ErrGetShelves.Error())
			return
		}
	}

	const back = "/profile?cached=1"
	data := profilePage{
		Base:                  baseFor(r),
		Collection:            collection,
		PlayedCards:           c.shelfCards(collection.Played, shelf.Played, back),
		CurrentlyPlayingCards: c.shelfCards(collection.CurrentlyPlaying, shelf.CurrentlyPlaying, back),
		WantToPlayCards:       c.shelfCards(collection.WantToPlay, shelf.WantToPlay, back),
	}

	if err := c.views.Render(w, "profile", data); err != nil {
		c.log.Error(ErrRender.Error(), slog.String("error", err.Error()))
	}
}

// ProfileByName resolves /profile/{username}. Shelves are private, so the
// only name that resolves is the visitor's own, canonicalized to /profile;
// anything else is unknown.
func (c *GameController) ProfileByName(w http.ResponseWriter, r *http.Request) {
	sess := sessionFor(r)

	if chi.URLParam(r, "username") == sess.User.ProfileName() {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	renderError(w, r, c.log, c.views, http.StatusNotFound, ErrNotFound.Error())
}

// GamesJSON is the fragment endpoint behind the load-more scrolling.
func (c *GameController) GamesJSON(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GamesJSON"

	genre := r.URL.Query().Get("genre")
	if genre == "" {
		http.Error(w, "missing genre query", http.StatusBadRequest)
		return
	}

	resp, err := c.catalog.GamesByGenre(r.Context(), genre, pageParam(r))
	if err != nil {
		c.log.Error(ErrGetGames.Error(),
			slog.String("operation", op),
			slog.String("genre", genre),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetGames.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func (c *GameController) cards(r *http.Request, games []models.Game, back string) []Card {
	sess := sessionFor(r)
	collection, loaded := shelf.Collection{}, false
	if sess.Authenticated() {
		collection, loaded = sess.Shelves()
	}

	cards := make([]Card, 0, len(games))
	for _, g := range games {
		status := shelf.None
		if loaded {
			status = collection.StatusOf(g.ID)
		}
		cards = append(cards, Card{Game: g, Status: status, Back: back})
	}
	return cards
}

func (c *GameController) shelfCards(games []models.Game, status shelf.Shelf, back string) []Card {
	cards := make([]Card, 0, len(games))
	for _, g := range games {
		cards = append(cards, Card{Game: g, Status: status, Back: back})
	}
	return cards
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
