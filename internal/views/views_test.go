package views

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/models"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/shelf"
)

type card struct {
	Game   models.Game
	Status shelf.Shelf
	Back   string
}

func testUser() *models.User {
	return &models.User{ID: "u-1", Name: "Sam", Email: "sam@example.com"}
}

func testCard(status shelf.Shelf) card {
	return card{
		Game: models.Game{
			ID:          42,
			Name:        "Hades",
			Genres:      []models.GenreRef{{Name: "Action"}},
			ReleaseDate: "2020-09-17",
		},
		Status: status,
		Back:   "/games/action",
	}
}

// All pages must parse at startup and execute with their view data.
func TestRenderAllPages(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	data := map[string]any{
		"home": struct {
			User        *models.User
			SearchQuery string
		}{},
		"genres": struct {
			User        *models.User
			SearchQuery string
			Genres      []models.Genre
		}{Genres: []models.Genre{{ID: 4, Name: "Action", Slug: "action"}}},
		"games": struct {
			User        *models.User
			SearchQuery string
			Title       string
			Genre       string
			Cards       []card
			HasMore     bool
			NextPage    int
		}{Title: "Action", Genre: "action", Cards: []card{testCard(shelf.WantToPlay)}, HasMore: true, NextPage: 2},
		"search": struct {
			User        *models.User
			SearchQuery string
			Query       string
			Cards       []card
			HasMore     bool
			NextPage    int
		}{Query: "hades", Cards: []card{testCard(shelf.None)}},
		"game": struct {
			User        *models.User
			SearchQuery string
			Detail      *models.GameDetail
			Record      models.Game
			Image       string
			Summary     string
			Description template.HTML
			Status      shelf.Shelf
			Rating      int
			UpdatedAt   string
		}{
			User:        testUser(),
			Detail:      &models.GameDetail{ID: 42, Name: "Hades", Rating: 4.5, Metacritic: 93, Genres: []models.NamedRef{{Name: "Action"}}},
			Image:       models.PlaceholderImage,
			Description: "<p>ok</p>",
			Status:      shelf.Played,
			Rating:      5,
			UpdatedAt:   "2026-08-01",
		},
		"profile": struct {
			User                  *models.User
			SearchQuery           string
			Collection            shelf.Collection
			PlayedCards           []card
			CurrentlyPlayingCards []card
			WantToPlayCards       []card
		}{
			User:        testUser(),
			Collection:  shelf.Collection{Played: []models.Game{{ID: 42}}},
			PlayedCards: []card{testCard(shelf.Played)},
		},
		"login": struct {
			User        *models.User
			SearchQuery string
			LoginURL    string
		}{LoginURL: "/auth/google"},
		"error": struct {
			User        *models.User
			SearchQuery string
			Message     string
		}{Message: "boom"},
		"notfound": struct {
			User        *models.User
			SearchQuery string
		}{},
	}

	for _, page := range pages {
		d, ok := data[page]
		require.True(t, ok, "no test data for page %s", page)

		var sb strings.Builder
		require.NoError(t, r.Render(&sb, page, d), "page %s", page)
		assert.NotEmpty(t, sb.String())
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var sb strings.Builder
	assert.Error(t, r.Render(&sb, "nope", nil))
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "17-09-2020", shortDate("2020-09-17"))
	assert.Equal(t, "not-a-date", shortDate("not-a-date"))
}

func TestLongDate(t *testing.T) {
	assert.Equal(t, "17 September 2020", longDate("2020-09-17"))
}

func TestMetacriticClass(t *testing.T) {
	assert.Equal(t, "score-high", metacriticClass(93))
	assert.Equal(t, "score-mid", metacriticClass(60))
	assert.Equal(t, "score-low", metacriticClass(30))
}
