package models

// PlaceholderImage is served when the catalog has no art for a game.
const PlaceholderImage = "https://github.com/shadcn.png"

type GenreRef struct {
	Name string `json:"name"`
}

type Game struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Genres      []GenreRef `json:"genres"`
	ReleaseDate string     `json:"release_date"`
}

// ImageOrPlaceholder resolves the card image the way the catalog pages do:
// an empty URL falls back to the placeholder.
func (g Game) ImageOrPlaceholder() string {
	if g.Image == "" {
		return PlaceholderImage
	}
	return g.Image
}

type Genre struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	ImageBackground string `json:"image_background"`
}

type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GameDetail is the extended single-game record returned by the catalog
// detail endpoint.
type GameDetail struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Released        string     `json:"released"`
	BackgroundImage string     `json:"background_image"`
	Website         string     `json:"website"`
	Metacritic      int        `json:"metacritic"`
	Rating          float64    `json:"rating"`
	RatingsCount    int        `json:"ratings_count"`
	Developers      []NamedRef `json:"developers"`
	Publishers      []NamedRef `json:"publishers"`
	Genres          []NamedRef `json:"genres"`
	Tags            []NamedRef `json:"tags"`
	Platforms       []NamedRef `json:"platforms"`
}

// Card converts the detail record to the compact card shape held by shelf
// collections.
func (d GameDetail) Card() Game {
	genres := make([]GenreRef, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, GenreRef{Name: g.Name})
	}
	return Game{
		ID:          d.ID,
		Name:        d.Name,
		Image:       d.BackgroundImage,
		Genres:      genres,
		ReleaseDate: d.Released,
	}
}
