package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/controllers"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/middleware"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/services"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/session"
	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/views"

	"github.com/chaitanya-bhargava/QuestLog-frontend/internal/metrics"
)

// Deps is everything the router needs from main: clients, storages and the
// ambient pieces. Services and controllers are wired here.
type Deps struct {
	Log          *slog.Logger
	Catalog      services.CatalogProvider
	GameLog      services.GameLogger
	Auth         controllers.AuthClienter
	Cache        services.CacheStore
	Images       controllers.ImageCacher
	Sessions     *session.Store
	Views        *views.Renderer
	Metrics      metrics.Recorder
	Gatherer     prometheus.Gatherer
	Cors         []string
	CookieSecure bool
}

func SetupRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cors,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware(d.Sessions)
	r.Use(authMiddleware.WithSession)

	catalogService := services.NewCatalogService(d.Catalog, d.Cache, d.Log)
	libraryService := services.NewLibraryService(d.GameLog, d.Log, d.Metrics)

	gameController := controllers.NewGameController(catalogService, libraryService, d.Views, d.Log)
	shelfController := controllers.NewShelfController(libraryService, d.Log)
	authController := controllers.NewAuthController(d.Auth, d.Sessions, d.Views, d.Log, d.CookieSecure)
	imageController := controllers.NewImageController(d.Images, d.Log)

	r.Get("/", gameController.Home)
	r.Get("/genres", gameController.Genres)
	r.Get("/games/search", gameController.Search)
	r.Get("/games/{genre}", gameController.GamesByGenre)
	r.Get("/game/{id}", gameController.GameDetails)

	r.Get("/api/games", gameController.GamesJSON)
	r.Get("/img", imageController.Serve)

	r.Get("/login", authController.LoginPage)
	r.Get("/auth/google", authController.Login)
	r.Get("/auth/google/callback", authController.Callback)
	r.Post("/logout", authController.Logout)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireUser)

		r.Get("/profile", gameController.Profile)
		r.Get("/profile/{username}", gameController.ProfileByName)
		r.Post("/shelf/move", shelfController.Move)
		r.Post("/shelf/rate", shelfController.Rate)
	})

	if d.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(d.Gatherer).ServeHTTP)
	}

	return r
}
