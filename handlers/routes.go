package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kevinaaaquil/library/backend/middleware"
	"github.com/kevinaaaquil/library/backend/service"
	"github.com/kevinaaaquil/library/backend/store"
)

// Deps is everything the router wires into handlers. Exporter, Metadata,
// Notifier and RateLimiter are optional.
type Deps struct {
	Stores        *store.Stores
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	CORSOrigins   []string
	Exporter      *service.Exporter
	Metadata      *service.MetadataClient
	Notifier      ContactNotifier
	RateLimiter   *middleware.RateLimiter
}

func NewRouter(d Deps) *chi.Mux {
	s := d.Stores
	authHandler := &AuthHandler{
		Users:         s.Users,
		JWTSecret:     d.JWTSecret,
		AdminEmail:    d.AdminEmail,
		AdminPassword: d.AdminPassword,
	}
	booksHandler := &BooksHandler{Books: s.Books}
	reviewsHandler := &ReviewsHandler{Reviews: s.Reviews, Books: s.Books, Users: s.Users}
	readingHandler := &ReadingHandler{Books: s.Books, Favorites: s.Favorites, Progress: s.Progress, Goals: s.Goals}
	usersHandler := &UsersHandler{Users: s.Users}
	contactHandler := &ContactHandler{Contacts: s.Contacts, Notifier: d.Notifier}
	adminHandler := &AdminHandler{Stats: s.Stats, Exporter: d.Exporter, Metadata: d.Metadata}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(d.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Handler)
		}

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/contact", contactHandler.Submit)
		r.Get("/books", booksHandler.List)
		r.Get("/books/{id}", booksHandler.Get)
		r.Get("/books/{id}/reviews", reviewsHandler.List)
		r.Post("/books/{id}/download", booksHandler.Download)

		// Signed-in readers
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.JWTSecret))
			r.Get("/me", authHandler.Me)
			r.Patch("/me", authHandler.UpdateMe)
			r.Get("/me/favorites", readingHandler.ListFavorites)
			r.Post("/books/{id}/reviews", reviewsHandler.Create)
			r.Get("/books/{id}/favorite", readingHandler.FavoriteStatus)
			r.Put("/books/{id}/favorite", readingHandler.AddFavorite)
			r.Delete("/books/{id}/favorite", readingHandler.RemoveFavorite)
			r.Get("/books/{id}/progress", readingHandler.GetProgress)
			r.Put("/books/{id}/progress", readingHandler.SaveProgress)
			r.Get("/goals", readingHandler.GetGoal)
			r.Post("/goals", readingHandler.CreateGoal)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(d.JWTSecret))
			r.Use(middleware.RequireAdmin(s.Users))
			r.Post("/books", booksHandler.Create)
			r.Patch("/books/{id}", booksHandler.Update)
			r.Delete("/books/{id}", booksHandler.Delete)
			r.Get("/users", usersHandler.List)
			r.Patch("/users/{uid}/role", usersHandler.UpdateRole)
			r.Get("/stats", adminHandler.LibraryStats)
			r.Get("/contacts", contactHandler.List)
			r.Post("/export", adminHandler.Export)
			r.Get("/metadata", adminHandler.LookupMetadata)
		})
	})
	return r
}
