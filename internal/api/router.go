package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/video-learn/backend/internal/api/handlers"
	"github.com/video-learn/backend/internal/api/middleware"
	"github.com/video-learn/backend/internal/auth"
	"github.com/video-learn/backend/internal/categories"
	"github.com/video-learn/backend/internal/config"
	"github.com/video-learn/backend/internal/media"
	"github.com/video-learn/backend/internal/store"
)

func NewRouter(st *store.Store, jwtService *auth.JWTService, cfg *config.Config, library *media.Library, cats *categories.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Brute-force protection on credential and chat endpoints
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(st, jwtService)
	videoHandler := handlers.NewVideoHandler(st, library, cats)
	feedbackHandler := handlers.NewFeedbackHandler(st)
	historyHandler := handlers.NewHistoryHandler(st)
	chatHandler := handlers.NewChatHandler()
	adminHandler := handlers.NewAdminHandler(st, authLimiter)
	categoriesHandler := handlers.NewCategoriesHandler(st, cats)

	// Uploaded files are served as-is; records in the catalog decide what is
	// visible in the UI.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(library.Dir())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Public
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(1 << 20))
			r.With(authLimiter.Handler).Post("/auth/register", authHandler.Register)
			r.With(authLimiter.Handler).Post("/auth/login", authHandler.Login)
			r.Get("/categories", categoriesHandler.List)
		})

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Uploads carry their own body limits
			r.Post("/videos/upload", videoHandler.Upload)
			r.Post("/videos/upload-batch", videoHandler.UploadBatch)

			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBodySize(1 << 20))

				r.Get("/auth/me", authHandler.Me)

				r.Get("/videos", videoHandler.List)
				r.Get("/videos/category", videoHandler.Category)

				r.Post("/feedback", feedbackHandler.Create)
				r.Get("/feedback", feedbackHandler.ListMine)

				r.Post("/history", historyHandler.Record)
				r.Get("/history", historyHandler.ListMine)
				r.Delete("/history", historyHandler.Reset)
				r.Get("/report/progress", historyHandler.ProgressReport)
				r.Get("/recommendation", historyHandler.Recommendation)

				r.With(authLimiter.Handler).Post("/chat", chatHandler.Message)
				r.Get("/chat/history", chatHandler.History)
				r.Post("/chat/reset", chatHandler.Reset)

				// Admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(store.RoleAdmin))

					r.Put("/videos/category", videoHandler.UpdateCategory)
					r.Delete("/videos", videoHandler.Delete)

					r.Put("/categories", categoriesHandler.Update)

					r.Get("/admin/users", adminHandler.ListUsers)
					r.Put("/admin/users/{username}/role", adminHandler.UpdateRole)
					r.Delete("/admin/users/{username}", adminHandler.DeleteUser)

					r.Get("/admin/feedback", feedbackHandler.ListAll)
					r.Delete("/admin/feedback/{id}", feedbackHandler.Delete)

					r.Get("/admin/categories/stats", categoriesHandler.Stats)
					r.Put("/admin/categories/batch", categoriesHandler.BatchRelabel)

					r.Get("/admin/ratelimit", adminHandler.RateLimitStatus)
					r.Delete("/admin/ratelimit", adminHandler.RateLimitClear)
				})
			})
		})
	})

	return r
}
