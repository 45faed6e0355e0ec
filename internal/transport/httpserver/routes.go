package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"smartshopping-go/internal/config"
	"smartshopping-go/internal/transport/httpserver/handler"
	authmw "smartshopping-go/internal/transport/httpserver/middleware"
	"smartshopping-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins, cfg.CORSAllowedHeaders))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/lists", handlers.Lists.ListLists)
			r.Post("/lists", handlers.Lists.CreateList)
			r.Post("/lists/refresh", handlers.Lists.RefreshLists)
			r.Delete("/lists/cache", handlers.Lists.ClearCache)
			r.Get("/lists/{list_id}", handlers.Lists.GetList)
			r.Put("/lists/{list_id}", handlers.Lists.UpdateList)
			r.Delete("/lists/{list_id}", handlers.Lists.DeleteList)
			r.Post("/lists/{list_id}/toggle-completion", handlers.Lists.ToggleListCompletion)

			r.Post("/lists/{list_id}/items", handlers.Lists.CreateItem)
			r.Put("/items/{item_id}", handlers.Lists.UpdateItem)
			r.Delete("/items/{item_id}", handlers.Lists.DeleteItem)
			r.Post("/items/{item_id}/toggle-purchased", handlers.Lists.TogglePurchased)

			r.Get("/templates", handlers.Templates.ListTemplates)
			r.Post("/templates", handlers.Templates.CreateTemplate)
			r.Delete("/templates/{template_id}", handlers.Templates.DeleteTemplate)
			r.Post("/templates/{template_id}/favorite", handlers.Templates.ToggleFavorite)
			r.Post("/templates/{template_id}/use", handlers.Templates.UseTemplate)

			r.Get("/analytics/summary", handlers.Analytics.Summary)
			r.Get("/analytics/by-category", handlers.Analytics.ByCategory)
			r.Get("/analytics/monthly", handlers.Analytics.Monthly)
		})
	})

	return r
}
