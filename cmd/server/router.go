package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hearthsidehq/hearthside-api/internal/api"
	apiMiddleware "github.com/hearthsidehq/hearthside-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.memberService, app.jwtService)
	circleHandler := api.NewCircleHandler(app.circleService)
	storyHandler := api.NewStoryHandler(app.storyService)
	timelineHandler := api.NewTimelineHandler(app.timelineService)
	searchHandler := api.NewSearchHandler(app.searchService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)
		r.Post("/users/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/profile", authHandler.Profile)
			r.Post("/users/me/children", authHandler.AddChild)

			r.Post("/circles", circleHandler.Create)
			r.Get("/circles", circleHandler.List)
			r.Post("/circles/{id}/members", circleHandler.AddMember)
			r.Delete("/circles/{circleID}/members/{memberID}", circleHandler.RemoveMember)

			r.Post("/stories", storyHandler.Create)
			r.Get("/stories", storyHandler.List)
			r.Get("/stories/feed", storyHandler.Feed)
			r.Get("/stories/{id}", storyHandler.Get)
			r.Put("/stories/{id}", storyHandler.Update)
			r.Delete("/stories/{id}", storyHandler.Delete)
			r.Put("/stories/{id}/share", storyHandler.Share)

			r.Post("/timelines", timelineHandler.Create)
			r.Get("/timelines", timelineHandler.List)
			r.Get("/timelines/{id}", timelineHandler.Get)
			r.Post("/timelines/{id}/events", timelineHandler.AddEvent)
			r.Delete("/timelines/{timelineID}/events/{eventID}", timelineHandler.RemoveEvent)

			r.Get("/search", searchHandler.Search)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
