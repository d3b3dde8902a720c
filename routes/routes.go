package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/interclass/tournament-system/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	teamHandler *handlers.TeamHandler,
	gameHandler *handlers.GameHandler,
	standingsHandler *handlers.StandingsHandler,
	fixtureHandler *handlers.FixtureHandler,
	schedulerHandler *handlers.SchedulerHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Post("/", teamHandler.Create)
		r.Get("/{id}", teamHandler.Get)
		r.Put("/{id}/crest", teamHandler.UploadCrest)
	})

	router.Route("/games", func(r chi.Router) {
		r.Post("/", gameHandler.Create)
		r.Get("/{id}", gameHandler.Get)
		r.Get("/{id}/time", gameHandler.GameTime)
		r.Put("/{id}/schedule", gameHandler.Reschedule)
		r.Post("/{id}/transition", gameHandler.Transition)
		r.Put("/{id}/score", gameHandler.UpdateScore)
		r.Post("/{id}/events", gameHandler.RecordEvent)
	})

	router.Route("/standings/{modality}/{category}/{group}", func(r chi.Router) {
		r.Get("/", standingsHandler.Table)
		r.Get("/qualified", standingsHandler.Qualified)
	})

	router.Route("/fixtures/{modality}/{category}", func(r chi.Router) {
		r.Post("/group-stage", fixtureHandler.GenerateGroupStage)
		r.Post("/semifinals", fixtureHandler.GenerateSemifinals)
		r.Post("/semifinals/manual", fixtureHandler.GenerateSemifinalsManual)
		r.Post("/final", fixtureHandler.GenerateFinal)
		r.Post("/all", fixtureHandler.GenerateAll)
	})

	router.Post("/scheduler/sweep", schedulerHandler.ForceSweep)

	router.Get("/ws/games", webSocketHandler.Subscribe)
}
