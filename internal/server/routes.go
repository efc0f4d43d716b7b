package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, cases *CaseRegistry) {
	env := &gameEnv{
		logger: logger,
		store:  store,
		cases:  cases,
		broker: NewBroker(),
		locks:  newGameLocks(),
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoHunt API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api/game", func(r chi.Router) {
		r.Post("/start", handleStart(env))
		r.Get("/state", handleState(env))
		r.Post("/answer", handleAnswer(env))
		r.Post("/hint", handleHint(env))
		r.Post("/position", handlePosition(env))
		r.Post("/reset", handleReset(env))
		r.Get("/events", handleEvents(env))
	})

	r.Get("/api/leaderboard", handleLeaderboard(env))

	r.Post("/api/operator/login", handleOperatorLogin(env))
	r.Post("/api/operator/logout", handleOperatorLogout(env))
	r.Route("/api/operator/cases", func(r chi.Router) {
		r.Use(operatorAuthMiddleware(store))
		r.Get("/", handleListCases(env))
		r.Put("/active", handleUploadCase(env))
	})
}
