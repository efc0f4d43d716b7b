package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/trailcase/geohunt/internal/hunt"
)

type StartRequest struct {
	TeamName string `json:"teamName"`
}

type StartResponse struct {
	Token string            `json:"token"`
	State GameStateResponse `json:"state"`
}

func handleStart(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.TeamName = strings.TrimSpace(req.TeamName)
		if req.TeamName == "" {
			writeError(w, http.StatusBadRequest, "teamName is required")
			return
		}

		token, err := env.store.CreateGame(r.Context(), req.TeamName)
		if err != nil {
			env.logger.Error("creating game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		now := time.Now()
		storage := gameStorage{ctx: r.Context(), store: env.store, token: token, logger: env.logger}
		engine := hunt.Start(env.cases.Active(), storage, now)

		env.logger.Info("game started", "team", req.TeamName)

		writeJSON(w, http.StatusOK, StartResponse{
			Token: token,
			State: gameStateResponse(engine, req.TeamName, now),
		})
	}
}
