package server

import (
	"errors"
	"net/http"
	"time"
)

func handleState(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing game token")
			return
		}

		unlock := env.locks.lock(token)
		defer unlock()

		engine, rec, err := env.openEngine(r.Context(), token)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid or missing game token")
			return
		}
		if err != nil {
			env.logger.Error("loading game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if engine == nil {
			writeError(w, http.StatusConflict, "no session for this game, start again")
			return
		}

		writeJSON(w, http.StatusOK, gameStateResponse(engine, rec.TeamName, time.Now()))
	}
}
