package server

import (
	"errors"
	"net/http"
	"time"
)

type HintRequest struct {
	Level int `json:"level"`
}

type HintResponse struct {
	Text          string `json:"text"`
	PenaltyAddSec int    `json:"penaltyAddSec"`
	PenaltySec    int    `json:"penaltySec"`
	HintsUsed     int    `json:"hintsUsed"`
}

func handleHint(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing game token")
			return
		}

		var req HintRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		unlock := env.locks.lock(token)
		defer unlock()

		engine, _, err := env.openEngine(r.Context(), token)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid or missing game token")
			return
		}
		if err != nil {
			env.logger.Error("loading game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if engine == nil || !engine.Session().Active {
			writeError(w, http.StatusConflict, "game is not active")
			return
		}

		before := engine.Session().PenaltySec
		text := engine.UseHint(req.Level, time.Now())

		env.broker.Publish(token, GameEvent{
			Type:      "hint_used",
			HintLevel: req.Level,
		})

		writeJSON(w, http.StatusOK, HintResponse{
			Text:          text,
			PenaltyAddSec: engine.Session().PenaltySec - before,
			PenaltySec:    engine.Session().PenaltySec,
			HintsUsed:     engine.Session().HintsUsed,
		})
	}
}
