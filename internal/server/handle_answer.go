package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/trailcase/geohunt/internal/hunt"
)

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	Correct        bool              `json:"correct"`
	Advanced       bool              `json:"advanced"`
	ToBonus        bool              `json:"toBonus"`
	Finished       bool              `json:"finished"`
	BonusCompleted bool              `json:"bonusCompleted"`
	State          GameStateResponse `json:"state"`
}

func handleAnswer(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing game token")
			return
		}

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
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
		if engine == nil || !engine.Session().Active {
			writeError(w, http.StatusConflict, "game is not active")
			return
		}

		now := time.Now()
		outcome := engine.SubmitAnswer(req.Answer, now)

		resp := AnswerResponse{
			Correct: outcome.Kind != hunt.OutcomeRejected,
			State:   gameStateResponse(engine, rec.TeamName, now),
		}

		switch outcome.Kind {
		case hunt.OutcomeAdvanced:
			resp.Advanced = true
			resp.ToBonus = outcome.ToBonus
			env.broker.Publish(token, GameEvent{
				Type:       "stage_advanced",
				StageIndex: engine.Session().StageIndex,
				ToBonus:    outcome.ToBonus,
			})
		case hunt.OutcomeFinished:
			resp.Finished = true
			resp.BonusCompleted = outcome.BonusCompleted

			sum := engine.Summary(rec.TeamName, now)
			if err := env.store.SubmitResult(r.Context(), sum); err != nil {
				// The game result screen still works; only the board entry
				// is lost.
				env.logger.Error("submitting result", "team", rec.TeamName, "error", err)
			}
			env.logger.Info("game finished",
				"team", rec.TeamName,
				"time_sec", sum.TimeSec,
				"hints_used", sum.HintsUsed,
				"bonus", sum.BonusCompleted,
			)
			env.broker.Publish(token, GameEvent{
				Type:           "finished",
				BonusCompleted: outcome.BonusCompleted,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
