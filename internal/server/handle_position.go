package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/trailcase/geohunt/internal/hunt"
)

// PositionRequest is one sample from the client's position feed. Failed
// means the feed reported an error instead of a fix; the sample fields are
// then ignored.
type PositionRequest struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	AccuracyM float64 `json:"accuracyM"`
	Failed    bool    `json:"failed,omitempty"`
}

type PositionResponse struct {
	TrailAccepted bool `json:"trailAccepted"`
	TrailLen      int  `json:"trailLen"`

	// Distance is nil when no fix is available. Advisory only; answers are
	// accepted regardless of proximity.
	Distance *DistanceView `json:"distance"`
}

type DistanceView struct {
	Meters       int  `json:"meters"`
	WithinRadius bool `json:"withinRadius"`
}

func handlePosition(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing game token")
			return
		}

		var req PositionRequest
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

		// A failed fix is non-fatal: the trail is untouched and distance
		// becomes unavailable.
		if req.Failed {
			writeJSON(w, http.StatusOK, PositionResponse{
				TrailLen: engine.Trail().Len(),
			})
			return
		}

		pos := hunt.Position{Lat: req.Lat, Lng: req.Lng, AccuracyM: req.AccuracyM}
		accepted := engine.RecordPosition(pos, time.Now())

		resp := PositionResponse{
			TrailAccepted: accepted,
			TrailLen:      engine.Trail().Len(),
		}
		if status, ok := engine.DistanceStatus(&pos); ok {
			resp.Distance = &DistanceView{
				Meters:       status.Meters,
				WithinRadius: status.WithinRadius,
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
