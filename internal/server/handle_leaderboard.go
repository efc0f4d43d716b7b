package server

import (
	"net/http"
	"strconv"
)

const (
	leaderboardDefaultLimit = 30
	leaderboardMaxLimit     = 100
)

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

func handleLeaderboard(env *gameEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := leaderboardDefaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = min(n, leaderboardMaxLimit)
		}

		entries, err := env.store.TopResults(r.Context(), limit)
		if err != nil {
			env.logger.Error("reading leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
	}
}
