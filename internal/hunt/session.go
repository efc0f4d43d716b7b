package hunt

import (
	"encoding/json"
	"time"
)

const sessionKey = "session"

// Session is the authoritative progress record for one game. Elapsed time
// is always derived from StartedAt rather than accumulated, so it stays
// correct across reloads.
type Session struct {
	Active         bool      `json:"active"`
	StartedAt      time.Time `json:"startedAt"`
	ElapsedSec     int       `json:"elapsedSec"`
	PenaltySec     int       `json:"penaltySec"`
	HintsUsed      int       `json:"hintsUsed"`
	StageIndex     int       `json:"stageIndex"`
	Evidence       []string  `json:"evidence"`
	BonusEligible  bool      `json:"bonusEligible"`
	BonusCompleted bool      `json:"bonusCompleted"`
}

// NewSession returns a fresh active session started at now.
func NewSession(now time.Time) *Session {
	return &Session{
		Active:    true,
		StartedAt: now,
		Evidence:  []string{},
	}
}

// Elapsed returns whole display seconds: floor of wall-clock time since
// start plus the accumulated hint penalty.
func (s *Session) Elapsed(now time.Time) int {
	base := int(now.Sub(s.StartedAt) / time.Second)
	if base < 0 {
		base = 0
	}
	return base + s.PenaltySec
}

// ClampStageIndex forces StageIndex into [0, stageCount-1] and returns it.
// An out-of-range value from corrupted persistence is treated as 0.
func (s *Session) ClampStageIndex(stageCount int) int {
	idx := s.StageIndex
	if idx > stageCount-1 {
		idx = stageCount - 1
	}
	if idx < 0 {
		idx = 0
	}
	s.StageIndex = idx
	return idx
}

// LoadSession restores a persisted session. Missing or corrupt state is
// treated as "no session" and returns nil, never an error.
func LoadSession(store Storage) *Session {
	raw, ok := store.Get(sessionKey)
	if !ok {
		return nil
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	if s.Evidence == nil {
		s.Evidence = []string{}
	}
	return &s
}

// SaveSession persists the session. Storage failures are swallowed:
// gameplay continues in memory with degraded resumability.
func SaveSession(store Storage, s *Session) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	_ = store.Set(sessionKey, string(raw))
}

// ClearSession removes any persisted session.
func ClearSession(store Storage) {
	_ = store.Remove(sessionKey)
}
