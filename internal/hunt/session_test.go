package hunt

import (
	"testing"
	"time"
)

var sessionEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(sessionEpoch)

	if !s.Active {
		t.Error("new session must be active")
	}
	if !s.StartedAt.Equal(sessionEpoch) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, sessionEpoch)
	}
	if s.StageIndex != 0 || s.PenaltySec != 0 || s.HintsUsed != 0 {
		t.Errorf("counters not zero: %+v", s)
	}
	if s.Evidence == nil || len(s.Evidence) != 0 {
		t.Errorf("evidence should be empty, got %v", s.Evidence)
	}
	if s.BonusEligible || s.BonusCompleted {
		t.Error("bonus flags must start false")
	}
}

func TestSessionElapsedDerivedFromStart(t *testing.T) {
	s := NewSession(sessionEpoch)
	s.PenaltySec = 120

	got := s.Elapsed(sessionEpoch.Add(90*time.Second + 700*time.Millisecond))
	if got != 90+120 {
		t.Errorf("Elapsed = %d, want %d", got, 210)
	}
}

func TestSessionElapsedClockSkewClampsToZero(t *testing.T) {
	s := NewSession(sessionEpoch)

	if got := s.Elapsed(sessionEpoch.Add(-time.Minute)); got != 0 {
		t.Errorf("Elapsed with now before start = %d, want 0", got)
	}
}

func TestClampStageIndex(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		stageCount int
		want       int
	}{
		{"in range", 2, 5, 2},
		{"negative", -3, 5, 0},
		{"past end", 99, 5, 4},
		{"zero", 0, 5, 0},
		{"last", 4, 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{StageIndex: tt.index}
			if got := s.ClampStageIndex(tt.stageCount); got != tt.want {
				t.Errorf("ClampStageIndex = %d, want %d", got, tt.want)
			}
			if s.StageIndex != tt.want {
				t.Errorf("StageIndex not written back: %d", s.StageIndex)
			}
		})
	}
}

func TestLoadSessionRoundTrip(t *testing.T) {
	store := newMemStorage()

	s := NewSession(sessionEpoch)
	s.StageIndex = 3
	s.PenaltySec = 240
	s.Evidence = []string{"fingerprint", "letter"}
	SaveSession(store, s)

	got := LoadSession(store)
	if got == nil {
		t.Fatal("expected a restored session")
	}
	if got.StageIndex != 3 || got.PenaltySec != 240 {
		t.Errorf("restored session mismatch: %+v", got)
	}
	if len(got.Evidence) != 2 || got.Evidence[0] != "fingerprint" {
		t.Errorf("evidence order not preserved: %v", got.Evidence)
	}
}

func TestLoadSessionMissingOrCorrupt(t *testing.T) {
	store := newMemStorage()
	if LoadSession(store) != nil {
		t.Error("missing session should load as nil")
	}

	store.m["session"] = "{broken"
	if LoadSession(store) != nil {
		t.Error("corrupt session should load as nil, never error")
	}
}

func TestClearSession(t *testing.T) {
	store := newMemStorage()
	SaveSession(store, NewSession(sessionEpoch))

	ClearSession(store)
	if LoadSession(store) != nil {
		t.Error("session should be gone after ClearSession")
	}
}

func TestSaveSessionSwallowsWriteFailure(t *testing.T) {
	store := newMemStorage()
	store.failWrites = true

	// Must not panic or surface the error.
	SaveSession(store, NewSession(sessionEpoch))
	ClearSession(store)
}
