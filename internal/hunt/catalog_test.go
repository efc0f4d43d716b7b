package hunt

import (
	"errors"
	"testing"
)

func TestParseCatalogDefaults(t *testing.T) {
	c, err := ParseCatalog([]byte(`{
		"name": "minimal",
		"stages": [
			{"id": "s1", "title": "One", "lat": 50, "lng": 15,
			 "answer": {"type": "text", "value": "ok"}}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	if c.Meta.DefaultRadiusM != 50 {
		t.Errorf("DefaultRadiusM = %v, want 50", c.Meta.DefaultRadiusM)
	}
	if c.Meta.BonusTimeThresholdSec != 4200 {
		t.Errorf("BonusTimeThresholdSec = %d, want 4200", c.Meta.BonusTimeThresholdSec)
	}
	if c.Penalties.Hint1Sec != 120 || c.Penalties.Hint2Sec != 240 || c.Penalties.Hint3Sec != 360 {
		t.Errorf("penalty fallbacks wrong: %+v", c.Penalties)
	}
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"stages": [`},
		{"no stages", `{"stages": []}`},
		{"missing stage id", `{"stages": [{"title": "x", "answer": {"type": "text", "value": "a"}}]}`},
		{"missing answer value", `{"stages": [{"id": "s1", "answer": {"type": "text"}}]}`},
		{"non-numeric number answer", `{"stages": [{"id": "s1", "answer": {"type": "number", "value": "42"}}]}`},
		{"too many hints", `{"stages": [{"id": "s1", "answer": {"type": "text", "value": "a"},
			"hints": ["a", "b", "c", "d"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.doc)); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseCatalogNoStagesSentinel(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"stages": []}`))
	if !errors.Is(err, ErrNoStages) {
		t.Errorf("expected ErrNoStages, got %v", err)
	}
}

func TestEvidenceLabelFallsBackToID(t *testing.T) {
	c := &Catalog{Evidence: map[string]EvidenceItem{
		"fingerprint": {Label: "Otisk prstu"},
	}}

	if got := c.EvidenceLabel("fingerprint"); got != "Otisk prstu" {
		t.Errorf("EvidenceLabel = %q", got)
	}
	if got := c.EvidenceLabel("unknown"); got != "unknown" {
		t.Errorf("EvidenceLabel fallback = %q, want id", got)
	}
}

func TestMainStageCountExcludesBonus(t *testing.T) {
	c := &Catalog{Stages: []Stage{
		{ID: "a"}, {ID: "b"}, {ID: "bonus", IsBonus: true},
	}}
	if got := c.MainStageCount(); got != 2 {
		t.Errorf("MainStageCount = %d, want 2", got)
	}
}
