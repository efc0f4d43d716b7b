// Package hunt implements the scavenger-hunt progression core: catalog
// parsing, session state, answer evaluation, hint penalties, bonus gating,
// and the GPS breadcrumb trail. It has zero external dependencies —
// everything here is pure Go.
package hunt

// AnswerType selects how a submitted answer is compared against the
// expected value.
type AnswerType string

const (
	AnswerText   AnswerType = "text"
	AnswerNumber AnswerType = "number"
	AnswerMCQ    AnswerType = "mcq"
)

// Answer is the expected solution for a stage. Value holds a string for
// text/mcq answers and a number for number answers (decoded from JSON as
// float64).
type Answer struct {
	Type    AnswerType `json:"type"`
	Value   any        `json:"value"`
	Options []string   `json:"options,omitempty"`
}

// Stage is one stop of the hunt. RadiusM of zero means "use the catalog
// default".
type Stage struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Story          string   `json:"story"`
	Task           string   `json:"task"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	RadiusM        float64  `json:"radiusM,omitempty"`
	IsBonus        bool     `json:"isBonus,omitempty"`
	Answer         Answer   `json:"answer"`
	EvidenceUnlock []string `json:"evidenceUnlock,omitempty"`
	Hints          []string `json:"hints,omitempty"`
}

// Meta carries catalog-wide tuning values.
type Meta struct {
	DefaultRadiusM        float64 `json:"defaultRadiusM"`
	BonusTimeThresholdSec int     `json:"bonusTimeThresholdSec"`
}

// Penalties are the time penalties added per hint level.
type Penalties struct {
	Hint1Sec int `json:"hint1Sec"`
	Hint2Sec int `json:"hint2Sec"`
	Hint3Sec int `json:"hint3Sec"`
}

// EvidenceItem is a display label for an unlockable evidence id.
type EvidenceItem struct {
	Label string `json:"label"`
}

// Catalog is the read-only stage content for one hunt. Parsed once at game
// start; the engine never mutates it.
type Catalog struct {
	Name      string                  `json:"name"`
	Meta      Meta                    `json:"meta"`
	Penalties Penalties               `json:"penalties"`
	Stages    []Stage                 `json:"stages"`
	Evidence  map[string]EvidenceItem `json:"evidence,omitempty"`
}

// EvidenceLabel resolves an evidence id to its display label, falling back
// to the id itself.
func (c *Catalog) EvidenceLabel(id string) string {
	if item, ok := c.Evidence[id]; ok && item.Label != "" {
		return item.Label
	}
	return id
}

// MainStageCount is the number of non-bonus stages, used for progress
// display.
func (c *Catalog) MainStageCount() int {
	n := 0
	for _, s := range c.Stages {
		if !s.IsBonus {
			n++
		}
	}
	return n
}

// Storage is the persistence collaborator for session and trail state.
// Implementations may be backed by anything (SQLite row, file, memory);
// the core treats Set/Remove failures as non-fatal and callers of Get
// treat a missing key as "no state".
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}
