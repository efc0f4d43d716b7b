package hunt

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoStages is returned when a catalog document contains no stages.
// A game cannot start without content, so callers must surface this.
var ErrNoStages = errors.New("catalog has no stages")

// Hint penalty fallbacks, applied when the catalog omits a value.
const (
	defaultHint1Sec = 120
	defaultHint2Sec = 240
	defaultHint3Sec = 360
)

const (
	defaultRadiusM           = 50.0
	defaultBonusThresholdSec = 4200
)

// ParseCatalog decodes and validates a catalog document. Catalog load
// failure is fatal to entering play; the engine is never constructed with
// an empty or malformed catalog.
func ParseCatalog(doc []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(c.Stages) == 0 {
		return nil, ErrNoStages
	}

	if c.Meta.DefaultRadiusM <= 0 {
		c.Meta.DefaultRadiusM = defaultRadiusM
	}
	if c.Meta.BonusTimeThresholdSec <= 0 {
		c.Meta.BonusTimeThresholdSec = defaultBonusThresholdSec
	}
	if c.Penalties.Hint1Sec <= 0 {
		c.Penalties.Hint1Sec = defaultHint1Sec
	}
	if c.Penalties.Hint2Sec <= 0 {
		c.Penalties.Hint2Sec = defaultHint2Sec
	}
	if c.Penalties.Hint3Sec <= 0 {
		c.Penalties.Hint3Sec = defaultHint3Sec
	}

	for i, s := range c.Stages {
		if s.ID == "" {
			return nil, fmt.Errorf("stage %d: missing id", i)
		}
		if s.Answer.Value == nil {
			return nil, fmt.Errorf("stage %q: missing answer value", s.ID)
		}
		if s.Answer.Type == AnswerNumber {
			if _, ok := s.Answer.Value.(float64); !ok {
				return nil, fmt.Errorf("stage %q: number answer value is not numeric", s.ID)
			}
		}
		if len(s.Hints) > 3 {
			return nil, fmt.Errorf("stage %q: at most 3 hints allowed", s.ID)
		}
	}

	return &c, nil
}
