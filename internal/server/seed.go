package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// demoCase is a playable three-stop case through old Reichenberg with a
// time-gated bonus chase at the end.
const demoCase = `{
  "name": "Case Reichenberg",
  "meta": {"defaultRadiusM": 50, "bonusTimeThresholdSec": 4200},
  "penalties": {"hint1Sec": 120, "hint2Sec": 240, "hint3Sec": 360},
  "evidence": {
    "fingerprint": {"label": "Smudged fingerprint"},
    "letter": {"label": "Torn letter"},
    "key": {"label": "Brass key"},
    "photo": {"label": "Faded photograph"}
  },
  "stages": [
    {
      "id": "town-hall",
      "title": "Town Hall Clock",
      "story": "The suspect was last seen beneath the clock tower at dusk.",
      "task": "How many statues guard the main entrance?",
      "lat": 50.7702, "lng": 15.0584,
      "answer": {"type": "number", "value": 4},
      "evidenceUnlock": ["fingerprint"],
      "hints": [
        "They stand above the doorway.",
        "Count only full figures, not reliefs.",
        "There are four of them."
      ]
    },
    {
      "id": "theatre",
      "title": "Theatre Alley",
      "story": "A torn letter was dropped near the stage door.",
      "task": "What name is carved over the side entrance?",
      "lat": 50.7694, "lng": 15.0571, "radiusM": 35,
      "answer": {"type": "text", "value": "Schiller"},
      "evidenceUnlock": ["letter", "key"],
      "hints": [
        "A German playwright.",
        "He wrote Die Räuber.",
        "The name is Schiller."
      ]
    },
    {
      "id": "reservoir",
      "title": "Harcov Reservoir",
      "story": "The key opens a boathouse locker by the dam.",
      "task": "Where did the suspect hide the photograph?",
      "lat": 50.7667, "lng": 15.0782,
      "answer": {"type": "mcq", "value": "boathouse", "options": ["dam wall", "boathouse", "spillway"]},
      "evidenceUnlock": ["photo"],
      "hints": ["Closer to the water than you think."]
    },
    {
      "id": "chase",
      "title": "The Chase",
      "story": "You are close. One last sprint before the trail goes cold.",
      "task": "Which way did the suspect run?",
      "lat": 50.7721, "lng": 15.0739, "isBonus": true,
      "answer": {"type": "mcq", "value": "north", "options": ["north", "south", "east"]}
    }
  ]
}`

// SeedDemo stores the demo case (when no case exists) and creates the
// first operator account. Idempotent.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store, operatorName, operatorPassword string) error {
	if _, _, err := store.ActiveCase(ctx); errors.Is(err, ErrNotFound) {
		if _, err := store.SaveCase(ctx, "Case Reichenberg", []byte(demoCase)); err != nil {
			return fmt.Errorf("seeding demo case: %w", err)
		}
		logger.Info("demo case seeded")
	} else if err != nil {
		return err
	}

	hasOps, err := store.HasOperators(ctx)
	if err != nil {
		return err
	}
	if hasOps || operatorPassword == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing operator password: %w", err)
	}
	if err := store.CreateOperator(ctx, operatorName, string(hash)); err != nil {
		return fmt.Errorf("creating operator: %w", err)
	}
	logger.Info("operator account created", "name", operatorName)
	return nil
}
