package hunt

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// OutcomeKind tags the result of an answer submission so callers can
// branch exhaustively instead of re-deriving the transition from session
// flags.
type OutcomeKind int

const (
	// OutcomeRejected means the answer was wrong. Nothing changed.
	OutcomeRejected OutcomeKind = iota
	// OutcomeAdvanced means the session moved to the next stage.
	OutcomeAdvanced
	// OutcomeFinished means the game ended with this answer.
	OutcomeFinished
)

// Outcome is the result of SubmitAnswer.
type Outcome struct {
	Kind OutcomeKind
	// ToBonus is set on OutcomeAdvanced when the next stage is the bonus.
	ToBonus bool
	// BonusCompleted is set on OutcomeFinished when the bonus stage was
	// solved. A finish caused by missing the bonus time gate, or by the
	// last regular stage, reports false.
	BonusCompleted bool
}

// Position is a geolocation sample from the position feed.
type Position struct {
	Lat       float64
	Lng       float64
	AccuracyM float64
}

// DistanceStatus reports how far the player is from the current stage
// target. Advisory only: proximity never gates answer submission.
type DistanceStatus struct {
	Meters       int
	WithinRadius bool
}

// Summary is the outbound result record produced once at game end.
type Summary struct {
	TeamName       string `json:"teamName"`
	TimeSec        int    `json:"timeSec"`
	HintsUsed      int    `json:"hintsUsed"`
	BonusCompleted bool   `json:"bonusCompleted"`
}

// Engine owns the game state for one session: catalog, session record, and
// breadcrumb trail. It is single-owner: handlers for answers, hints, and
// position samples run to completion one at a time, so mutations are atomic
// with respect to observers.
type Engine struct {
	catalog *Catalog
	session *Session
	trail   *Trail
	store   Storage
}

// Start creates a fresh session and cleared trail, superseding any
// persisted state under store.
func Start(catalog *Catalog, store Storage, now time.Time) *Engine {
	ClearSession(store)
	trail := NewTrail(store)
	trail.Clear()

	session := NewSession(now)
	SaveSession(store, session)

	return &Engine{
		catalog: catalog,
		session: session,
		trail:   trail,
		store:   store,
	}
}

// Open restores whatever session is persisted under store, active or
// finished. It returns nil when none exists or the stored state is
// corrupt, never an error.
func Open(catalog *Catalog, store Storage) *Engine {
	session := LoadSession(store)
	if session == nil {
		return nil
	}
	return &Engine{
		catalog: catalog,
		session: session,
		trail:   LoadTrail(store),
		store:   store,
	}
}

// Resume restores a persisted session for continued play. It returns nil
// when no resumable session exists (missing, corrupt, or already
// finished); the caller should redirect to a fresh start.
func Resume(catalog *Catalog, store Storage) *Engine {
	e := Open(catalog, store)
	if e == nil || !e.session.Active {
		return nil
	}
	return e
}

// Session exposes the current progress record. Callers must treat it as
// read-only; all mutation goes through the engine.
func (e *Engine) Session() *Session { return e.session }

// Catalog returns the stage content the engine was built with.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Trail returns the breadcrumb trail.
func (e *Engine) Trail() *Trail { return e.trail }

// CurrentStage returns the stage the session points at, clamping a
// corrupted index into range.
func (e *Engine) CurrentStage() *Stage {
	idx := e.session.ClampStageIndex(len(e.catalog.Stages))
	return &e.catalog.Stages[idx]
}

// normalizeAnswer prepares a text answer for comparison: surrounding
// whitespace and letter case are insignificant.
func normalizeAnswer(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// EvaluateAnswer reports whether given solves stage. Number answers require
// an exact numeric match, no tolerance. Text and mcq answers compare
// trimmed and case-folded. Empty input is wrong, not an error.
func EvaluateAnswer(stage *Stage, given string) bool {
	switch stage.Answer.Type {
	case AnswerNumber:
		want, ok := stage.Answer.Value.(float64)
		if !ok {
			return false
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(given), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return false
		}
		return n == want
	default:
		want, ok := stage.Answer.Value.(string)
		if !ok {
			return false
		}
		g := normalizeAnswer(given)
		return g != "" && g == normalizeAnswer(want)
	}
}

// UnlockEvidence appends the stage's evidence ids not already collected,
// preserving first-seen order. Idempotent.
func (e *Engine) UnlockEvidence(stage *Stage) {
	for _, id := range stage.EvidenceUnlock {
		found := false
		for _, have := range e.session.Evidence {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			e.session.Evidence = append(e.session.Evidence, id)
		}
	}
}

// SubmitAnswer is the central transition. A wrong answer changes nothing.
// A correct one unlocks evidence and then either advances, enters the
// bonus stage, skips it (time gate missed), or finishes the game.
func (e *Engine) SubmitAnswer(given string, now time.Time) Outcome {
	stage := e.CurrentStage()

	if !EvaluateAnswer(stage, given) {
		return Outcome{Kind: OutcomeRejected}
	}

	e.UnlockEvidence(stage)
	nextIndex := e.session.StageIndex + 1

	if nextIndex < len(e.catalog.Stages) && e.catalog.Stages[nextIndex].IsBonus {
		// Bonus gate. Elapsed time is recomputed here rather than read
		// from the cached ElapsedSec; the threshold check is inclusive.
		e.session.ElapsedSec = e.session.Elapsed(now) - e.session.PenaltySec
		totalTime := e.session.ElapsedSec + e.session.PenaltySec
		e.session.BonusEligible = totalTime <= e.catalog.Meta.BonusTimeThresholdSec

		if !e.session.BonusEligible {
			e.Finish(false, now)
			return Outcome{Kind: OutcomeFinished}
		}
		e.session.StageIndex = nextIndex
		SaveSession(e.store, e.session)
		return Outcome{Kind: OutcomeAdvanced, ToBonus: true}
	}

	if stage.IsBonus {
		e.Finish(true, now)
		return Outcome{Kind: OutcomeFinished, BonusCompleted: true}
	}

	if nextIndex >= len(e.catalog.Stages) {
		e.Finish(false, now)
		return Outcome{Kind: OutcomeFinished}
	}

	e.session.StageIndex = nextIndex
	SaveSession(e.store, e.session)
	return Outcome{Kind: OutcomeAdvanced}
}

// UseHint reveals the hint for level (clamped to [1,3]) and applies the
// configured time penalty. Requesting the same level again charges again.
// Missing hint text degrades to a placeholder, never an error.
func (e *Engine) UseHint(level int, now time.Time) string {
	stage := e.CurrentStage()

	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}

	text := "—"
	if level-1 < len(stage.Hints) && stage.Hints[level-1] != "" {
		text = stage.Hints[level-1]
	}

	var add int
	switch level {
	case 1:
		add = e.catalog.Penalties.Hint1Sec
	case 2:
		add = e.catalog.Penalties.Hint2Sec
	default:
		add = e.catalog.Penalties.Hint3Sec
	}

	e.session.PenaltySec += add
	e.session.HintsUsed++
	e.session.ElapsedSec = e.session.Elapsed(now) - e.session.PenaltySec
	SaveSession(e.store, e.session)

	return text
}

// HintPenalty returns the penalty seconds charged for a hint level without
// applying it, for display.
func (e *Engine) HintPenalty(level int) int {
	switch {
	case level <= 1:
		return e.catalog.Penalties.Hint1Sec
	case level == 2:
		return e.catalog.Penalties.Hint2Sec
	default:
		return e.catalog.Penalties.Hint3Sec
	}
}

// RecordPosition feeds a geolocation sample into the breadcrumb trail and
// reports whether the point was retained.
func (e *Engine) RecordPosition(pos Position, now time.Time) bool {
	return e.trail.Record(pos.Lat, pos.Lng, now)
}

// DistanceStatus reports the rounded distance from pos to the current
// stage target and whether it is within the stage radius (falling back to
// the catalog default). The second return is false when no fix is known.
func (e *Engine) DistanceStatus(pos *Position) (DistanceStatus, bool) {
	if pos == nil {
		return DistanceStatus{}, false
	}
	stage := e.CurrentStage()

	d := DistanceM(LatLng{Lat: pos.Lat, Lng: pos.Lng}, LatLng{Lat: stage.Lat, Lng: stage.Lng})
	meters := int(math.Round(d))

	radius := stage.RadiusM
	if radius <= 0 {
		radius = e.catalog.Meta.DefaultRadiusM
	}

	return DistanceStatus{
		Meters:       meters,
		WithinRadius: float64(meters) <= radius,
	}, true
}

// Finish ends the game. The session becomes terminal: no further mutation
// is valid, a new session must be created to play again.
func (e *Engine) Finish(bonusCompleted bool, now time.Time) {
	e.session.Active = false
	e.session.BonusCompleted = bonusCompleted
	e.session.ElapsedSec = e.session.Elapsed(now) - e.session.PenaltySec
	SaveSession(e.store, e.session)
}

// Summary builds the outbound result record for the leaderboard. After a
// finish the time is frozen at the instant Finish ran.
func (e *Engine) Summary(teamName string, now time.Time) Summary {
	timeSec := e.session.Elapsed(now)
	if !e.session.Active {
		timeSec = e.session.ElapsedSec + e.session.PenaltySec
	}
	return Summary{
		TeamName:       teamName,
		TimeSec:        timeSec,
		HintsUsed:      e.session.HintsUsed,
		BonusCompleted: e.session.BonusCompleted,
	}
}

// Reset clears all persisted state for this session.
func (e *Engine) Reset() {
	ClearSession(e.store)
	e.trail.Clear()
}
