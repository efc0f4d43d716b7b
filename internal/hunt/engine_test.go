package hunt

import (
	"testing"
	"time"
)

var engineEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// testCatalog has two regular stages followed by a bonus stage, with the
// threshold and penalties spelled out so gate tests are explicit.
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := ParseCatalog([]byte(`{
		"name": "test case",
		"meta": {"defaultRadiusM": 50, "bonusTimeThresholdSec": 4200},
		"penalties": {"hint1Sec": 120, "hint2Sec": 240, "hint3Sec": 360},
		"evidence": {
			"fingerprint": {"label": "Fingerprint"},
			"letter": {"label": "Torn letter"},
			"key": {"label": "Brass key"}
		},
		"stages": [
			{"id": "square", "title": "Old Square", "lat": 50.7663, "lng": 15.0543,
			 "answer": {"type": "number", "value": 42},
			 "evidenceUnlock": ["fingerprint"],
			 "hints": ["Count the windows", "Look at the tower", "It is 42"]},
			{"id": "bridge", "title": "Iron Bridge", "lat": 50.7700, "lng": 15.0600,
			 "radiusM": 25,
			 "answer": {"type": "text", "value": "Reichenberg"},
			 "evidenceUnlock": ["letter", "key"]},
			{"id": "chase", "title": "The Chase", "lat": 50.7720, "lng": 15.0650,
			 "isBonus": true,
			 "answer": {"type": "mcq", "value": "attic", "options": ["cellar", "attic", "roof"]}}
		]
	}`))
	if err != nil {
		t.Fatalf("test catalog: %v", err)
	}
	return c
}

func startEngine(t *testing.T) (*Engine, *memStorage) {
	t.Helper()
	store := newMemStorage()
	return Start(testCatalog(t), store, engineEpoch), store
}

func TestEvaluateAnswerNumber(t *testing.T) {
	stage := &Stage{Answer: Answer{Type: AnswerNumber, Value: float64(42)}}

	tests := []struct {
		given string
		want  bool
	}{
		{"42", true},
		{"42.0", true},
		{" 42 ", true},
		{"42a", false},
		{"", false},
		{"41", false},
		{"NaN", false},
		{"Inf", false},
	}

	for _, tt := range tests {
		t.Run(tt.given, func(t *testing.T) {
			if got := EvaluateAnswer(stage, tt.given); got != tt.want {
				t.Errorf("EvaluateAnswer(%q) = %v, want %v", tt.given, got, tt.want)
			}
		})
	}
}

func TestEvaluateAnswerText(t *testing.T) {
	stage := &Stage{Answer: Answer{Type: AnswerText, Value: "Reichenberg"}}

	for _, given := range []string{"Reichenberg", " Reichenberg ", "REICHENBERG", "reichenberg"} {
		if !EvaluateAnswer(stage, given) {
			t.Errorf("EvaluateAnswer(%q) = false, want true", given)
		}
	}
	for _, given := range []string{"", "  ", "Liberec"} {
		if EvaluateAnswer(stage, given) {
			t.Errorf("EvaluateAnswer(%q) = true, want false", given)
		}
	}
}

func TestEvaluateAnswerMCQ(t *testing.T) {
	stage := &Stage{Answer: Answer{Type: AnswerMCQ, Value: "attic", Options: []string{"cellar", "attic"}}}

	if !EvaluateAnswer(stage, "ATTIC ") {
		t.Error("mcq answers should be normalized before comparison")
	}
	if EvaluateAnswer(stage, "cellar") {
		t.Error("wrong option accepted")
	}
}

func TestUnlockEvidenceIdempotent(t *testing.T) {
	e, _ := startEngine(t)
	stage := e.CurrentStage()

	e.UnlockEvidence(stage)
	first := append([]string(nil), e.Session().Evidence...)

	e.UnlockEvidence(stage)
	if len(e.Session().Evidence) != len(first) {
		t.Errorf("second unlock changed evidence: %v vs %v", e.Session().Evidence, first)
	}
}

func TestUnlockEvidencePreservesOrder(t *testing.T) {
	e, _ := startEngine(t)

	e.UnlockEvidence(&e.Catalog().Stages[1]) // letter, key
	e.UnlockEvidence(&e.Catalog().Stages[0]) // fingerprint

	want := []string{"letter", "key", "fingerprint"}
	got := e.Session().Evidence
	if len(got) != len(want) {
		t.Fatalf("evidence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("evidence = %v, want %v", got, want)
		}
	}
}

func TestSubmitWrongAnswerChangesNothing(t *testing.T) {
	e, _ := startEngine(t)

	out := e.SubmitAnswer("nope", engineEpoch.Add(time.Minute))
	if out.Kind != OutcomeRejected {
		t.Fatalf("outcome = %v, want rejected", out.Kind)
	}

	s := e.Session()
	if s.StageIndex != 0 || s.PenaltySec != 0 || len(s.Evidence) != 0 {
		t.Errorf("wrong answer mutated session: %+v", s)
	}
}

func TestSubmitCorrectAnswerAdvances(t *testing.T) {
	e, store := startEngine(t)

	out := e.SubmitAnswer("42", engineEpoch.Add(time.Minute))
	if out.Kind != OutcomeAdvanced || out.ToBonus {
		t.Fatalf("outcome = %+v, want plain advance", out)
	}

	if e.Session().StageIndex != 1 {
		t.Errorf("StageIndex = %d, want 1", e.Session().StageIndex)
	}
	if len(e.Session().Evidence) != 1 || e.Session().Evidence[0] != "fingerprint" {
		t.Errorf("evidence = %v", e.Session().Evidence)
	}

	// Transition persisted.
	restored := LoadSession(store)
	if restored == nil || restored.StageIndex != 1 {
		t.Errorf("advance not persisted: %+v", restored)
	}
}

func TestBonusGateMissedSkipsBonus(t *testing.T) {
	e, _ := startEngine(t)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute))

	// 3000 s of play plus 1300 s of penalties: 4300 > 4200.
	e.Session().PenaltySec = 1300
	out := e.SubmitAnswer("Reichenberg", engineEpoch.Add(3000*time.Second))

	if out.Kind != OutcomeFinished || out.BonusCompleted {
		t.Fatalf("outcome = %+v, want finished without bonus", out)
	}

	s := e.Session()
	if s.BonusEligible {
		t.Error("BonusEligible should be false past the threshold")
	}
	if s.Active {
		t.Error("session should be terminal")
	}
	if s.BonusCompleted {
		t.Error("bonus stage was never visited, BonusCompleted must be false")
	}
	if s.StageIndex != 1 {
		t.Errorf("StageIndex = %d; the bonus stage must never be entered", s.StageIndex)
	}
}

func TestBonusGateBoundaryIsInclusive(t *testing.T) {
	e, _ := startEngine(t)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute))

	// 2900 s elapsed + 1300 s penalty == 4200, exactly the threshold.
	e.Session().PenaltySec = 1300
	out := e.SubmitAnswer("Reichenberg", engineEpoch.Add(2900*time.Second))

	if out.Kind != OutcomeAdvanced || !out.ToBonus {
		t.Fatalf("outcome = %+v, want advance into bonus", out)
	}
	if !e.Session().BonusEligible {
		t.Error("total time equal to the threshold must count as eligible")
	}
	if e.Session().StageIndex != 2 {
		t.Errorf("StageIndex = %d, want 2", e.Session().StageIndex)
	}
}

func TestBonusStageCorrectAnswerFinishesWithBonus(t *testing.T) {
	e, _ := startEngine(t)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute))
	e.SubmitAnswer("Reichenberg", engineEpoch.Add(2*time.Minute))

	out := e.SubmitAnswer("attic", engineEpoch.Add(3*time.Minute))
	if out.Kind != OutcomeFinished || !out.BonusCompleted {
		t.Fatalf("outcome = %+v, want finished with bonus", out)
	}
	if !e.Session().BonusCompleted {
		t.Error("BonusCompleted flag not set")
	}
	if e.Session().Active {
		t.Error("session should be terminal")
	}
}

func TestFinalStageWithoutBonusFinishes(t *testing.T) {
	store := newMemStorage()
	catalog, err := ParseCatalog([]byte(`{
		"stages": [
			{"id": "only", "answer": {"type": "text", "value": "done"}}
		]
	}`))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	e := Start(catalog, store, engineEpoch)
	out := e.SubmitAnswer("done", engineEpoch.Add(time.Minute))

	if out.Kind != OutcomeFinished || out.BonusCompleted {
		t.Fatalf("outcome = %+v, want finished without bonus", out)
	}
}

func TestUseHintAppliesPenaltyAndRepeats(t *testing.T) {
	e, _ := startEngine(t)

	text := e.UseHint(1, engineEpoch.Add(time.Minute))
	if text != "Count the windows" {
		t.Errorf("hint text = %q", text)
	}
	if e.Session().PenaltySec != 120 || e.Session().HintsUsed != 1 {
		t.Errorf("after hint 1: %+v", e.Session())
	}

	// Same level again charges again, no de-duplication.
	e.UseHint(1, engineEpoch.Add(2*time.Minute))
	if e.Session().PenaltySec != 240 || e.Session().HintsUsed != 2 {
		t.Errorf("after repeated hint 1: %+v", e.Session())
	}

	e.UseHint(3, engineEpoch.Add(3*time.Minute))
	if e.Session().PenaltySec != 600 {
		t.Errorf("PenaltySec = %d, want 600", e.Session().PenaltySec)
	}
}

func TestUseHintClampsLevelAndDegradesMissingText(t *testing.T) {
	e, _ := startEngine(t)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute)) // bridge stage has no hints

	text := e.UseHint(7, engineEpoch.Add(2*time.Minute))
	if text != "—" {
		t.Errorf("missing hint should degrade to placeholder, got %q", text)
	}
	if e.Session().PenaltySec != 360 {
		t.Errorf("level should clamp to 3: PenaltySec = %d", e.Session().PenaltySec)
	}

	e.UseHint(0, engineEpoch.Add(3*time.Minute))
	if e.Session().PenaltySec != 360+120 {
		t.Errorf("level should clamp to 1: PenaltySec = %d", e.Session().PenaltySec)
	}
}

func TestDistanceStatus(t *testing.T) {
	e, _ := startEngine(t)

	if _, ok := e.DistanceStatus(nil); ok {
		t.Error("nil position must report unavailable")
	}

	// Standing on the target.
	status, ok := e.DistanceStatus(&Position{Lat: 50.7663, Lng: 15.0543})
	if !ok {
		t.Fatal("expected a distance status")
	}
	if status.Meters != 0 || !status.WithinRadius {
		t.Errorf("on target: %+v", status)
	}

	// Far away.
	status, _ = e.DistanceStatus(&Position{Lat: 50.80, Lng: 15.10})
	if status.WithinRadius {
		t.Errorf("distant position reported within radius: %+v", status)
	}
}

func TestDistanceStatusStageRadiusOverride(t *testing.T) {
	e, _ := startEngine(t)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute)) // bridge, radiusM 25

	// ~40 m east of the bridge: inside the 50 m default but outside 25 m.
	status, ok := e.DistanceStatus(&Position{Lat: 50.7700, Lng: 15.06057})
	if !ok {
		t.Fatal("expected a distance status")
	}
	if status.Meters <= 25 || status.Meters > 50 {
		t.Fatalf("test position not in the intended band: %d m", status.Meters)
	}
	if status.WithinRadius {
		t.Error("stage radius override not applied")
	}
}

func TestResumeRestoresMidGame(t *testing.T) {
	store := newMemStorage()
	catalog := testCatalog(t)

	e := Start(catalog, store, engineEpoch)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute))
	e.RecordPosition(Position{Lat: 50.7663, Lng: 15.0543}, engineEpoch.Add(time.Minute))

	resumed := Resume(catalog, store)
	if resumed == nil {
		t.Fatal("expected a resumable session")
	}
	if resumed.Session().StageIndex != 1 {
		t.Errorf("resumed StageIndex = %d, want 1", resumed.Session().StageIndex)
	}
	if resumed.Trail().Len() != 1 {
		t.Errorf("resumed trail length = %d, want 1", resumed.Trail().Len())
	}
}

func TestResumeNilWhenFinishedOrMissing(t *testing.T) {
	store := newMemStorage()
	catalog := testCatalog(t)

	if Resume(catalog, store) != nil {
		t.Error("no persisted session should resume as nil")
	}

	e := Start(catalog, store, engineEpoch)
	e.Finish(false, engineEpoch.Add(time.Hour))

	if Resume(catalog, store) != nil {
		t.Error("a finished session must not be resumable")
	}
}

func TestResumeClampsCorruptStageIndex(t *testing.T) {
	store := newMemStorage()
	store.m["session"] = `{"active": true, "startedAt": "2026-03-14T09:00:00Z", "stageIndex": 99}`

	e := Resume(testCatalog(t), store)
	if e == nil {
		t.Fatal("session with bad index should still resume")
	}
	if got := e.CurrentStage(); got.ID != "chase" {
		t.Errorf("CurrentStage = %q, want last stage after clamp", got.ID)
	}
}

func TestStartSupersedesOldState(t *testing.T) {
	store := newMemStorage()
	catalog := testCatalog(t)

	e := Start(catalog, store, engineEpoch)
	e.SubmitAnswer("42", engineEpoch.Add(time.Minute))
	e.RecordPosition(Position{Lat: 1, Lng: 1}, engineEpoch.Add(time.Minute))

	fresh := Start(catalog, store, engineEpoch.Add(time.Hour))
	if fresh.Session().StageIndex != 0 {
		t.Error("fresh start must reset progress")
	}
	if fresh.Trail().Len() != 0 {
		t.Error("fresh start must clear the trail")
	}
}

func TestSummaryFrozenAfterFinish(t *testing.T) {
	e, _ := startEngine(t)
	e.UseHint(1, engineEpoch.Add(time.Minute))

	finishAt := engineEpoch.Add(600 * time.Second)
	e.Finish(false, finishAt)

	sum := e.Summary("Ghost Squad", finishAt.Add(time.Hour))
	if sum.TimeSec != 600+120 {
		t.Errorf("TimeSec = %d, want 720 (frozen at finish)", sum.TimeSec)
	}
	if sum.HintsUsed != 1 || sum.BonusCompleted {
		t.Errorf("summary = %+v", sum)
	}
	if sum.TeamName != "Ghost Squad" {
		t.Errorf("TeamName = %q", sum.TeamName)
	}
}

func TestEngineSurvivesFailingStorage(t *testing.T) {
	store := newMemStorage()
	store.failWrites = true

	e := Start(testCatalog(t), store, engineEpoch)
	out := e.SubmitAnswer("42", engineEpoch.Add(time.Minute))
	if out.Kind != OutcomeAdvanced {
		t.Fatalf("outcome = %+v; persistence failure must not block play", out)
	}
	if e.Session().StageIndex != 1 {
		t.Error("in-memory progression should continue despite failed writes")
	}
}
