package server

import (
	"time"

	"github.com/trailcase/geohunt/internal/hunt"
)

// StageView is the client-facing projection of a stage. Expected answers
// and hint texts never leave the server through it.
type StageView struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Story      string   `json:"story"`
	Task       string   `json:"task"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	RadiusM    float64  `json:"radiusM"`
	IsBonus    bool     `json:"isBonus"`
	AnswerType string   `json:"answerType"`
	Options    []string `json:"options,omitempty"`
	HintCount  int      `json:"hintCount"`
}

// ProgressView mirrors the original progress bar: bonus stages do not
// count toward the total.
type ProgressView struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

type EvidenceView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type GameStateResponse struct {
	TeamName       string            `json:"teamName"`
	Active         bool              `json:"active"`
	StartedAt      time.Time         `json:"startedAt"`
	ElapsedSec     int               `json:"elapsedSec"`
	PenaltySec     int               `json:"penaltySec"`
	HintsUsed      int               `json:"hintsUsed"`
	Stage          *StageView        `json:"stage,omitempty"`
	Progress       ProgressView      `json:"progress"`
	Evidence       []EvidenceView    `json:"evidence"`
	Trail          []hunt.TrailPoint `json:"trail"`
	BonusEligible  bool              `json:"bonusEligible"`
	BonusCompleted bool              `json:"bonusCompleted"`
}

func stageView(catalog *hunt.Catalog, stage *hunt.Stage) *StageView {
	radius := stage.RadiusM
	if radius <= 0 {
		radius = catalog.Meta.DefaultRadiusM
	}

	answerType := string(stage.Answer.Type)
	if answerType == "" {
		answerType = string(hunt.AnswerText)
	}

	return &StageView{
		ID:         stage.ID,
		Title:      stage.Title,
		Story:      stage.Story,
		Task:       stage.Task,
		Lat:        stage.Lat,
		Lng:        stage.Lng,
		RadiusM:    radius,
		IsBonus:    stage.IsBonus,
		AnswerType: answerType,
		Options:    stage.Answer.Options,
		HintCount:  len(stage.Hints),
	}
}

func progressView(catalog *hunt.Catalog, stage *hunt.Stage) ProgressView {
	total := catalog.MainStageCount()

	completed := 0
	if stage.IsBonus {
		completed = total
	} else {
		for _, s := range catalog.Stages {
			if s.ID == stage.ID {
				break
			}
			if !s.IsBonus {
				completed++
			}
		}
	}

	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	return ProgressView{Completed: completed, Total: total, Percent: pct}
}

func evidenceViews(catalog *hunt.Catalog, ids []string) []EvidenceView {
	out := make([]EvidenceView, 0, len(ids))
	for _, id := range ids {
		out = append(out, EvidenceView{ID: id, Label: catalog.EvidenceLabel(id)})
	}
	return out
}

func gameStateResponse(engine *hunt.Engine, teamName string, now time.Time) GameStateResponse {
	catalog := engine.Catalog()
	session := engine.Session()
	stage := engine.CurrentStage()

	elapsed := session.Elapsed(now)
	if !session.Active {
		// Frozen at finish time.
		elapsed = session.ElapsedSec + session.PenaltySec
	}

	resp := GameStateResponse{
		TeamName:       teamName,
		Active:         session.Active,
		StartedAt:      session.StartedAt,
		ElapsedSec:     elapsed,
		PenaltySec:     session.PenaltySec,
		HintsUsed:      session.HintsUsed,
		Progress:       progressView(catalog, stage),
		Evidence:       evidenceViews(catalog, session.Evidence),
		Trail:          engine.Trail().Points(),
		BonusEligible:  session.BonusEligible,
		BonusCompleted: session.BonusCompleted,
	}
	if session.Active {
		resp.Stage = stageView(catalog, stage)
	}
	return resp
}
