package server

import (
	"context"
	"errors"

	"github.com/trailcase/geohunt/internal/hunt"
)

var ErrNotFound = errors.New("not found")

// gameRecord is the row created per started game. The session and trail
// blobs belong to the progression core and are opaque here.
type gameRecord struct {
	Token    string
	TeamName string
}

// CaseSummary describes a stored case document without its content.
type CaseSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
	StageCount int    `json:"stageCount"`
	CreatedAt  string `json:"createdAt"`
}

// LeaderboardEntry is one finished game on the board.
type LeaderboardEntry struct {
	TeamName       string `json:"teamName"`
	TimeSec        int    `json:"timeSec"`
	HintsUsed      int    `json:"hintsUsed"`
	BonusCompleted bool   `json:"bonusCompleted"`
	CreatedAt      string `json:"createdAt"`
}

type operatorSession struct {
	OperatorID string
	Name       string
}

type Store interface {
	// Games.
	CreateGame(ctx context.Context, teamName string) (token string, err error)
	GameByToken(ctx context.Context, token string) (gameRecord, error)
	GameBlob(ctx context.Context, token, key string) (string, error)
	SetGameBlob(ctx context.Context, token, key, value string) error
	RemoveGameBlob(ctx context.Context, token, key string) error

	// Leaderboard.
	SubmitResult(ctx context.Context, sum hunt.Summary) error
	TopResults(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Cases.
	ActiveCase(ctx context.Context) (name string, doc []byte, err error)
	SaveCase(ctx context.Context, name string, doc []byte) (id string, err error)
	ListCases(ctx context.Context) ([]CaseSummary, error)

	// Operators.
	HasOperators(ctx context.Context) (bool, error)
	CreateOperator(ctx context.Context, name, passwordHash string) error
	OperatorByName(ctx context.Context, name string) (id, passwordHash string, err error)
	CreateOperatorSession(ctx context.Context, operatorID string) (string, error)
	OperatorFromSession(ctx context.Context, sessionID string) (operatorSession, error)
	DeleteOperatorSession(ctx context.Context, sessionID string) error
}
