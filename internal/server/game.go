package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/trailcase/geohunt/internal/hunt"
)

// gameStorage adapts the server Store to the progression core's Storage
// contract for one game row. Write failures are logged and reported back
// to the core, which swallows them: gameplay continues in memory.
type gameStorage struct {
	ctx    context.Context
	store  Store
	token  string
	logger *slog.Logger
}

func (g gameStorage) Get(key string) (string, bool) {
	value, err := g.store.GameBlob(g.ctx, g.token, key)
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		g.logger.Warn("reading game state", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (g gameStorage) Set(key, value string) error {
	if err := g.store.SetGameBlob(g.ctx, g.token, key, value); err != nil {
		g.logger.Warn("persisting game state", "key", key, "error", err)
		return err
	}
	return nil
}

func (g gameStorage) Remove(key string) error {
	if err := g.store.RemoveGameBlob(g.ctx, g.token, key); err != nil {
		g.logger.Warn("clearing game state", "key", key, "error", err)
		return err
	}
	return nil
}

// gameLocks serializes handlers per game token. The progression core
// assumes single-owner mutation: position updates, hints, and answers for
// one game must not interleave mid-transition.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[string]*sync.Mutex)}
}

func (g *gameLocks) lock(token string) func() {
	g.mu.Lock()
	l, ok := g.locks[token]
	if !ok {
		l = &sync.Mutex{}
		g.locks[token] = l
	}
	g.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// gameEnv bundles what every game handler needs.
type gameEnv struct {
	logger *slog.Logger
	store  Store
	cases  *CaseRegistry
	broker *Broker
	locks  *gameLocks
}

// openEngine loads the game row for token and restores its session,
// active or finished. A nil engine with nil error means the token is known
// but holds no session (reset, or state corrupted beyond recovery).
func (env *gameEnv) openEngine(ctx context.Context, token string) (*hunt.Engine, *gameRecord, error) {
	rec, err := env.store.GameByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	storage := gameStorage{ctx: ctx, store: env.store, token: token, logger: env.logger}
	engine := hunt.Open(env.cases.Active(), storage)
	return engine, &rec, nil
}
