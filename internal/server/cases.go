package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/trailcase/geohunt/internal/hunt"
)

// CaseRegistry caches the parsed active case document. Operators can swap
// the active case at runtime; games already in progress keep playing
// against the catalog they started with only as far as the current request,
// so swaps are meant for between-event maintenance.
type CaseRegistry struct {
	store Store

	mu      sync.RWMutex
	catalog *hunt.Catalog
}

// NewCaseRegistry loads the active case from store and parses it. A store
// without an active case is an error: the game cannot run without content.
func NewCaseRegistry(ctx context.Context, store Store) (*CaseRegistry, error) {
	_, doc, err := store.ActiveCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active case: %w", err)
	}

	catalog, err := hunt.ParseCatalog(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing active case: %w", err)
	}

	return &CaseRegistry{store: store, catalog: catalog}, nil
}

// Active returns the current parsed catalog.
func (c *CaseRegistry) Active() *hunt.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// Swap validates doc, persists it as the new active case, and installs it.
// The previous catalog stays in place when validation or persistence fails.
func (c *CaseRegistry) Swap(ctx context.Context, name string, doc []byte) error {
	catalog, err := hunt.ParseCatalog(doc)
	if err != nil {
		return err
	}

	if _, err := c.store.SaveCase(ctx, name, doc); err != nil {
		return fmt.Errorf("saving case: %w", err)
	}

	c.mu.Lock()
	c.catalog = catalog
	c.mu.Unlock()
	return nil
}
