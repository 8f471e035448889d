package navigation

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
)

// Gate evaluates routes once persisted flags are loaded and remembers the
// current flow state.
type Gate struct {
	mu     sync.Mutex
	loaded bool
	state  State
	log    logging.Logger
}

func NewGate(log logging.Logger) *Gate {
	return &Gate{log: log.With("module", "navigation")}
}

// MarkLoaded enables evaluation. Call it after the session snapshot has
// been loaded.
func (g *Gate) MarkLoaded(f models.Flags) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loaded = true
	g.state = Resolve(f)
}

func (g *Gate) Loaded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loaded
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Evaluate advances the state machine with f and returns the redirect for
// route, if any. Before MarkLoaded it returns common.ErrStateNotLoaded and
// never redirects.
func (g *Gate) Evaluate(ctx context.Context, route Route, f models.Flags) (Route, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.loaded {
		return route, false, common.ErrStateNotLoaded
	}

	next := Next(g.state, f)
	if next != g.state {
		g.log.Debug(ctx, "flow state changed", "from", g.state.String(), "to", next.String())
		g.state = next
	}

	target, redirect := Evaluate(route, f)
	if redirect {
		g.log.Debug(ctx, "redirect", "from", string(route), "to", string(target))
	}
	return target, redirect, nil
}
