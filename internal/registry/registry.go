// Package registry maps session ids to constructors. Game packages register
// their modes in init(), so commands can pick a mode by name without importing
// its implementation details.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/ascent/internal/core"
)

// Game is a fixed-step simulation the platform can drive. It knows nothing of
// terminals or key events; the platform maps input to actions and owns the
// tick rate.
type Game interface {
	// ID names the mode, e.g. "ascent" or "ascent_train".
	ID() string
	Title() string

	// Reset loads cfg.MapPath and starts a fresh session.
	Reset(cfg core.RuntimeConfig)

	// Step advances one frame.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current frame into a cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Factory builds a new session.
type Factory func() Game

// Info describes a registered mode.
type Info struct {
	ID    string
	Title string
}

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory under id. It panics on duplicate ids.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := factories[id]; dup {
		panic(fmt.Sprintf("registry: %q registered twice", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns the registered modes ordered by id.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Info, 0, len(factories))
	for id := range factories {
		out = append(out, Info{ID: id, Title: titles[id]})
	}
	slices.SortFunc(out, func(a, b Info) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Create builds a new session of mode id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}
	return f(), nil
}
