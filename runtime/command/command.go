// Package command implements the eleven-member Command variant type:
// parsing argument tokens into typed fields and executing against an
// execution.Context. Grounded on
// original_source/src/engine/commands/{base,movement,control,variable,drawing,utility,alert}.py,
// with the registry shaped after the teacher's
// core/decorators/registry.go collision-checked registration.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/tinkerblocks/core/core/invariant"
	"github.com/tinkerblocks/core/core/types"
	"github.com/tinkerblocks/core/runtime/execution"
)

// Command is one node of the parsed tree. Every variant carries a
// GridPosition and an ordered list of nested commands (non-empty only for
// control-flow variants, per invariant 1).
type Command interface {
	// ParseArgs consumes the argument tokens collected for this command's
	// row. Called exactly once, immediately after construction.
	ParseArgs(tokens []string) error

	// Execute runs the command against ec. ctx governs cancellation; an
	// implementation must check it at every suspension point (repeated
	// hardware calls, sleeps, loop/while iteration boundaries).
	Execute(ctx context.Context, ec *execution.Context) error

	// GridPosition returns the (row, col) this command was parsed from.
	GridPosition() types.GridPosition
	SetGridPosition(pos types.GridPosition)

	// Nested returns the command's nested body (the IF/LOOP/WHILE true
	// branch; empty for leaf commands).
	Nested() []Command
	AddNested(c Command)
}

// Base implements the position/nesting bookkeeping shared by every
// command, so concrete types only need to add ParseArgs and Execute.
type Base struct {
	Pos    types.GridPosition
	nested []Command
}

func (b *Base) GridPosition() types.GridPosition    { return b.Pos }
func (b *Base) SetGridPosition(pos types.GridPosition) { b.Pos = pos }
func (b *Base) Nested() []Command                   { return b.nested }
func (b *Base) AddNested(c Command)                 { b.nested = append(b.nested, c) }

// Constructor builds a zero-valued instance of one command variant, ready
// for ParseArgs.
type Constructor func() Command

// Registry maps uppercase command names to constructors. One name may map
// to only one constructor; registering a second under the same name is a
// programmer error caught at startup via invariant.Precondition, not a
// runtime condition.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds ctor under every name in names (case-insensitive; stored
// upper-cased). Panics if any name collides with an existing registration.
func (r *Registry) Register(ctor Constructor, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		upper := strings.ToUpper(name)
		_, exists := r.constructors[upper]
		invariant.Precondition(!exists, "command name %q already registered", upper)
		r.constructors[upper] = ctor
	}
}

// Has reports whether name (case-insensitive) is registered. The grid
// parser uses this to stop argument collection at the first token that is
// itself a registered command name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[strings.ToUpper(name)]
	return ok
}

// Create builds and parses a command instance named name from tokens.
// Returns an error (unwrapped — the parser attaches position/kind) if name
// isn't registered or ParseArgs fails.
func (r *Registry) Create(name string, tokens []string, pos types.GridPosition) (Command, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[strings.ToUpper(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}

	cmd := ctor()
	cmd.SetGridPosition(pos)
	if err := cmd.ParseArgs(tokens); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Names returns every registered command name, sorted, for diagnostics and
// fuzzy-match suggestions.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Suggest returns the closest registered name to an unrecognized token by
// Levenshtein distance (via fuzzy.LevenshteinDistance), or "" if nothing is
// close enough to be useful.
func (r *Registry) Suggest(unknown string) string {
	best := ""
	bestDist := -1
	upper := strings.ToUpper(unknown)
	for _, name := range r.Names() {
		dist := fuzzy.LevenshteinDistance(upper, name)
		if bestDist == -1 || dist < bestDist {
			best, bestDist = name, dist
		}
	}
	// Beyond this distance the suggestion is more confusing than helpful.
	if bestDist < 0 || bestDist > 3 {
		return ""
	}
	return best
}

// NewDefaultRegistry returns a Registry with all eleven command variants
// registered under the names spec.md §4.4 requires.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(func() Command { return &Move{} }, "MOVE")
	r.Register(func() Command { return &Turn{} }, "TURN")
	r.Register(func() Command { return &Loop{} }, "LOOP", "REPEAT", "FOR")
	r.Register(func() Command { return &While{} }, "WHILE")
	r.Register(func() Command { return &If{} }, "IF")
	r.Register(func() Command { return &Else{} }, "ELSE")
	r.Register(func() Command { return &Set{} }, "SET", "ASSIGN", "LET")
	r.Register(func() Command { return &PenUp{} }, "PEN_UP", "PENUP", "UP")
	r.Register(func() Command { return &PenDown{} }, "PEN_DOWN", "PENDOWN", "DOWN")
	r.Register(func() Command { return &Wait{} }, "WAIT", "PAUSE", "SLEEP", "DELAY")
	r.Register(func() Command { return &AlertOn{} }, "ALERT_ON")
	r.Register(func() Command { return &AlertOff{} }, "ALERT_OFF")
	return r
}
