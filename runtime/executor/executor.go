// Package executor implements the top-level workflow driver: validate,
// preprocess + parse, construct the execution context and run, return a
// structured result. Grounded on
// original_source/src/engine/workflow.py's engine_workflow, with the
// single-flight / cancellation shape modeled on the teacher's
// concurrency-aware executor packages.
package executor

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/semaphore"

	"github.com/tinkerblocks/core/core/types"
	"github.com/tinkerblocks/core/hardware"
	"github.com/tinkerblocks/core/internal/config"
	"github.com/tinkerblocks/core/runtime/command"
	"github.com/tinkerblocks/core/runtime/execution"
	"github.com/tinkerblocks/core/runtime/grid"
	"github.com/tinkerblocks/core/runtime/parser"
)

// Result is the structured WorkflowResult of spec.md §6.
type Result struct {
	Success        bool       `json:"success"`
	Error          string     `json:"error,omitempty"`
	FinalState     FinalState `json:"final_state"`
	CommandsParsed int        `json:"commands_parsed,omitempty"`

	// Fingerprint is additive: a blake2b-256 hash of the preprocessed
	// grid's canonical text, for host-side log correlation across
	// repeated runs of the "same" program.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// FinalState mirrors spec.md §6's final_state record.
type FinalState struct {
	Position      Point          `json:"position"`
	Direction     string         `json:"direction"`
	Variables     map[string]any `json:"variables"`
	PenDown       bool           `json:"pen_down"`
	Path          []Point        `json:"path"`
	StepsExecuted uint64         `json:"steps_executed"`
}

// Point is a bare (x, y) pair, matching the {x, y} wire shape in spec.md §6
// rather than execution's internal types.Position (kept distinct so the
// wire format doesn't couple to internal representation changes).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot CBOR-encodes r's FinalState for hosts that prefer a compact
// binary wire format over JSON. It is a derived encoding of the same
// struct, not a second schema.
func (r Result) Snapshot() ([]byte, error) {
	return cbor.Marshal(r.FinalState)
}

// Executor drives one grid through validate -> preprocess+parse ->
// execute -> result. A Weighted(1) semaphore enforces spec.md §5's "at
// most one execution in flight" per Executor: a second concurrent Execute
// call blocks until the first returns.
type Executor struct {
	registry  *command.Registry
	aliases   *grid.AliasTable
	validator *grid.Validator
	sem       *semaphore.Weighted
}

// New builds an Executor with the default command registry and alias
// table, validating incoming grids against cfg's row/column ceilings.
func New(cfg config.Config) (*Executor, error) {
	validator, err := grid.NewValidator(cfg.GridRows, cfg.GridCols)
	if err != nil {
		return nil, fmt.Errorf("build grid validator: %w", err)
	}
	return &Executor{
		registry:  command.NewDefaultRegistry(),
		aliases:   grid.NewAliasTable(),
		validator: validator,
		sem:       semaphore.NewWeighted(1),
	}, nil
}

// Execute runs g to completion (or to the first fatal error, or until ctx
// is cancelled) against hw, logging through sink. Step budget, scale
// factor and obstacle threshold come from cfg.
func (e *Executor) Execute(ctx context.Context, g grid.Grid, sink types.Sink, hw hardware.Interface, cfg config.Config) Result {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return Result{Success: false, Error: "cancelled"}
	}
	defer e.sem.Release(1)

	if err := e.validator.ValidateGrid(g); err != nil {
		return Result{
			Success:    false,
			Error:      err.Error(),
			FinalState: zeroFinalState(),
		}
	}

	if g.IsEmpty() {
		return Result{
			Success:    true,
			FinalState: zeroFinalState(),
		}
	}

	preprocessed := e.aliases.Preprocess(g)

	commands, err := parser.New(e.registry).Parse(preprocessed)
	if err != nil {
		return Result{
			Success:    false,
			Error:      err.Error(),
			FinalState: zeroFinalState(),
		}
	}

	if aware, ok := hw.(hardware.ContextAware); ok {
		hw = aware.WithContext(ctx)
	}

	ec := execution.New(hw, sink, cfg)

	execErr := command.ExecuteAll(ctx, ec, commands)
	state := ec.Snapshot()

	result := Result{
		FinalState:     toFinalState(state),
		Fingerprint:    fingerprint(preprocessed),
		CommandsParsed: len(commands),
	}

	if execErr != nil {
		result.Success = false
		if errors.Is(execErr, context.Canceled) || errors.Is(execErr, context.DeadlineExceeded) {
			result.Error = "cancelled"
		} else {
			result.Error = execErr.Error()
		}
		return result
	}

	result.Success = true
	return result
}

func zeroFinalState() FinalState {
	return FinalState{
		Direction: types.Forward.String(),
		Variables: map[string]any{},
		Path:      []Point{},
	}
}

func toFinalState(s execution.State) FinalState {
	path := make([]Point, len(s.Path))
	for i, p := range s.Path {
		path[i] = Point{X: p.X, Y: p.Y}
	}
	return FinalState{
		Position:      Point{X: s.Position.X, Y: s.Position.Y},
		Direction:     s.Heading.String(),
		Variables:     s.Variables,
		PenDown:       s.PenDown,
		Path:          path,
		StepsExecuted: s.StepsExecuted,
	}
}

// fingerprint hashes the canonical text of the preprocessed grid with
// blake2b-256; identical grids always produce identical fingerprints
// (spec.md §8's idempotence property extends naturally to it).
func fingerprint(g grid.Grid) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256(nil) cannot fail; fall back defensively rather
		// than propagate an impossible error into the result.
		sum := sha256.Sum256([]byte(canonicalText(g)))
		return fmt.Sprintf("%x", sum)
	}
	h.Write([]byte(canonicalText(g)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func canonicalText(g grid.Grid) string {
	var b []byte
	for _, row := range g {
		for _, cell := range row {
			b = append(b, cell...)
			b = append(b, '\x00')
		}
		b = append(b, '\n')
	}
	return string(b)
}
