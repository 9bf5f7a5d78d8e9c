// Package pipeline drives one batch at a time through rasterization,
// recognition, correction, history recording and aggregation, exposing a
// single tagged state to the presentation layer.
package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/zero-one-labs/zeroptics/constants"
	"github.com/zero-one-labs/zeroptics/internal/batch"
	"github.com/zero-one-labs/zeroptics/internal/common"
	"github.com/zero-one-labs/zeroptics/internal/history"
	"github.com/zero-one-labs/zeroptics/internal/recognize"
	"github.com/zero-one-labs/zeroptics/internal/spell"
)

// State is the single source of truth the presentation layer observes.
type State struct {
	Status   constants.RunStatus
	Progress int    // 0..100 for the page unit currently recognizing
	Text     string // aggregated text once COMPLETED
	Err      string // populated for FAILED
}

// Orchestrator runs batches strictly sequentially: no page unit begins
// recognition before the previous one's correction and recording completed,
// so aggregation and history ordering always match submission order.
type Orchestrator struct {
	engine    recognize.Engine
	corrector *spell.Corrector
	ledger    *history.Ledger
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	runID   string
	stale   map[string]bool
	state   State
	onState func(State)
}

func New(engine recognize.Engine, corrector *spell.Corrector, ledger *history.Ledger, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		engine:    engine,
		corrector: corrector,
		ledger:    ledger,
		logger:    logger,
		stale:     make(map[string]bool),
		state:     State{Status: constants.RunIdle},
	}
}

// OnState registers the observer notified on every state change.
// One-way data binding: observers must not call back into the orchestrator.
func (o *Orchestrator) OnState(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onState = fn
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Dismiss marks the in-flight run stale: it keeps recognizing in the
// background, but its progress updates, history writes and final state
// are all discarded.
func (o *Orchestrator) Dismiss() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running && o.runID != "" {
		o.stale[o.runID] = true
		o.logger.Info("pipeline.run.dismissed", "run_id", o.runID)
	}
}

// Submit runs one batch to completion. At most one batch is in flight;
// re-entrant submission returns ErrBusy without interleaving units.
func (o *Orchestrator) Submit(ctx context.Context, src batch.UnitSource) (State, error) {
	o.mu.Lock()
	if o.running {
		state := o.state
		o.mu.Unlock()
		return state, common.ErrBusy
	}
	runID := uuid.NewString()
	o.running = true
	o.runID = runID
	o.mu.Unlock()

	ctx = common.WithRunID(ctx, runID)
	o.logger.Info("pipeline.run.start", "run_id", runID)

	final, err := o.run(ctx, runID, src)

	o.mu.Lock()
	o.running = false
	o.runID = ""
	wasStale := o.stale[runID]
	delete(o.stale, runID)
	if !wasStale {
		o.state = final
		o.notifyLocked()
	} else {
		// Dismissed mid-flight: never show a stale run's outcome.
		o.state = State{Status: constants.RunIdle}
		o.notifyLocked()
	}
	o.mu.Unlock()

	return final, err
}

func (o *Orchestrator) run(ctx context.Context, runID string, src batch.UnitSource) (State, error) {
	o.setState(runID, State{Status: constants.RunRunning, Progress: 0})

	var agg history.Aggregate
	units := 0
	for {
		unit, ok, err := src.Next(ctx)
		if err != nil {
			o.logger.Error("pipeline.run.aborted", "run_id", runID, "units", units, "error", err)
			return State{Status: constants.RunFailed, Err: err.Error()}, err
		}
		if !ok {
			break
		}
		units++

		text := o.processUnit(ctx, runID, unit)

		if !o.isStale(runID) {
			o.ledger.Record(text, unit.Thumbnail)
		}
		agg.Append(text)
	}

	o.logger.Info("pipeline.run.done", "run_id", runID, "units", units, "bytes", len(agg.String()))
	return State{Status: constants.RunCompleted, Progress: 100, Text: agg.String()}, nil
}

// processUnit recognizes one page unit, tracking monotonic 0..100 progress
// that resets at the unit boundary, then applies correction. A recognition
// failure is substituted as the unit's text so the batch never silently
// loses its slot.
func (o *Orchestrator) processUnit(ctx context.Context, runID string, unit batch.PageUnit) string {
	o.setState(runID, State{Status: constants.RunRunning, Progress: 0})

	last := 0
	text, err := o.engine.Recognize(ctx, unit.Image, func(e recognize.Event) {
		pct, ok := recognize.Percent(e)
		if !ok || pct < last {
			return
		}
		last = pct
		o.setState(runID, State{Status: constants.RunRunning, Progress: pct})
	})
	if err != nil {
		o.logger.Warn("pipeline.unit.failed",
			"run_id", runID, "item", unit.ItemIndex, "page", unit.Page, "error", err)
		return "Error: " + err.Error()
	}

	if o.corrector != nil {
		text = o.corrector.Correct(text)
	}
	o.logger.Debug("pipeline.unit.ok",
		"run_id", runID, "item", unit.ItemIndex, "page", unit.Page, "pages", unit.Pages, "bytes", len(text))
	return text
}

func (o *Orchestrator) isStale(runID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stale[runID]
}

// setState publishes a state change unless the run has been dismissed:
// a stale run keeps recognizing but stays invisible to observers.
func (o *Orchestrator) setState(runID string, s State) {
	o.mu.Lock()
	if !o.stale[runID] {
		o.state = s
		o.notifyLocked()
	}
	o.mu.Unlock()
}

func (o *Orchestrator) notifyLocked() {
	if o.onState != nil {
		o.onState(o.state)
	}
}
