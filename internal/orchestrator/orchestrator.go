// ABOUTME: Orchestrator: the capture -> predict -> execute step loop and its terminal states
// ABOUTME: Single-threaded cooperative state machine; pause/resume is a polled flag, not preemption

package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mauromedda/desktop-agent-go/internal/action"
	"github.com/mauromedda/desktop-agent-go/internal/codeagent"
	"github.com/mauromedda/desktop-agent-go/internal/console"
	"github.com/mauromedda/desktop-agent-go/internal/grounder"
	"github.com/mauromedda/desktop-agent-go/internal/inputbackend"
	"github.com/mauromedda/desktop-agent-go/internal/reflector"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/internal/worker"
)

// State names one node of the task state machine.
type State string

const (
	StateIdle            State = "idle"
	StateCapturing       State = "capturing"
	StatePredicting      State = "predicting"
	StateExecuting       State = "executing"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
	StateBudgetExhausted State = "budget_exhausted"
)

// maxCaptureRetries bounds the Capturing-fail -> Capturing self-loop; not
// named in spec.md, which leaves the retry counter's cap to the
// implementation.
const maxCaptureRetries = 5

// captureRetryDelay is the small sleep between failed capture attempts.
const captureRetryDelay = 500 * time.Millisecond

// postActionSettle is the pause after a primitive sequence runs, before the
// next capture, allowing the UI to react to the just-executed input.
const postActionSettle = 500 * time.Millisecond

// Config bounds one Orchestrator run.
type Config struct {
	MaxSteps        int
	GroundingWidth  int
	GroundingHeight int
}

// Result is returned once the task leaves the loop in a terminal state.
type Result struct {
	State     State
	Steps     int
	FinalPlan worker.Plan
}

// Orchestrator drives one task through the Worker/Reflector/Grounder/input
// backend pipeline. It holds no state across separate Run calls: a fresh
// Orchestrator (or a fresh task on the same one) starts at Idle.
type Orchestrator struct {
	runID    string
	capturer screen.Capturer
	worker   *worker.Worker
	reflect  *reflector.Reflector
	grounder *grounder.Grounder
	backend  *inputbackend.Backend
	console  *console.Writer
	cfg      Config

	paused atomic.Bool
}

// New builds an Orchestrator. console may be nil to suppress structured
// console output (used by tests).
func New(runID string, capturer screen.Capturer, w *worker.Worker, r *reflector.Reflector, g *grounder.Grounder, backend *inputbackend.Backend, cw *console.Writer, cfg Config) *Orchestrator {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 15
	}
	if cfg.GroundingWidth <= 0 {
		cfg.GroundingWidth = 1000
	}
	if cfg.GroundingHeight <= 0 {
		cfg.GroundingHeight = 1000
	}
	return &Orchestrator{
		runID:    runID,
		capturer: capturer,
		worker:   w,
		reflect:  r,
		grounder: g,
		backend:  backend,
		console:  cw,
		cfg:      cfg,
	}
}

// Pause requests the loop suspend at its next phase boundary.
func (o *Orchestrator) Pause() { o.paused.Store(true) }

// Resume clears a pending pause.
func (o *Orchestrator) Resume() { o.paused.Store(false) }

// waitIfPaused blocks cooperatively while paused is set, polling at phase
// boundaries, and returns early if ctx is cancelled.
func (o *Orchestrator) waitIfPaused(ctx context.Context) error {
	for o.paused.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil
}

// Run drives instruction through the step loop until a terminal state.
func (o *Orchestrator) Run(ctx context.Context, instruction string) (Result, error) {
	state := StateIdle
	step := 0
	var obs *screen.Observation
	var plan worker.Plan
	var lastCritique reflector.Critique
	var lastCodeReport *codeagent.Report
	captureFailures := 0

	o.emit(step, console.KindInfo, "starting: "+instruction)
	state = StateCapturing

	for {
		if err := o.waitIfPaused(ctx); err != nil {
			return Result{State: state, Steps: step}, err
		}
		if ctx.Err() != nil {
			return Result{State: state, Steps: step}, ctx.Err()
		}
		if step >= o.cfg.MaxSteps {
			o.emit(step, console.KindBudget, fmt.Sprintf("step budget %d reached", o.cfg.MaxSteps))
			return Result{State: StateBudgetExhausted, Steps: step, FinalPlan: plan}, nil
		}

		switch state {
		case StateCapturing:
			captured, err := screen.Observe(o.capturer, o.cfg.GroundingWidth, o.cfg.GroundingHeight)
			if err != nil {
				captureFailures++
				o.emit(step, console.KindTransport, "capture failed: "+err.Error())
				if captureFailures >= maxCaptureRetries {
					return Result{State: StateFailed, Steps: step}, fmt.Errorf("orchestrator: capture failed %d times: %w", captureFailures, err)
				}
				time.Sleep(captureRetryDelay)
				continue
			}
			captureFailures = 0
			obs = captured
			state = StatePredicting

		case StatePredicting:
			step++
			reflectionText := ""
			if lastCritique.Verdict != "" {
				reflectionText = lastCritique.Text()
			}
			p, err := o.worker.Step(ctx, instruction, obs, reflectionText, lastCritique.Thoughts, lastCodeReport)
			if err != nil {
				return Result{State: StateFailed, Steps: step}, fmt.Errorf("orchestrator: worker step: %w", err)
			}
			plan = p

			if o.reflect != nil {
				critique, err := o.reflect.Step(ctx, instruction, obs, plan.RawText)
				if err == nil {
					lastCritique = critique
				}
			}

			if plan.ParsedAction == nil {
				o.emit(step, console.KindFormat, "format validation failed after retries; degrading to wait")
				o.backend.Sleep(1.333)
				state = StateCapturing
				continue
			}

			if plan.GroundingDegraded {
				o.emit(step, console.KindGrounding, "grounding failed to resolve action; degrading to wait")
			}

			lastCodeReport = o.grounder.LastCodeAgentResult()

			switch plan.ParsedAction.Kind {
			case action.VerbDone:
				o.emit(step, console.KindSucceeded, "task complete")
				return Result{State: StateSucceeded, Steps: step, FinalPlan: plan}, nil
			case action.VerbFail:
				o.emit(step, console.KindFailed, "agent reported fail")
				return Result{State: StateFailed, Steps: step, FinalPlan: plan}, nil
			case action.VerbWait:
				o.backend.Sleep(plan.ParsedAction.Seconds)
				state = StateCapturing
			default:
				state = StateExecuting
			}

		case StateExecuting:
			runPrimitives(o.backend, plan.CompiledPrimitives, func(kind grounder.PrimitiveKind, err error) {
				o.emit(step, console.KindPrimitive, fmt.Sprintf("%s: %v", kind, err))
			})
			time.Sleep(postActionSettle)
			state = StateCapturing

		default:
			return Result{State: StateFailed, Steps: step}, fmt.Errorf("orchestrator: unreachable state %s", state)
		}
	}
}

func (o *Orchestrator) emit(step int, kind console.Kind, message string) {
	if o.console == nil {
		return
	}
	o.console.Emit(console.Record{RunID: o.runID, Step: step, Kind: kind, Message: message})
}
