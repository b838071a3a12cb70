// ABOUTME: Worker: builds the planning prompt, enforces response format, produces the next plan+action
// ABOUTME: Owns the Worker conversation and its trajectory flush; system prompt is composed once per task from internal/prompts

package worker

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mauromedda/desktop-agent-go/internal/action"
	"github.com/mauromedda/desktop-agent-go/internal/codeagent"
	"github.com/mauromedda/desktop-agent-go/internal/grounder"
	"github.com/mauromedda/desktop-agent-go/internal/prompts"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

const maxFormatAttempts = 3

// groundingDegradeSeconds is the Wait duration a step degrades to when the
// Grounder cannot compile a parsed action (no screenshot bound, no
// coordinates in the model's reply, no locator configured). Per spec.md §7
// this is surfaced to the Worker as exec-code WAIT(1.333) and the step
// proceeds rather than aborting the task.
const groundingDegradeSeconds = 1.333

// Plan is the record produced for one step, append-only over the task.
type Plan struct {
	RawText            string
	ExtractedCode      string
	ParsedAction       *action.Action
	ReflectionText     string
	ReflectionThoughts string
	CompiledPrimitives []grounder.Primitive
	GroundingDegraded  bool
}

// TrajectoryConfig bounds the Worker conversation's size.
type TrajectoryConfig struct {
	LongContext         bool
	MaxImages           int
	MaxTrajectoryLength int
}

// Worker drives one task's plan generation loop.
type Worker struct {
	client   *ai.Client
	grounder *grounder.Grounder
	loader   *prompts.Loader
	cfg      TrajectoryConfig

	task         string
	systemPrompt string
	systemBuilt  bool
	turn         int
	messages     []ai.Message
}

// New builds a Worker. The loader is typically shared across Worker,
// Reflector, and the code sub-agent since all three compose from the same
// embedded template set.
func New(client *ai.Client, g *grounder.Grounder, loader *prompts.Loader, cfg TrajectoryConfig) *Worker {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = 8
	}
	if cfg.MaxTrajectoryLength <= 0 {
		cfg.MaxTrajectoryLength = 10
	}
	return &Worker{client: client, grounder: g, loader: loader, cfg: cfg}
}

// formatChecker validates a raw model response before its action is
// compiled; the first failure aborts the retry chain with feedback text.
type formatChecker func(raw string) (ok bool, feedback string)

// Step runs one planning turn: build the user message, generate, validate,
// parse, compile, and append to history. reflection/reflectionThoughts may
// be empty on turn 0 or whenever the Reflector hasn't produced one yet. A
// nil ParsedAction on the returned Plan means every format attempt failed;
// the caller (orchestrator) degrades this to a WAIT(1.333) exec-code.
func (w *Worker) Step(ctx context.Context, task string, obs *screen.Observation, reflection, reflectionThoughts string, codeReport *codeagent.Report) (Plan, error) {
	w.task = task
	if err := w.ensureSystemPrompt(); err != nil {
		return Plan{}, fmt.Errorf("worker: compose system prompt: %w", err)
	}

	userText := w.buildUserText(reflection, codeReport)
	w.messages = append(w.messages, ai.NewImageMessage(ai.RoleUser, userText, "image/png", encodeBase64(observationBytes(obs))))

	checkers := []formatChecker{checkExactlyOneCall, checkCallParses}

	var raw, code, lastFeedback string
	var act *action.Action

	for attempt := 0; attempt < maxFormatAttempts; attempt++ {
		llmCtx := &ai.Context{System: w.systemPrompt, Messages: append([]ai.Message{}, w.messages...)}
		raw = w.client.Generate(ctx, llmCtx, &ai.GenerateOptions{MaxTokens: 1024, Temperature: 0.2})

		ok, feedback := true, ""
		for _, check := range checkers {
			if ok, feedback = check(raw); !ok {
				break
			}
		}

		if ok {
			code, _ = action.ParseCodeBlock(raw)
			calls := action.ExtractCalls(code)
			if len(calls) == 1 {
				if parsed, err := action.ParseCall(calls[0]); err == nil {
					act = &parsed
					break
				}
			}
		}

		lastFeedback = feedback
		w.messages = append(w.messages, ai.NewTextMessage(ai.RoleAssistant, raw))
		w.messages = append(w.messages, ai.NewTextMessage(ai.RoleUser, feedback))
	}

	w.turn++

	if act == nil {
		w.flush()
		return Plan{RawText: raw, ExtractedCode: code, ReflectionText: lastFeedback}, nil
	}

	w.messages = append(w.messages, ai.NewTextMessage(ai.RoleAssistant, raw))

	var prims []grounder.Primitive
	degraded := false
	if act.Kind != action.VerbDone && act.Kind != action.VerbFail {
		compiled, err := w.grounder.Compile(ctx, act, obs)
		if err != nil {
			prims = []grounder.Primitive{{Kind: grounder.PrimSleep, Seconds: groundingDegradeSeconds}}
			degraded = true
		} else {
			prims = compiled
		}
	}

	w.flush()

	return Plan{
		RawText:            raw,
		ExtractedCode:      code,
		ParsedAction:       act,
		ReflectionText:     reflection,
		ReflectionThoughts: reflectionThoughts,
		CompiledPrimitives: prims,
		GroundingDegraded:  degraded,
	}, nil
}

func (w *Worker) ensureSystemPrompt() error {
	if w.systemBuilt {
		return nil
	}
	prompt, err := w.loader.ComposeForModel("worker-v1", w.client.Model().ID, map[string]string{"TASK": w.task})
	if err != nil {
		return err
	}
	w.systemPrompt = prompt
	w.systemBuilt = true
	return nil
}

func (w *Worker) buildUserText(reflection string, codeReport *codeagent.Report) string {
	text := ""
	if reflection != "" {
		text += "Reviewer note: " + reflection + "\n\n"
	}
	if notes := w.grounder.Knowledge(); len(notes) > 0 {
		text += "Knowledge so far:\n"
		for _, n := range notes {
			text += "- " + n + "\n"
		}
		text += "\n"
	}
	if codeReport != nil {
		text += fmt.Sprintf("Last code sub-agent call: %s (%s)\n%s\n\n", codeReport.CompletionReason, codeReport.TaskInstruction, codeReport.Summary)
	}
	if w.turn == 0 {
		text += "Current screenshot attached. Begin."
	} else {
		text += "Current screenshot attached."
	}
	return text
}

func observationBytes(obs *screen.Observation) []byte {
	if obs == nil {
		return nil
	}
	return obs.Raw
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
