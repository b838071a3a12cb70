// ABOUTME: Reflector: advisory per-step trajectory critique injected into the next Worker prompt
// ABOUTME: Owns its own conversation, separate from the Worker's, flushed against its own budget

package reflector

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mauromedda/desktop-agent-go/internal/prompts"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

// Verdict is one of the three fixed trajectory critiques.
type Verdict string

const (
	VerdictOnPlan  Verdict = "ON_PLAN"
	VerdictOffPlan Verdict = "OFF_PLAN"
	VerdictDone    Verdict = "DONE"
)

// Critique is the Reflector's output for one step.
type Critique struct {
	Verdict  Verdict
	Thoughts string
}

// Text renders the critique the way it is spliced into the Worker's next
// user turn.
func (c Critique) Text() string {
	return string(c.Verdict) + " - " + c.Thoughts
}

// TrajectoryConfig bounds the Reflector conversation's size.
type TrajectoryConfig struct {
	MaxTrajectoryLength int
}

// Reflector critiques the Worker's trajectory each step. It is advisory
// only: its verdict is injected into the next Worker prompt but never
// terminates the loop by itself.
type Reflector struct {
	client *ai.Client
	loader *prompts.Loader
	cfg    TrajectoryConfig

	task         string
	systemPrompt string
	systemBuilt  bool
	turn         int
	messages     []ai.Message
}

// New builds a Reflector sharing the prompt loader with the Worker.
func New(client *ai.Client, loader *prompts.Loader, cfg TrajectoryConfig) *Reflector {
	if cfg.MaxTrajectoryLength <= 0 {
		cfg.MaxTrajectoryLength = 10
	}
	return &Reflector{client: client, loader: loader, cfg: cfg}
}

// Step registers the task and initial screenshot on turn 0, or the latest
// plan text plus the latest screenshot on subsequent turns, and returns the
// parsed verdict.
func (r *Reflector) Step(ctx context.Context, task string, obs *screen.Observation, lastPlanText string) (Critique, error) {
	r.task = task
	if err := r.ensureSystemPrompt(); err != nil {
		return Critique{}, fmt.Errorf("reflector: compose system prompt: %w", err)
	}

	userText := r.buildUserText(lastPlanText)
	r.messages = append(r.messages, ai.NewImageMessage(ai.RoleUser, userText, "image/png", encodeBase64(observationBytes(obs))))

	llmCtx := &ai.Context{System: r.systemPrompt, Messages: append([]ai.Message{}, r.messages...)}
	raw := r.client.Generate(ctx, llmCtx, &ai.GenerateOptions{MaxTokens: 256, Temperature: 0.2})

	r.messages = append(r.messages, ai.NewTextMessage(ai.RoleAssistant, raw))
	r.turn++
	r.flush()

	return parseVerdict(raw), nil
}

func (r *Reflector) ensureSystemPrompt() error {
	if r.systemBuilt {
		return nil
	}
	prompt, err := r.loader.ComposeForModel("reflector-v1", r.client.Model().ID, map[string]string{"TASK": r.task})
	if err != nil {
		return err
	}
	r.systemPrompt = prompt
	r.systemBuilt = true
	return nil
}

func (r *Reflector) buildUserText(lastPlanText string) string {
	if r.turn == 0 {
		return "Initial screenshot attached. Begin reviewing."
	}
	if lastPlanText == "" {
		return "Current screenshot attached."
	}
	return "Agent's latest plan: " + lastPlanText + "\n\nCurrent screenshot attached."
}

// flush drops whole rounds once the Reflector conversation exceeds its own
// budget. Unlike the Worker, the Reflector never retries a malformed
// response, so its round count grows by exactly one user+assistant pair per
// step and the drop threshold is max_trajectory_length+1, not 2x+1.
func (r *Reflector) flush() {
	maxLen := r.cfg.MaxTrajectoryLength + 1
	for len(r.messages) > maxLen {
		r.messages = dropOldestRound(r.messages)
	}
}

func dropOldestRound(messages []ai.Message) []ai.Message {
	if len(messages) < 2 {
		return messages
	}
	return append([]ai.Message{}, messages[2:]...)
}

// parseVerdict reads the fixed first-line convention: ON_PLAN, OFF_PLAN, or
// DONE, optionally followed by " - explanation". Any reply that doesn't
// start with one of the three tokens defaults to ON_PLAN, since a Reflector
// that can't express itself in format should not be treated as a stop
// signal.
func parseVerdict(raw string) Critique {
	line := raw
	if i := strings.IndexAny(raw, "\r\n"); i >= 0 {
		line = raw[:i]
	}
	line = strings.TrimSpace(line)

	rest := strings.TrimSpace(raw[len(line):])
	rest = strings.TrimLeft(rest, "\r\n")

	switch {
	case strings.HasPrefix(line, string(VerdictDone)):
		return Critique{Verdict: VerdictDone, Thoughts: explanation(line, string(VerdictDone), rest)}
	case strings.HasPrefix(line, string(VerdictOffPlan)):
		return Critique{Verdict: VerdictOffPlan, Thoughts: explanation(line, string(VerdictOffPlan), rest)}
	case strings.HasPrefix(line, string(VerdictOnPlan)):
		return Critique{Verdict: VerdictOnPlan, Thoughts: explanation(line, string(VerdictOnPlan), rest)}
	default:
		return Critique{Verdict: VerdictOnPlan, Thoughts: strings.TrimSpace(raw)}
	}
}

func explanation(line, token, rest string) string {
	tail := strings.TrimSpace(strings.TrimPrefix(line, token))
	tail = strings.TrimPrefix(tail, "-")
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return rest
	}
	if rest == "" {
		return tail
	}
	return tail + " " + rest
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
