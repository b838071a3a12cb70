// ABOUTME: Tests for the Reflector's verdict parsing and its own trajectory flush
// ABOUTME: Uses a scripted fakeProvider so each turn returns a different canned reply

package reflector

import (
	"context"
	"testing"

	"github.com/mauromedda/desktop-agent-go/internal/prompts"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

type scriptedProvider struct {
	replies []string
	calls   int
}

func (s *scriptedProvider) Api() ai.Api { return ai.ApiAnthropic }
func (s *scriptedProvider) Generate(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	i := s.calls
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.calls++
	return s.replies[i], nil
}
func (s *scriptedProvider) GenerateWithThinking(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	return s.Generate(ctx, model, llmCtx, opts)
}

func newReflector(replies []string, cfg TrajectoryConfig) *Reflector {
	model := &ai.Model{ID: "test", Api: ai.ApiAnthropic, SupportsImages: true}
	client := ai.NewClient(&scriptedProvider{replies: replies}, model)
	loader := prompts.NewLoader("", "")
	return New(client, loader, cfg)
}

func testObs() *screen.Observation {
	return &screen.Observation{Raw: []byte("png-bytes"), Width: 1920, Height: 1080}
}

func TestStep_OnPlanVerdictWithExplanation(t *testing.T) {
	t.Parallel()

	r := newReflector([]string{"ON_PLAN - the agent is making progress."}, TrajectoryConfig{})
	c, err := r.Step(context.Background(), "close the dialog", testObs(), "")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Verdict != VerdictOnPlan {
		t.Fatalf("Verdict = %q, want ON_PLAN", c.Verdict)
	}
	if c.Thoughts != "the agent is making progress." {
		t.Errorf("Thoughts = %q", c.Thoughts)
	}
}

func TestStep_OffPlanVerdict(t *testing.T) {
	t.Parallel()

	r := newReflector([]string{"OFF_PLAN - it keeps reopening the same menu."}, TrajectoryConfig{})
	c, err := r.Step(context.Background(), "rename the file", testObs(), "plan: click rename")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Verdict != VerdictOffPlan {
		t.Fatalf("Verdict = %q, want OFF_PLAN", c.Verdict)
	}
}

func TestStep_DoneVerdict(t *testing.T) {
	t.Parallel()

	r := newReflector([]string{"DONE - the dialog is closed."}, TrajectoryConfig{})
	c, err := r.Step(context.Background(), "close the dialog", testObs(), "plan: click close")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Verdict != VerdictDone {
		t.Fatalf("Verdict = %q, want DONE", c.Verdict)
	}
}

func TestStep_UnparseableReplyDefaultsToOnPlan(t *testing.T) {
	t.Parallel()

	r := newReflector([]string{"I'm not sure what's happening here."}, TrajectoryConfig{})
	c, err := r.Step(context.Background(), "do something", testObs(), "")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.Verdict != VerdictOnPlan {
		t.Fatalf("Verdict = %q, want ON_PLAN default", c.Verdict)
	}
}

func TestStep_TurnZeroUsesInitialScreenshotPrompt(t *testing.T) {
	t.Parallel()

	r := newReflector([]string{"ON_PLAN - starting."}, TrajectoryConfig{})
	if _, err := r.Step(context.Background(), "do something", testObs(), "irrelevant on turn 0"); err != nil {
		t.Fatalf("Step: %v", err)
	}
	first := r.messages[0]
	if len(first.Content) == 0 || first.Content[0].Text != "Initial screenshot attached. Begin reviewing." {
		t.Errorf("first user message = %+v", first)
	}
}

func TestFlush_DropsOldestRoundPastBudget(t *testing.T) {
	t.Parallel()

	replies := []string{"ON_PLAN - a", "ON_PLAN - b", "ON_PLAN - c"}
	r := newReflector(replies, TrajectoryConfig{MaxTrajectoryLength: 2})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := r.Step(ctx, "task", testObs(), "plan text"); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	// budget is max_trajectory_length+1 = 3 messages; after 3 rounds (6
	// messages) at least one round must have been dropped.
	if len(r.messages) > 3 {
		t.Errorf("len(messages) = %d, want <= 3", len(r.messages))
	}
}
