// ABOUTME: Tests for the bounded Code sub-agent loop: sentinel detection, snippet extraction, budget exhaustion
// ABOUTME: Uses a fake ai.ApiProvider so no real LLM/process execution is required

package codeagent

import (
	"context"
	"strings"
	"testing"

	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

func TestDetectSentinel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		want   CompletionReason
		wantOK bool
	}{
		{"DONE", ReasonDone, true},
		{"  FAIL  \n", ReasonFail, true},
		{"```bash\necho hi\n```", "", false},
		{"I think we are DONE with this", "", false},
	}
	for _, c := range cases {
		got, ok := detectSentinel(c.in)
		if ok != c.wantOK || got != c.want {
			t.Errorf("detectSentinel(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestExtractSnippet(t *testing.T) {
	t.Parallel()

	resp := "Let's check the file.\n```python\nprint('hi')\n```\n"
	lang, snippet, ok := extractSnippet(resp)
	if !ok {
		t.Fatal("expected snippet to be found")
	}
	if lang != LanguagePython {
		t.Errorf("lang = %v, want python", lang)
	}
	if snippet != "print('hi')" {
		t.Errorf("snippet = %q", snippet)
	}
}

func TestExtractSnippet_NoBlock(t *testing.T) {
	t.Parallel()

	_, _, ok := extractSnippet("no code here")
	if ok {
		t.Error("expected ok=false for response with no fenced block")
	}
}

// fakeProvider returns scripted responses in sequence, ignoring the actual context sent.
type fakeProvider struct {
	responses []string
	i         int
}

func (f *fakeProvider) Api() ai.Api { return ai.ApiAnthropic }

func (f *fakeProvider) Generate(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	if f.i >= len(f.responses) {
		return "DONE", nil
	}
	r := f.responses[f.i]
	f.i++
	return r, nil
}

func (f *fakeProvider) GenerateWithThinking(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	return f.Generate(ctx, model, llmCtx, opts)
}

func TestRun_BudgetExhaustedWhenNoSentinel(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{responses: []string{
		"```bash\necho one\n```",
		"```bash\necho two\n```",
	}}
	client := ai.NewClient(provider, &ai.Model{ID: "test-model"})
	ca := New(client, Config{Budget: 2, WorkDir: t.TempDir()}, 5)

	report := ca.Run(context.Background(), "do something")
	want := budgetExhaustedReason(2)
	if report.CompletionReason != want {
		t.Errorf("CompletionReason = %v, want %v", report.CompletionReason, want)
	}
	if report.StepsExecuted != 2 {
		t.Errorf("StepsExecuted = %d, want 2", report.StepsExecuted)
	}
	if len(report.ExecutionHistory) != 2 {
		t.Errorf("len(ExecutionHistory) = %d, want 2", len(report.ExecutionHistory))
	}
}

func TestRun_StopsOnDoneSentinel(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{responses: []string{
		"```bash\necho hi\n```",
		"DONE",
	}}
	client := ai.NewClient(provider, &ai.Model{ID: "test-model"})
	ca := New(client, Config{Budget: 20, WorkDir: t.TempDir()}, 5)

	report := ca.Run(context.Background(), "task")
	if report.CompletionReason != ReasonDone {
		t.Errorf("CompletionReason = %v, want DONE", report.CompletionReason)
	}
	if report.StepsExecuted != 2 {
		t.Errorf("StepsExecuted = %d, want 2 (one snippet step + the DONE step)", report.StepsExecuted)
	}
}

func TestRun_NoCodeBlockPromptsRetryWithoutConsumingHistory(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{responses: []string{
		"not a code block and not a sentinel",
		"FAIL",
	}}
	client := ai.NewClient(provider, &ai.Model{ID: "test-model"})
	ca := New(client, Config{Budget: 20, WorkDir: t.TempDir()}, 5)

	report := ca.Run(context.Background(), "task")
	if report.CompletionReason != ReasonFail {
		t.Errorf("CompletionReason = %v, want FAIL", report.CompletionReason)
	}
	if len(report.ExecutionHistory) != 0 {
		t.Errorf("ExecutionHistory should be empty when no snippet ever ran, got %d entries", len(report.ExecutionHistory))
	}
}

func TestSummarize_IncludesTaskAndReason(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{responses: []string{"a summary"}}
	client := ai.NewClient(provider, &ai.Model{ID: "test-model"})
	ca := New(client, Config{WorkDir: t.TempDir()}, 5)

	got := ca.summarize(context.Background(), "move file", nil, ReasonDone)
	if !strings.Contains(got, "a summary") {
		t.Errorf("summarize() = %q, want it to return provider text", got)
	}
}
