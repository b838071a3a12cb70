// ABOUTME: Bounded-budget loop that writes and runs Python/Bash snippets for data tasks
// ABOUTME: Grounded on the teacher's subagent spawn/run shape, adapted from tool-calling to snippet execution

package codeagent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

// CompletionReason describes why the loop stopped.
type CompletionReason string

const (
	ReasonDone          CompletionReason = "DONE"
	ReasonFail          CompletionReason = "FAIL"
	ReasonExecutorError CompletionReason = "EXECUTOR_ERROR"
)

// budgetExhaustedReason formats the budget-exhausted completion reason with
// the actual step count, e.g. BUDGET_EXHAUSTED_AFTER_20_STEPS.
func budgetExhaustedReason(steps int) CompletionReason {
	return CompletionReason(fmt.Sprintf("BUDGET_EXHAUSTED_AFTER_%d_STEPS", steps))
}

// StepRecord captures one iteration of the loop for the execution history.
type StepRecord struct {
	Step       int
	Language   Language
	Snippet    string
	Status     string
	ReturnCode int
	Output     string
	Error      string
}

// Report is returned to the Worker after a Code sub-agent invocation.
type Report struct {
	TaskInstruction  string
	CompletionReason CompletionReason
	Summary          string
	ExecutionHistory []StepRecord
	StepsExecuted    int
	Budget           int
}

// Config bounds one Code sub-agent run.
type Config struct {
	Budget         int
	SystemPrompt   string
	WorkDir        string
	ExcludedCmds   []string
	AllowedDomains []string
}

// CodeAgent runs a bounded loop of LLM-proposed snippets against an Executor.
type CodeAgent struct {
	client   *ai.Client
	executor *Executor
	cfg      Config
}

// New builds a CodeAgent with an Executor derived from cfg's sandbox settings.
func New(client *ai.Client, cfg Config, timeoutSeconds int) *CodeAgent {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &CodeAgent{
		client:   client,
		executor: NewExecutor(cfg.WorkDir, cfg.ExcludedCmds, cfg.AllowedDomains, time.Duration(timeoutSeconds)*time.Second),
		cfg:      cfg,
	}
}

var fencedBlock = regexp.MustCompile("(?s)```(python|bash|sh)\\n(.*?)```")

// Run drives the loop until DONE, FAIL, or budget exhaustion, then produces
// a second-pass summary of the session.
func (c *CodeAgent) Run(ctx context.Context, task string) Report {
	budget := c.cfg.Budget
	if budget <= 0 {
		budget = 20
	}

	llmCtx := &ai.Context{
		System:   c.cfg.SystemPrompt,
		Messages: []ai.Message{ai.NewTextMessage(ai.RoleUser, task)},
	}

	history := make([]StepRecord, 0, budget)
	var reason CompletionReason
	steps := 0

	for steps = 0; steps < budget; steps++ {
		if ctx.Err() != nil {
			reason = ReasonExecutorError
			break
		}

		response := c.client.Generate(ctx, llmCtx, &ai.GenerateOptions{MaxTokens: 2048, Temperature: 0})
		llmCtx.Messages = append(llmCtx.Messages, ai.NewTextMessage(ai.RoleAssistant, response))

		if sentinel, ok := detectSentinel(response); ok {
			reason = sentinel
			steps++ // the sentinel turn counts as an executed step
			break
		}

		lang, snippet, ok := extractSnippet(response)
		if !ok {
			llmCtx.Messages = append(llmCtx.Messages, ai.NewTextMessage(ai.RoleUser,
				"No python/bash code block or DONE/FAIL sentinel found. Emit exactly one fenced code block or a sentinel."))
			continue
		}

		output, err := c.executor.Run(ctx, lang, snippet)
		rec := StepRecord{Step: steps + 1, Language: lang, Snippet: snippet, Output: output}
		status := "ok"
		returnCode := 0
		errText := ""
		if err != nil {
			status = "error"
			returnCode = 1
			errText = err.Error()
		}
		rec.Status = status
		rec.ReturnCode = returnCode
		rec.Error = errText
		history = append(history, rec)

		turn := fmt.Sprintf("Status: %s\nReturn Code: %d\nOutput: %s\nError: %s", status, returnCode, output, errText)
		llmCtx.Messages = append(llmCtx.Messages, ai.NewTextMessage(ai.RoleUser, turn))
	}

	if reason == "" {
		reason = budgetExhaustedReason(steps)
	}

	summary := c.summarize(ctx, task, history, reason)

	return Report{
		TaskInstruction:  task,
		CompletionReason: reason,
		Summary:          summary,
		ExecutionHistory: history,
		StepsExecuted:    steps,
		Budget:           budget,
	}
}

// summarize runs a second LLM pass to produce a short factual summary of the session.
func (c *CodeAgent) summarize(ctx context.Context, task string, history []StepRecord, reason CompletionReason) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\nCompletion reason: %s\n\n", task, reason)
	for _, h := range history {
		fmt.Fprintf(&sb, "Step %d (%s): status=%s code=%d\n", h.Step, h.Language, h.Status, h.ReturnCode)
	}

	summaryCtx := &ai.Context{
		System: "Summarize this code sub-agent session in 2-3 factual sentences. State what was accomplished and any errors encountered. Do not speculate.",
		Messages: []ai.Message{
			ai.NewTextMessage(ai.RoleUser, sb.String()),
		},
	}
	return c.client.Generate(ctx, summaryCtx, &ai.GenerateOptions{MaxTokens: 256, Temperature: 0})
}

// detectSentinel reports whether response is exactly (trimmed) the DONE or FAIL literal.
func detectSentinel(response string) (CompletionReason, bool) {
	trimmed := strings.TrimSpace(response)
	switch trimmed {
	case string(ReasonDone):
		return ReasonDone, true
	case string(ReasonFail):
		return ReasonFail, true
	}
	return "", false
}

// extractSnippet pulls the first fenced python/bash block out of response.
func extractSnippet(response string) (Language, string, bool) {
	m := fencedBlock.FindStringSubmatch(response)
	if m == nil {
		return "", "", false
	}
	lang := LanguageBash
	if m[1] == "python" {
		lang = LanguagePython
	}
	return lang, strings.TrimSpace(m[2]), true
}
