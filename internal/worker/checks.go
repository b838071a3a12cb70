// ABOUTME: Format checkers run against a raw model response before it is compiled into primitives
// ABOUTME: Ordered chain; the first failure aborts and its feedback is fed back for a retry

package worker

import "github.com/mauromedda/desktop-agent-go/internal/action"

// checkExactlyOneCall requires the response's code block to contain exactly
// one agent.<verb>(...) call.
func checkExactlyOneCall(raw string) (bool, string) {
	code, ok := action.ParseCodeBlock(raw)
	if !ok {
		return false, "Your response must contain exactly one fenced code block with a single agent.<verb>(...) call."
	}
	calls := action.ExtractCalls(code)
	if len(calls) != 1 {
		return false, "Your code block must contain exactly one agent.<verb>(...) call; found a different number."
	}
	return true, ""
}

// checkCallParses requires the single call to parse as a known verb with
// valid arguments.
func checkCallParses(raw string) (bool, string) {
	code, ok := action.ParseCodeBlock(raw)
	if !ok {
		return false, "Your response must contain exactly one fenced code block with a single agent.<verb>(...) call."
	}
	calls := action.ExtractCalls(code)
	if len(calls) != 1 {
		return false, "Your code block must contain exactly one agent.<verb>(...) call."
	}
	if _, err := action.ParseCall(calls[0]); err != nil {
		return false, err.Error()
	}
	return true, ""
}
