// ABOUTME: Tests for the sandboxed snippet executor: bash/python execution, timeout, output capping
// ABOUTME: Exercises NewExecutor against the real OS sandbox since no external services are involved

package codeagent

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecutor_RunBash_CapturesOutput(t *testing.T) {
	e := NewExecutor(t.TempDir(), nil, nil, 5*time.Second)
	out, err := e.Run(context.Background(), LanguageBash, "echo hello-from-sandbox")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "hello-from-sandbox") {
		t.Errorf("output = %q, want it to contain echoed text", out)
	}
}

func TestExecutor_RunBash_RejectsDangerousCommand(t *testing.T) {
	e := NewExecutor(t.TempDir(), nil, nil, 5*time.Second)
	_, err := e.Run(context.Background(), LanguageBash, "rm -rf /")
	if err == nil {
		t.Error("expected rejection for dangerous command")
	}
}

func TestExecutor_RunPython_WritesAndExecutesSnippet(t *testing.T) {
	e := NewExecutor(t.TempDir(), nil, nil, 5*time.Second)
	out, err := e.Run(context.Background(), LanguagePython, "print('from-python')")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "from-python") {
		t.Errorf("output = %q, want python stdout", out)
	}
}

func TestExecutor_RunBash_TimesOut(t *testing.T) {
	e := NewExecutor(t.TempDir(), nil, nil, 200*time.Millisecond)
	_, err := e.Run(context.Background(), LanguageBash, "sleep 5")
	if err == nil {
		t.Error("expected timeout error")
	}
}

func TestLimitedWriter_CapsOutput(t *testing.T) {
	lw := &limitedWriter{limit: 5}
	lw.Write([]byte("hello world"))
	if !lw.exceeded {
		t.Error("expected exceeded=true")
	}
	if len(lw.buf) != 5 {
		t.Errorf("len(buf) = %d, want 5", len(lw.buf))
	}
}
