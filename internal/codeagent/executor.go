// ABOUTME: Sandboxed Python/Bash snippet executor for the Code sub-agent
// ABOUTME: Attaches each snippet to a pty so captured output matches what an operator would see

package codeagent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"github.com/mauromedda/desktop-agent-go/internal/sandbox"
)

var errOutputLimitExceeded = errors.New("output exceeded capture limit")

const maxCapturedOutput = 10 * 1024 * 1024 // 10MB

// Language identifies the interpreter a snippet runs under.
type Language string

const (
	LanguageBash   Language = "bash"
	LanguagePython Language = "python"
)

// Executor runs validated snippets inside the OS sandbox with a bounded timeout.
type Executor struct {
	sb      sandbox.Sandbox
	opts    sandbox.Opts
	timeout time.Duration
}

// NewExecutor builds an Executor rooted at workDir, auto-detecting the best
// available OS sandbox (seatbelt, bwrap, or noop).
func NewExecutor(workDir string, excludedCmds, allowedDomains []string, timeout time.Duration) *Executor {
	opts := sandbox.Opts{
		WorkDir:        workDir,
		AllowNetwork:   len(allowedDomains) > 0,
		AllowedDomains: allowedDomains,
		ExcludedCmds:   excludedCmds,
	}
	return &Executor{sb: sandbox.New(opts), opts: opts, timeout: timeout}
}

// Run validates and executes a snippet, returning captured combined stdout/stderr.
func (e *Executor) Run(ctx context.Context, lang Language, snippet string) (string, error) {
	snippet = sanitizeBashCommand(snippet)
	if lang == LanguageBash {
		if err := validateBashCommand(snippet); err != nil {
			return "", fmt.Errorf("snippet rejected: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd, cleanup, err := e.buildCommand(ctx, lang, snippet)
	if err != nil {
		return "", err
	}
	defer cleanup()

	wrapped, err := e.sb.WrapCommand(cmd, e.opts)
	if err != nil {
		return "", fmt.Errorf("sandbox wrap: %w", err)
	}
	cmd = wrapped
	cmd.Env = restrictedEnvironment()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return "", fmt.Errorf("starting snippet process: %w", err)
	}
	defer ptmx.Close()

	lw := &limitedWriter{limit: maxCapturedOutput}
	// pty read returns an I/O error once the child exits and closes its end;
	// that's expected and surfaces through cmd.Wait() instead.
	_, _ = io.Copy(lw, ptmx)
	waitErr := cmd.Wait()

	output := truncateTail(lw.String(), maxOutputLines, maxOutputBytes)

	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("snippet timed out after %s", e.timeout)
	}
	if lw.exceeded {
		return output, errOutputLimitExceeded
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return output, fmt.Errorf("snippet exited with status %d", exitErr.ExitCode())
		}
		return output, fmt.Errorf("snippet execution: %w", waitErr)
	}

	return output, nil
}

func (e *Executor) buildCommand(ctx context.Context, lang Language, snippet string) (*exec.Cmd, func(), error) {
	switch lang {
	case LanguagePython:
		f, err := os.CreateTemp(e.opts.WorkDir, "snippet-*.py")
		if err != nil {
			return nil, func() {}, fmt.Errorf("creating snippet file: %w", err)
		}
		if _, err := f.WriteString(snippet); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, func() {}, fmt.Errorf("writing snippet file: %w", err)
		}
		f.Close()
		cmd := exec.CommandContext(ctx, "python3", f.Name())
		cmd.Dir = e.opts.WorkDir
		return cmd, func() { os.Remove(f.Name()) }, nil
	default:
		cmd := exec.CommandContext(ctx, "/bin/bash", "-c", snippet)
		cmd.Dir = e.opts.WorkDir
		return cmd, func() {}, nil
	}
}

// limitedWriter caps the number of bytes captured from a command's output.
type limitedWriter struct {
	buf      []byte
	limit    int
	exceeded bool
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.exceeded {
		return len(p), nil
	}
	remaining := w.limit - len(w.buf)
	if remaining <= 0 {
		w.exceeded = true
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf = append(w.buf, p[:remaining]...)
		w.exceeded = true
		return len(p), nil
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *limitedWriter) String() string { return string(w.buf) }
