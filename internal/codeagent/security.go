// ABOUTME: Command allow/deny validation and sanitization for snippet execution
// ABOUTME: Adapted from the teacher's bash tool security layer for Python/Bash snippets

package codeagent

import (
	"fmt"
	"regexp"
	"strings"
)

// dangerousCommands are blocked outright regardless of arguments.
var dangerousCommands = map[string]bool{
	"rm":        true,
	"rmdir":     true,
	"dd":        true,
	"mkfs":      true,
	"shutdown":  true,
	"reboot":    true,
	"sudo":      true,
	"su":        true,
	"passwd":    true,
	"chown":     true,
	"chmod":     true,
	"ssh":       true,
	"scp":       true,
	"nc":        true,
	"netcat":    true,
	"mount":     true,
	"umount":    true,
	"kill":      true,
	"killall":   true,
	"pkill":     true,
	"useradd":   true,
	"userdel":   true,
	"visudo":    true,
	"iptables":  true,
	"systemctl": true,
}

// dangerousPatterns flags constructs that could escape the snippet sandbox.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\([^)]*\)`),
	regexp.MustCompile("`[^`]*`"),
	regexp.MustCompile(`/etc/passwd`),
	regexp.MustCompile(`/etc/shadow`),
	regexp.MustCompile(`/proc/`),
	regexp.MustCompile(`/sys/`),
	regexp.MustCompile(`\.\./\.\./\.\.`),
	regexp.MustCompile(`~/\.ssh`),
	regexp.MustCompile(`~/\.aws`),
}

// allowedCommands are known-safe primary commands for UI-automation snippets.
var allowedCommands = map[string]bool{
	"echo": true, "cat": true, "ls": true, "pwd": true, "cd": true,
	"grep": true, "sed": true, "awk": true, "head": true, "tail": true,
	"wc": true, "sort": true, "uniq": true, "cut": true, "tr": true,
	"python": true, "python3": true, "pip": true, "pip3": true,
	"node": true, "npm": true,
	"true": true, "false": true, "test": true, "sleep": true, "date": true,
	"which": true, "type": true, "env": true, "printenv": true,
	"xdotool": true, "xclip": true, "xdg-open": true,
}

var pipelineSplitter = regexp.MustCompile(`\|\||&&|[|;]`)

const maxSnippetLength = 10000

// validateBashCommand rejects snippets matching dangerous patterns or commands,
// allowing known-safe primaries and shell builtins to pass through.
func validateBashCommand(command string) error {
	if len(command) > maxSnippetLength {
		return fmt.Errorf("command exceeds maximum length of %d characters", maxSnippetLength)
	}

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(command) {
			return fmt.Errorf("command matches disallowed pattern: %s", pattern.String())
		}
	}

	return validatePipelineCommands(command)
}

// validatePipelineCommands splits on pipe/chain operators and validates each segment.
func validatePipelineCommands(command string) error {
	segments := pipelineSplitter.Split(command, -1)
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if err := validateSegment(segment); err != nil {
			return err
		}
	}
	return nil
}

func validateSegment(segment string) error {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return nil
	}
	primary := fields[0]

	if dangerousCommands[primary] {
		return fmt.Errorf("command %q is not permitted in the sandbox", primary)
	}

	if isShellBuiltin(primary) || allowedCommands[primary] || looksLikeSafeCommand(primary) {
		return nil
	}

	return fmt.Errorf("command %q is not in the allowed set", primary)
}

func isShellBuiltin(cmd string) bool {
	switch cmd {
	case "cd", "export", "unset", "source", ".", "alias", "if", "then", "else", "fi", "for", "while", "do", "done", "return", "exit":
		return true
	default:
		return false
	}
}

// looksLikeSafeCommand permits paths that clearly resolve to project-local
// scripts or venv interpreters rather than a system binary.
func looksLikeSafeCommand(cmd string) bool {
	return strings.HasPrefix(cmd, "./") || strings.HasPrefix(cmd, "/usr/bin/python") || strings.Contains(cmd, "venv/bin/")
}

// restrictedEnvironment returns a minimal safe environment for snippet execution.
func restrictedEnvironment() []string {
	return []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"HOME=/tmp/desktop-agent-sandbox",
		"USER=desktop-agent",
		"SHELL=/bin/bash",
		"TERM=xterm-256color",
		"LANG=C.UTF-8",
		"TZ=UTC",
	}
}

// sanitizeBashCommand strips null bytes and every other control character
// except newline and tab, then trims surrounding whitespace.
func sanitizeBashCommand(command string) string {
	command = strings.ReplaceAll(command, "\x00", "")
	var b strings.Builder
	for _, r := range command {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
