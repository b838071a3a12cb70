// ABOUTME: Output truncation with dual line+byte limits and UTF-8 safe boundaries
// ABOUTME: Keeps the tail of snippet output, since later lines usually matter most

package codeagent

import (
	"strings"
	"unicode/utf8"
)

const (
	maxOutputLines = 2000
	maxOutputBytes = 50 * 1024
)

// truncateTail keeps the last maxLines lines and last maxBytes bytes of s.
func truncateTail(s string, maxLines, maxBytes int) string {
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
		s = strings.Join(lines, "\n")
	}

	if len(s) > maxBytes {
		start := len(s) - maxBytes
		for start < len(s) && !utf8.RuneStart(s[start]) {
			start++
		}
		s = s[start:]
	}

	return s
}
