// ABOUTME: Per-OS Driver implementations and the Strategy interface for Open/SwitchApplications/modifier selection
// ABOUTME: Auto-detects GOOS the same way internal/sandbox picks its backend; input synthesis itself is an external collaborator

package platform

import (
	"os/exec"
	"runtime"

	"github.com/mauromedda/desktop-agent-go/internal/action"
)

// OS identifies a target platform for Grounder compilation decisions.
type OS string

const (
	Darwin  OS = "darwin"
	Linux   OS = "linux"
	Windows OS = "windows"
)

// Strategy supplies the platform-specific pieces the Grounder needs: which
// modifier performs "select all", and how to compile SwitchApplications/Open.
type Strategy interface {
	OS() OS
	SelectAllModifier() string // "cmd" on darwin, "ctrl" elsewhere
	PasteModifier() string
	// OpenSequence returns the hotkey/type/enter steps to switch to or open
	// appOrName, expressed as an ordered list of primitive descriptors the
	// Grounder turns into Backend calls.
	OpenSequence(appOrName string) []OpenStep
}

// OpenStep is one primitive in an Open/SwitchApplications compilation.
type OpenStep struct {
	Kind string // "hotkey", "type_text", "press_enter", "sleep"
	Keys []string
	Text string
}

// Detect returns the Strategy for the running GOOS, defaulting to Linux's
// conventions on unrecognized platforms.
func Detect() Strategy {
	switch OS(runtime.GOOS) {
	case Darwin:
		return darwinStrategy{}
	case Windows:
		return windowsStrategy{}
	default:
		return linuxStrategy{}
	}
}

type darwinStrategy struct{}

func (darwinStrategy) OS() OS                  { return Darwin }
func (darwinStrategy) SelectAllModifier() string { return "cmd" }
func (darwinStrategy) PasteModifier() string     { return "cmd" }
func (darwinStrategy) OpenSequence(name string) []OpenStep {
	return []OpenStep{
		{Kind: "hotkey", Keys: []string{"cmd", "space"}},
		{Kind: "sleep"},
		{Kind: "type_text", Text: name},
		{Kind: "press_enter"},
		{Kind: "sleep"},
	}
}

type linuxStrategy struct{}

func (linuxStrategy) OS() OS                  { return Linux }
func (linuxStrategy) SelectAllModifier() string { return "ctrl" }
func (linuxStrategy) PasteModifier() string     { return "ctrl" }
func (linuxStrategy) OpenSequence(name string) []OpenStep {
	return []OpenStep{
		{Kind: "hotkey", Keys: []string{"alt", "F2"}},
		{Kind: "sleep"},
		{Kind: "type_text", Text: name},
		{Kind: "press_enter"},
		{Kind: "sleep"},
	}
}

type windowsStrategy struct{}

func (windowsStrategy) OS() OS                  { return Windows }
func (windowsStrategy) SelectAllModifier() string { return "ctrl" }
func (windowsStrategy) PasteModifier() string     { return "ctrl" }
func (windowsStrategy) OpenSequence(name string) []OpenStep {
	return []OpenStep{
		{Kind: "hotkey", Keys: []string{"cmd"}},
		{Kind: "sleep"},
		{Kind: "type_text", Text: name},
		{Kind: "press_enter"},
		{Kind: "sleep"},
	}
}

// commandExists reports whether name resolves on PATH, used to pick among
// candidate external input-synthesis tools at driver construction time.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
