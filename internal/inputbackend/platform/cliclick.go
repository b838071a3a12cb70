// ABOUTME: cliclick/osascript-backed Driver for macOS input synthesis
// ABOUTME: Shells out per primitive; returns an error if cliclick is not on PATH

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/mauromedda/desktop-agent-go/internal/action"
)

// CliclickDriver synthesizes input via the cliclick CLI and osascript for keys.
type CliclickDriver struct{}

// NewCliclickDriver returns a driver backed by cliclick, or an error if it
// is not installed.
func NewCliclickDriver() (*CliclickDriver, error) {
	if !commandExists("cliclick") {
		return nil, fmt.Errorf("cliclick not found on PATH")
	}
	return &CliclickDriver{}, nil
}

func (d *CliclickDriver) run(args ...string) error {
	return exec.Command("cliclick", args...).Run()
}

func (d *CliclickDriver) osascript(script string) error {
	return exec.Command("osascript", "-e", script).Run()
}

func (d *CliclickDriver) MoveTo(x, y int) error {
	return d.run(fmt.Sprintf("m:%d,%d", x, y))
}

func (d *CliclickDriver) MouseDown(x, y int, button action.Button) error {
	return d.run(fmt.Sprintf("%s:%d,%d", cliclickDownOp(button), x, y))
}

func (d *CliclickDriver) MouseUp(x, y int, button action.Button) error {
	return d.run(fmt.Sprintf("%s:%d,%d", cliclickUpOp(button), x, y))
}

func (d *CliclickDriver) KeyDown(key string) error {
	return d.osascript(fmt.Sprintf(`tell application "System Events" to key down %s`, appleScriptKey(key)))
}

func (d *CliclickDriver) KeyUp(key string) error {
	return d.osascript(fmt.Sprintf(`tell application "System Events" to key up %s`, appleScriptKey(key)))
}

func (d *CliclickDriver) TypeText(s string) error {
	escaped := strings.ReplaceAll(s, `"`, `\"`)
	return d.osascript(fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escaped))
}

func (d *CliclickDriver) ScrollAt(x, y, ticks int, horizontal bool) error {
	if err := d.run(fmt.Sprintf("m:%d,%d", x, y)); err != nil {
		return err
	}
	axis := "y"
	if horizontal {
		axis = "x"
	}
	return d.run(fmt.Sprintf("s%s:%d", axis, ticks))
}

func (d *CliclickDriver) ClipboardSet(s string) error {
	return clipboard.WriteAll(s)
}

func cliclickDownOp(b action.Button) string {
	switch b {
	case action.ButtonRight:
		return "rd"
	case action.ButtonMiddle:
		return "dd" // cliclick has no middle-button primitive; approximate with left-down
	default:
		return "dd"
	}
}

func cliclickUpOp(b action.Button) string {
	switch b {
	case action.ButtonRight:
		return "ru"
	case action.ButtonMiddle:
		return "du"
	default:
		return "du"
	}
}

// appleScriptKey maps the agent's modifier vocabulary and named keys onto
// System Events key literals. Regular single characters pass through quoted.
func appleScriptKey(key string) string {
	switch key {
	case "cmd":
		return "command"
	case "ctrl":
		return "control"
	case "shift":
		return "shift"
	case "alt":
		return "option"
	case "Return":
		return `return`
	case "BackSpace":
		return `delete`
	default:
		if len(key) == 1 {
			return strconv.Quote(key)
		}
		return strconv.Quote(key)
	}
}
