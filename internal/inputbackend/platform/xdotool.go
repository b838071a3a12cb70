// ABOUTME: xdotool-backed Driver for Linux/X11 input synthesis
// ABOUTME: Shells out per primitive; returns an error if xdotool is not on PATH

package platform

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/atotto/clipboard"

	"github.com/mauromedda/desktop-agent-go/internal/action"
)

// XdotoolDriver synthesizes input via the xdotool CLI.
type XdotoolDriver struct{}

// NewXdotoolDriver returns a driver backed by xdotool, or an error if it is
// not installed.
func NewXdotoolDriver() (*XdotoolDriver, error) {
	if !commandExists("xdotool") {
		return nil, fmt.Errorf("xdotool not found on PATH")
	}
	return &XdotoolDriver{}, nil
}

func (d *XdotoolDriver) run(args ...string) error {
	cmd := exec.Command("xdotool", args...)
	return cmd.Run()
}

func (d *XdotoolDriver) MoveTo(x, y int) error {
	return d.run("mousemove", strconv.Itoa(x), strconv.Itoa(y))
}

func (d *XdotoolDriver) MouseDown(x, y int, button action.Button) error {
	return d.run("mousedown", xdotoolButton(button))
}

func (d *XdotoolDriver) MouseUp(x, y int, button action.Button) error {
	return d.run("mouseup", xdotoolButton(button))
}

func (d *XdotoolDriver) KeyDown(key string) error {
	return d.run("keydown", xdotoolKey(key))
}

func (d *XdotoolDriver) KeyUp(key string) error {
	return d.run("keyup", xdotoolKey(key))
}

func (d *XdotoolDriver) TypeText(s string) error {
	return d.run("type", "--", s)
}

func (d *XdotoolDriver) ScrollAt(x, y, ticks int, horizontal bool) error {
	button := "4"
	if ticks < 0 {
		button = "5"
	}
	if horizontal {
		if ticks < 0 {
			button = "6"
		} else {
			button = "7"
		}
	}
	n := ticks
	if n < 0 {
		n = -n
	}
	if err := d.run("mousemove", strconv.Itoa(x), strconv.Itoa(y)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := d.run("click", button); err != nil {
			return err
		}
	}
	return nil
}

func (d *XdotoolDriver) ClipboardSet(s string) error {
	return clipboard.WriteAll(s)
}

func xdotoolButton(b action.Button) string {
	switch b {
	case action.ButtonRight:
		return "3"
	case action.ButtonMiddle:
		return "2"
	default:
		return "1"
	}
}

// xdotoolKey maps the agent's modifier vocabulary onto X11 keysym names.
func xdotoolKey(key string) string {
	switch key {
	case "cmd":
		return "super"
	case "ctrl":
		return "ctrl"
	case "shift":
		return "shift"
	case "alt":
		return "alt"
	case "space":
		return "space"
	default:
		return key
	}
}
