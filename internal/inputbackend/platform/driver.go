// ABOUTME: GOOS-based Driver selection with a noop fallback, mirroring internal/sandbox's auto-detect pattern
// ABOUTME: Falls back to noop when no platform input-synthesis tool is available (e.g. headless CI)

package platform

import (
	"runtime"

	"github.com/mauromedda/desktop-agent-go/internal/action"
	"github.com/mauromedda/desktop-agent-go/internal/inputbackend"
)

// NewDriver auto-detects the best available input-synthesis tool for the
// current GOOS, falling back to a noop driver if none is found.
func NewDriver() inputbackend.Driver {
	switch runtime.GOOS {
	case "darwin":
		if d, err := NewCliclickDriver(); err == nil {
			return d
		}
	case "linux":
		if d, err := NewXdotoolDriver(); err == nil {
			return d
		}
	}
	return noopDriver{}
}

// noopDriver discards every primitive; used when no input-synthesis tool is
// installed so the rest of the pipeline can still be exercised in tests.
type noopDriver struct{}

func (noopDriver) MoveTo(x, y int) error                               { return nil }
func (noopDriver) MouseDown(x, y int, button action.Button) error      { return nil }
func (noopDriver) MouseUp(x, y int, button action.Button) error        { return nil }
func (noopDriver) KeyDown(key string) error                            { return nil }
func (noopDriver) KeyUp(key string) error                              { return nil }
func (noopDriver) TypeText(s string) error                             { return nil }
func (noopDriver) ScrollAt(x, y, ticks int, horizontal bool) error      { return nil }
func (noopDriver) ClipboardSet(s string) error                         { return nil }
