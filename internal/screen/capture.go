// ABOUTME: Screen capture: abstract Capturer plus OS-tool-backed implementations
// ABOUTME: Screenshot capture is an external collaborator per spec; this is a thin exec wrapper

package screen

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Capturer returns a bitmap of the primary display.
type Capturer interface {
	Capture() ([]byte, error)
}

// NewCapturer auto-detects an OS screenshot tool (scrot/import on Linux,
// screencapture on macOS).
func NewCapturer() (Capturer, error) {
	switch runtime.GOOS {
	case "darwin":
		return &screencaptureCapturer{}, nil
	case "linux":
		if _, err := exec.LookPath("scrot"); err == nil {
			return &scrotCapturer{}, nil
		}
		if _, err := exec.LookPath("import"); err == nil {
			return &importCapturer{}, nil
		}
		return nil, fmt.Errorf("no screenshot tool found (need scrot or ImageMagick's import)")
	default:
		return nil, fmt.Errorf("unsupported platform %s for screen capture", runtime.GOOS)
	}
}

type screencaptureCapturer struct{}

func (c *screencaptureCapturer) Capture() ([]byte, error) {
	f, err := os.CreateTemp("", "capture-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating capture temp file: %w", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	if err := exec.Command("screencapture", "-x", f.Name()).Run(); err != nil {
		return nil, fmt.Errorf("screencapture: %w", err)
	}
	return os.ReadFile(f.Name())
}

type scrotCapturer struct{}

func (c *scrotCapturer) Capture() ([]byte, error) {
	f, err := os.CreateTemp("", "capture-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating capture temp file: %w", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	if err := exec.Command("scrot", "-z", f.Name()).Run(); err != nil {
		return nil, fmt.Errorf("scrot: %w", err)
	}
	return os.ReadFile(f.Name())
}

type importCapturer struct{}

func (c *importCapturer) Capture() ([]byte, error) {
	f, err := os.CreateTemp("", "capture-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating capture temp file: %w", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	if err := exec.Command("import", "-window", "root", f.Name()).Run(); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return os.ReadFile(f.Name())
}
