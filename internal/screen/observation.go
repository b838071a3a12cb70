// ABOUTME: Observation: a captured screenshot plus its grounding-space scaled copy
// ABOUTME: Immutable for the rest of the step once created

package screen

import (
	"bytes"
	"fmt"
	stdimage "image"
)

// Observation is produced once per orchestrator step and consumed by the
// Worker, Reflector, and Grounder for that step only.
type Observation struct {
	Raw             []byte
	Width           int
	Height          int
	Grounding       []byte
	GroundingWidth  int
	GroundingHeight int
}

// Observe captures one screenshot and produces its grounding-space scaled
// copy. Called once per orchestrator step; the result is immutable for the
// rest of that step.
func Observe(c Capturer, groundingWidth, groundingHeight int) (*Observation, error) {
	raw, err := c.Capture()
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}

	cfg, _, err := stdimage.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot dimensions: %w", err)
	}

	grounding, gw, gh, err := Resize(raw, groundingWidth, groundingHeight)
	if err != nil {
		return nil, fmt.Errorf("scaling to grounding space: %w", err)
	}

	return &Observation{
		Raw:             raw,
		Width:           cfg.Width,
		Height:          cfg.Height,
		Grounding:       grounding,
		GroundingWidth:  gw,
		GroundingHeight: gh,
	}, nil
}
