// ABOUTME: Coordinate resolution: resolve_point via a grounding model, resolve_text via OCR + text-locator LLM
// ABOUTME: Both rescale from grounding space to screen space using screen_dim/grounding_dim

package grounder

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/desktop-agent-go/internal/action"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

// GroundingError indicates a screenshot is missing, the model reply had no
// coordinates, or an OCR word id was out of range. Per spec it is surfaced
// as a WAIT(1.333) exec-code rather than aborting the task.
type GroundingError struct {
	Reason string
}

func (e *GroundingError) Error() string { return "grounding: " + e.Reason }

var firstTwoInts = regexp.MustCompile(`-?\d+`)

// ResolvePoint sends the grounding-space screenshot plus a constrained
// prompt to the grounding model, parses the first two integers from the
// response, and rescales them from grounding space to screen space.
func (g *Grounder) ResolvePoint(ctx context.Context, description string, obs *screen.Observation) (int, int, error) {
	if obs == nil || len(obs.Grounding) == 0 {
		return 0, 0, &GroundingError{Reason: "no screenshot bound"}
	}

	msg := ai.NewImageMessage(ai.RoleUser,
		fmt.Sprintf("Return only the pixel coordinates, as two integers \"x y\", of: %s", description),
		"image/png", encodeBase64(obs.Grounding))

	llmCtx := &ai.Context{
		System:   "You locate UI elements. Reply with exactly two integers separated by a space: the x and y coordinates in the supplied image, nothing else.",
		Messages: []ai.Message{msg},
	}

	reply := g.client.Generate(ctx, llmCtx, &ai.GenerateOptions{MaxTokens: 32, Temperature: 0})
	nums := firstTwoInts.FindAllString(reply, -1)
	if len(nums) < 2 {
		return 0, 0, &GroundingError{Reason: "no coordinates in grounding model response"}
	}
	gx, _ := strconv.Atoi(nums[0])
	gy, _ := strconv.Atoi(nums[1])

	x := rescale(gx, obs.GroundingWidth, obs.Width)
	y := rescale(gy, obs.GroundingHeight, obs.Height)
	return x, y, nil
}

// rescale maps a coordinate from the grounding-space canvas to screen space
// by screen_dim / grounding_dim.
func rescale(coord, groundingDim, screenDim int) int {
	if groundingDim == 0 {
		return coord
	}
	return int(float64(coord) * float64(screenDim) / float64(groundingDim))
}

var lastInt = regexp.MustCompile(`-?\d+`)

// ResolveText runs OCR, sends (phrase, table, screenshot) to the
// text-locator LLM, parses the last integer in the reply as a word id, and
// returns the left-mid/right-mid/center point of that word's box. If the
// reply doesn't parse to a bare integer id, falls back to fuzzy-matching
// phrase against the OCR word table.
func (g *Grounder) ResolveText(ctx context.Context, phrase string, alignment action.Alignment, obs *screen.Observation) (int, int, error) {
	if obs == nil || len(obs.Raw) == 0 {
		return 0, 0, &GroundingError{Reason: "no screenshot bound"}
	}
	if g.locator == nil {
		return 0, 0, &GroundingError{Reason: "no text locator configured"}
	}

	elements, err := g.locator.OCR(obs.Raw)
	if err != nil {
		return 0, 0, &GroundingError{Reason: fmt.Sprintf("OCR failed: %v", err)}
	}
	if len(elements) == 0 {
		return 0, 0, &GroundingError{Reason: "OCR returned no elements"}
	}

	table := screen.RenderOcrTable(elements)
	msg := ai.NewImageMessage(ai.RoleUser,
		fmt.Sprintf("Find the word matching %q in this table:\n%s\nReply with only its id.", phrase, table),
		"image/png", encodeBase64(obs.Raw))

	llmCtx := &ai.Context{
		System:   "You match a phrase to a word id from the supplied id/text table. Reply with exactly one integer: the id, nothing else.",
		Messages: []ai.Message{msg},
	}

	reply := g.client.Generate(ctx, llmCtx, &ai.GenerateOptions{MaxTokens: 16, Temperature: 0})

	id, ok := parseID(reply, len(elements))
	if !ok {
		id, ok = fuzzyFallback(phrase, elements)
		if !ok {
			return 0, 0, &GroundingError{Reason: "could not resolve a word id for phrase"}
		}
	}

	el := elements[id]
	return alignPoint(el, alignment), elements[id].Top + elements[id].Height/2, nil
}

func parseID(reply string, n int) (int, bool) {
	matches := lastInt.FindAllString(reply, -1)
	if len(matches) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil || id < 0 || id >= n {
		return 0, false
	}
	return id, true
}

// fuzzyFallback matches phrase against the OCR word texts when the model's
// reply doesn't parse to a clean integer id.
func fuzzyFallback(phrase string, elements []screen.OcrElement) (int, bool) {
	texts := make([]string, len(elements))
	for i, el := range elements {
		texts[i] = el.Text
	}
	matches := fuzzy.Find(phrase, texts)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Index, true
}

// alignPoint returns the left-mid, right-mid, or center x of el's bounding
// box according to alignment (y is handled by the caller).
func alignPoint(el screen.OcrElement, alignment action.Alignment) int {
	switch alignment {
	case action.AlignStart:
		return el.Left
	case action.AlignEnd:
		return el.Left + el.Width
	default:
		return el.Left + el.Width/2
	}
}
