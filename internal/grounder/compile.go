// ABOUTME: Compile turns one parsed Action into an ordered []Primitive, resolving coordinates along the way
// ABOUTME: Verbs with no on-screen effect (save_to_knowledge, set_cell_values, call_code_agent, done/fail) return no primitives

package grounder

import (
	"context"
	"unicode"

	"github.com/mauromedda/desktop-agent-go/internal/action"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
)

// Compile resolves act against obs and returns the ordered primitives the
// orchestrator must run. A returned error means grounding failed (no
// screenshot, unresolvable phrase); per spec the caller treats this as a
// step failure, not a fatal one, and should fall back to WAIT(1.333) before
// retrying.
func (g *Grounder) Compile(ctx context.Context, act *action.Action, obs *screen.Observation) ([]Primitive, error) {
	switch act.Kind {
	case action.VerbClick:
		return g.compileClick(ctx, act, obs)
	case action.VerbType:
		return g.compileType(ctx, act, obs)
	case action.VerbScroll:
		return g.compileScroll(ctx, act, obs)
	case action.VerbDragAndDrop:
		return g.compileDragAndDrop(ctx, act, obs)
	case action.VerbHighlightTextSpan:
		return g.compileHighlightTextSpan(ctx, act, obs)
	case action.VerbHotkey:
		return []Primitive{{Kind: PrimHotkey, Keys: act.Keys}}, nil
	case action.VerbHoldAndPress:
		return []Primitive{{Kind: PrimHoldAndPress, HoldKeys: act.HoldKeys, PressKeys: act.PressKeys}}, nil
	case action.VerbWait:
		return []Primitive{{Kind: PrimSleep, Seconds: act.Seconds}}, nil
	case action.VerbDone, action.VerbFail:
		// Terminal sentinels: the orchestrator reads act.Kind directly and
		// never reaches Compile for these in the normal loop, but a direct
		// caller gets an empty, side-effect-free primitive list.
		return nil, nil
	case action.VerbCallCodeAgent:
		return nil, g.runCodeAgent(ctx, act)
	case action.VerbSwitchApplications:
		return g.compileOpenSequence(act.AppCode), nil
	case action.VerbOpen:
		return g.compileOpenSequence(act.AppOrFilename), nil
	case action.VerbSaveToKnowledge:
		g.knowledge = append(g.knowledge, act.Notes...)
		return nil, nil
	case action.VerbSetCellValues:
		return nil, g.sheet.SetCells(act.App, act.Sheet, act.CellValues)
	default:
		return nil, &GroundingError{Reason: "unknown action kind " + string(act.Kind)}
	}
}

// compileClick resolves the click target, wrapping the click in hold-key
// down/up when HoldKeys is non-empty (e.g. shift-click for multi-select).
func (g *Grounder) compileClick(ctx context.Context, act *action.Action, obs *screen.Observation) ([]Primitive, error) {
	x, y, err := g.ResolvePoint(ctx, act.Description, obs)
	if err != nil {
		return nil, err
	}

	count := act.NumClicks
	if count < 1 {
		count = 1
	}
	button := act.ClickButton
	if button == "" {
		button = action.ButtonLeft
	}

	prims := make([]Primitive, 0, len(act.HoldKeys)*2+1)
	for _, k := range act.HoldKeys {
		prims = append(prims, Primitive{Kind: PrimKeyDown, Key: k})
	}
	prims = append(prims, Primitive{Kind: PrimClick, X: x, Y: y, Count: count, Button: button})
	for i := len(act.HoldKeys) - 1; i >= 0; i-- {
		prims = append(prims, Primitive{Kind: PrimKeyUp, Key: act.HoldKeys[i]})
	}
	return prims, nil
}

// compileType optionally clicks into the described field first, takes the
// ASCII fast path (direct keystroke synthesis) or the clipboard path
// (non-ASCII text, pasted via the platform's paste modifier) depending on
// whether text is representable as plain keystrokes. Overwrite selects all
// and deletes before typing; Enter presses Return after.
func (g *Grounder) compileType(ctx context.Context, act *action.Action, obs *screen.Observation) ([]Primitive, error) {
	var prims []Primitive

	if act.Description != "" {
		x, y, err := g.ResolvePoint(ctx, act.Description, obs)
		if err != nil {
			return nil, err
		}
		prims = append(prims, Primitive{Kind: PrimClick, X: x, Y: y, Count: 1, Button: action.ButtonLeft})
	}

	if act.Overwrite {
		prims = append(prims, Primitive{Kind: PrimHotkey, Keys: []string{g.strategy.SelectAllModifier(), "a"}})
		prims = append(prims, Primitive{Kind: PrimPressBack})
	}

	if isASCII(act.Text) {
		prims = append(prims, Primitive{Kind: PrimTypeText, Text: act.Text})
	} else {
		prims = append(prims, Primitive{Kind: PrimClipboardSet, Text: act.Text})
		prims = append(prims, Primitive{Kind: PrimHotkey, Keys: []string{g.strategy.PasteModifier(), "v"}})
	}

	if act.Enter {
		prims = append(prims, Primitive{Kind: PrimPressEnter})
	}
	return prims, nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// compileScroll resolves the described location and scrolls there; clicks'
// sign carries direction, horizontal selects the wheel axis.
func (g *Grounder) compileScroll(ctx context.Context, act *action.Action, obs *screen.Observation) ([]Primitive, error) {
	x, y, err := g.ResolvePoint(ctx, act.Description, obs)
	if err != nil {
		return nil, err
	}
	return []Primitive{{Kind: PrimScroll, X: x, Y: y, Ticks: act.Clicks, Horizontal: act.Horizontal}}, nil
}

// compileDragAndDrop wraps the drag in hold-key down/up when HoldKeys is
// non-empty (e.g. dragging while holding alt to copy instead of move).
func (g *Grounder) compileDragAndDrop(ctx context.Context, act *action.Action, obs *screen.Observation) ([]Primitive, error) {
	x1, y1, err := g.ResolvePoint(ctx, act.StartDesc, obs)
	if err != nil {
		return nil, err
	}
	x2, y2, err := g.ResolvePoint(ctx, act.EndDesc, obs)
	if err != nil {
		return nil, err
	}

	prims := make([]Primitive, 0, len(act.HoldKeys)*2+1)
	for _, k := range act.HoldKeys {
		prims = append(prims, Primitive{Kind: PrimKeyDown, Key: k})
	}
	prims = append(prims, Primitive{Kind: PrimDrag, X: x1, Y: y1, X2: x2, Y2: y2, Button: action.ButtonLeft})
	for i := len(act.HoldKeys) - 1; i >= 0; i-- {
		prims = append(prims, Primitive{Kind: PrimKeyUp, Key: act.HoldKeys[i]})
	}
	return prims, nil
}

// compileHighlightTextSpan resolves the start phrase to the left edge of its
// word and the end phrase to the right edge of its word, then drags between
// them to select the span.
func (g *Grounder) compileHighlightTextSpan(ctx context.Context, act *action.Action, obs *screen.Observation) ([]Primitive, error) {
	x1, y1, err := g.ResolveText(ctx, act.StartPhrase, action.AlignStart, obs)
	if err != nil {
		return nil, err
	}
	x2, y2, err := g.ResolveText(ctx, act.EndPhrase, action.AlignEnd, obs)
	if err != nil {
		return nil, err
	}
	return []Primitive{{Kind: PrimDrag, X: x1, Y: y1, X2: x2, Y2: y2, Button: action.ButtonLeft}}, nil
}

func (g *Grounder) runCodeAgent(ctx context.Context, act *action.Action) error {
	if g.code == nil {
		return &GroundingError{Reason: "no code sub-agent configured"}
	}
	task := ""
	if act.Task != nil {
		task = *act.Task
	}
	report := g.code.Run(ctx, task)
	g.lastCodeAgentResult = &report
	return nil
}

// compileOpenSequence converts a platform.Strategy's OpenSequence steps into
// primitives; used identically for switch_applications and open since both
// verbs resolve to the same "invoke the OS app switcher/launcher" sequence.
func (g *Grounder) compileOpenSequence(name string) []Primitive {
	steps := g.strategy.OpenSequence(name)
	prims := make([]Primitive, 0, len(steps))
	for _, s := range steps {
		switch s.Kind {
		case "hotkey":
			prims = append(prims, Primitive{Kind: PrimHotkey, Keys: s.Keys})
		case "type_text":
			prims = append(prims, Primitive{Kind: PrimTypeText, Text: s.Text})
		case "press_enter":
			prims = append(prims, Primitive{Kind: PrimPressEnter})
		case "sleep":
			prims = append(prims, Primitive{Kind: PrimSleep, Seconds: 0.5})
		}
	}
	return prims
}
