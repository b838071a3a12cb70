// ABOUTME: Executor runs a compiled primitive sequence against an input backend
// ABOUTME: Primitive errors are logged and the step is still considered executed; recovery happens via the next capture

package orchestrator

import (
	"time"

	"github.com/mauromedda/desktop-agent-go/internal/grounder"
	"github.com/mauromedda/desktop-agent-go/internal/inputbackend"
)

// dragDuration is the time a drag's mouse-down-to-mouse-up motion spans.
const dragDuration = 200 * time.Millisecond

// runPrimitives executes each primitive in order against backend. A failing
// primitive is reported via onErr but does not abort the remaining sequence:
// primitives are best-effort per spec, and the next capture drives recovery.
func runPrimitives(backend *inputbackend.Backend, prims []grounder.Primitive, onErr func(kind grounder.PrimitiveKind, err error)) {
	for _, p := range prims {
		if err := runOne(backend, p); err != nil && onErr != nil {
			onErr(p.Kind, err)
		}
	}
}

func runOne(backend *inputbackend.Backend, p grounder.Primitive) error {
	switch p.Kind {
	case grounder.PrimClick:
		return backend.Click(p.X, p.Y, p.Count, p.Button)
	case grounder.PrimDrag:
		return backend.Drag(p.X, p.Y, p.X2, p.Y2, dragDuration)
	case grounder.PrimTypeText:
		return backend.TypeText(p.Text)
	case grounder.PrimPressEnter:
		return backend.PressEnter()
	case grounder.PrimPressBack:
		return backend.PressBackspace()
	case grounder.PrimHotkey:
		return backend.Hotkey(p.Keys)
	case grounder.PrimHoldAndPress:
		return backend.HoldAndPress(p.HoldKeys, p.PressKeys)
	case grounder.PrimScroll:
		return backend.Scroll(p.X, p.Y, p.Ticks, p.Horizontal)
	case grounder.PrimClipboardSet:
		return backend.ClipboardSet(p.Text)
	case grounder.PrimSleep:
		backend.Sleep(p.Seconds)
		return nil
	case grounder.PrimKeyDown:
		return backend.KeyDown(p.Key)
	case grounder.PrimKeyUp:
		return backend.KeyUp(p.Key)
	case grounder.PrimNone:
		return nil
	default:
		return unknownPrimitiveError{kind: p.Kind}
	}
}

type unknownPrimitiveError struct{ kind grounder.PrimitiveKind }

func (e unknownPrimitiveError) Error() string { return "unknown primitive kind " + string(e.kind) }
