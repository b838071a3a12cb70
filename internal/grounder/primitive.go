// ABOUTME: The closed set of compiled primitives a Grounder.Compile call produces
// ABOUTME: Primitives are produced by compilation and consumed immediately by an Executor

package grounder

import (
	"github.com/mauromedda/desktop-agent-go/internal/action"
)

// PrimitiveKind names one compiled low-level operation.
type PrimitiveKind string

const (
	PrimClick        PrimitiveKind = "click"
	PrimDrag         PrimitiveKind = "drag"
	PrimTypeText     PrimitiveKind = "type_text"
	PrimPressEnter   PrimitiveKind = "press_enter"
	PrimPressBack    PrimitiveKind = "press_backspace"
	PrimHotkey       PrimitiveKind = "hotkey"
	PrimHoldAndPress PrimitiveKind = "hold_and_press"
	PrimScroll       PrimitiveKind = "scroll"
	PrimClipboardSet PrimitiveKind = "clipboard_set"
	PrimSleep        PrimitiveKind = "sleep"
	PrimKeyDown      PrimitiveKind = "key_down"
	PrimKeyUp        PrimitiveKind = "key_up"
	PrimNone         PrimitiveKind = "none" // Done/Fail: terminal sentinel, no input events
)

// Primitive is one compiled low-level command. Only the fields relevant to
// Kind are meaningful.
type Primitive struct {
	Kind PrimitiveKind

	X, Y   int
	X2, Y2 int
	Count  int
	Button action.Button

	Text string
	Keys []string

	HoldKeys  []string
	PressKeys []string

	Horizontal bool
	Ticks      int

	Seconds float64

	Key string // for key_down/key_up
}
