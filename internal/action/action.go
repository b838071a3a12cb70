// ABOUTME: Typed Action sum type: the closed set of verbs a Worker plan may emit
// ABOUTME: Every model output must parse to exactly one of these variants

package action

// Button identifies a mouse button for click/drag/highlight primitives.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

// Alignment selects which edge of a word's bounding box resolve_text returns.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignEnd    Alignment = "end"
	AlignCenter Alignment = "center"
)

// Verb names the closed set of agent.<verb>(...) calls a plan may contain.
type Verb string

const (
	VerbClick              Verb = "click"
	VerbType               Verb = "type"
	VerbScroll             Verb = "scroll"
	VerbDragAndDrop        Verb = "drag_and_drop"
	VerbHighlightTextSpan  Verb = "highlight_text_span"
	VerbHotkey             Verb = "hotkey"
	VerbHoldAndPress       Verb = "hold_and_press"
	VerbWait               Verb = "wait"
	VerbDone               Verb = "done"
	VerbFail               Verb = "fail"
	VerbCallCodeAgent      Verb = "call_code_agent"
	VerbSwitchApplications Verb = "switch_applications"
	VerbOpen               Verb = "open"
	VerbSaveToKnowledge    Verb = "save_to_knowledge"
	VerbSetCellValues      Verb = "set_cell_values"
)

// Action is the closed sum type. Kind identifies which variant is populated;
// only the fields relevant to that Kind are meaningful.
type Action struct {
	Kind Verb

	// Click
	Description string
	NumClicks   int
	ClickButton Button
	HoldKeys    []string

	// Type
	Text      string
	Overwrite bool
	Enter     bool

	// Scroll
	Clicks     int
	Horizontal bool

	// DragAndDrop
	StartDesc string
	EndDesc   string

	// HighlightTextSpan
	StartPhrase string
	EndPhrase   string

	// Hotkey (Keys) / HoldAndPress (HoldKeys held, PressKeys pressed)
	Keys      []string
	PressKeys []string

	// Wait
	Seconds float64

	// CallCodeAgent
	Task *string

	// SwitchApplications / Open
	AppCode       string
	AppOrFilename string

	// SaveToKnowledge
	Notes []string

	// SetCellValues
	CellValues map[string]any
	App        string
	Sheet      string
}

// modifierKeys distinguishes modifier keys from ordinary keys for hotkey
// press/release ordering.
var modifierKeys = map[string]bool{
	"shift": true,
	"ctrl":  true,
	"cmd":   true,
	"alt":   true,
}

// IsModifier reports whether key is one of the four recognized modifiers.
func IsModifier(key string) bool {
	return modifierKeys[key]
}

// SplitModifiers partitions keys into modifiers (in input order) and
// regular keys (in input order), per the Hotkey contract.
func SplitModifiers(keys []string) (modifiers, regulars []string) {
	for _, k := range keys {
		if IsModifier(k) {
			modifiers = append(modifiers, k)
		} else {
			regulars = append(regulars, k)
		}
	}
	return modifiers, regulars
}
