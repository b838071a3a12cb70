// ABOUTME: Input backend: executes low-level primitives at pixel coordinates against a Driver
// ABOUTME: Owns hotkey press/release ordering; never raises on "element not present" since it has no notion of elements

package inputbackend

import (
	"fmt"
	"time"

	"github.com/mauromedda/desktop-agent-go/internal/action"
)

// Driver performs the actual OS-level input synthesis and clipboard access.
// Concrete implementations live in the platform subpackage, one per GOOS.
type Driver interface {
	MoveTo(x, y int) error
	MouseDown(x, y int, button action.Button) error
	MouseUp(x, y int, button action.Button) error
	KeyDown(key string) error
	KeyUp(key string) error
	TypeText(s string) error
	ScrollAt(x, y, ticks int, horizontal bool) error
	ClipboardSet(s string) error
}

// settleDelay is the pause inserted between modifier and regular key phases
// of a hotkey sequence, and between mouse-down and mouse-up of a click.
var settleDelay = 30 * time.Millisecond

// Backend exposes the primitive command set to the Grounder. It is the only
// component that touches the OS input subsystem; primitives are best-effort
// and idempotent over a single invocation.
type Backend struct {
	driver Driver
}

// New builds a Backend over the given Driver.
func New(driver Driver) *Backend {
	return &Backend{driver: driver}
}

// Click moves to (x,y) and presses/releases the button count times.
func (b *Backend) Click(x, y, count int, button action.Button) error {
	if count < 1 {
		count = 1
	}
	if err := b.driver.MoveTo(x, y); err != nil {
		return fmt.Errorf("click: move: %w", err)
	}
	for i := 0; i < count; i++ {
		if err := b.driver.MouseDown(x, y, button); err != nil {
			return fmt.Errorf("click: mouse down: %w", err)
		}
		time.Sleep(settleDelay)
		if err := b.driver.MouseUp(x, y, button); err != nil {
			return fmt.Errorf("click: mouse up: %w", err)
		}
	}
	return nil
}

// Drag moves from (x1,y1) to (x2,y2) over duration, holding the left button.
func (b *Backend) Drag(x1, y1, x2, y2 int, duration time.Duration) error {
	if err := b.driver.MoveTo(x1, y1); err != nil {
		return fmt.Errorf("drag: move to start: %w", err)
	}
	if err := b.driver.MouseDown(x1, y1, action.ButtonLeft); err != nil {
		return fmt.Errorf("drag: mouse down: %w", err)
	}
	time.Sleep(duration)
	if err := b.driver.MoveTo(x2, y2); err != nil {
		return fmt.Errorf("drag: move to end: %w", err)
	}
	if err := b.driver.MouseUp(x2, y2, action.ButtonLeft); err != nil {
		return fmt.Errorf("drag: mouse up: %w", err)
	}
	return nil
}

// TypeText is the ASCII fast path: keystrokes synthesized directly.
func (b *Backend) TypeText(s string) error {
	if err := b.driver.TypeText(s); err != nil {
		return fmt.Errorf("type_text: %w", err)
	}
	return nil
}

// PressEnter presses and releases the Enter key.
func (b *Backend) PressEnter() error {
	return b.pressOne("Return")
}

// PressBackspace presses and releases the Backspace key.
func (b *Backend) PressBackspace() error {
	return b.pressOne("BackSpace")
}

func (b *Backend) pressOne(key string) error {
	if err := b.driver.KeyDown(key); err != nil {
		return fmt.Errorf("press %s: down: %w", key, err)
	}
	time.Sleep(settleDelay)
	if err := b.driver.KeyUp(key); err != nil {
		return fmt.Errorf("press %s: up: %w", key, err)
	}
	return nil
}

// KeyDown presses and holds a single key, used to wrap a click or drag in a
// hold_keys modifier span (e.g. holding shift across a drag for a range
// selection).
func (b *Backend) KeyDown(key string) error {
	if err := b.driver.KeyDown(key); err != nil {
		return fmt.Errorf("key_down(%s): %w", key, err)
	}
	return nil
}

// KeyUp releases a key previously pressed with KeyDown.
func (b *Backend) KeyUp(key string) error {
	if err := b.driver.KeyUp(key); err != nil {
		return fmt.Errorf("key_up(%s): %w", key, err)
	}
	return nil
}

// Hotkey presses modifiers in order, a settling delay, then regulars in
// order, a settling delay, then releases regulars in reverse order, then
// releases modifiers in reverse order. Omitting the regular-key press is
// the bug this sequence must not reproduce: every key in keys gets both a
// down and an up event.
func (b *Backend) Hotkey(keys []string) error {
	modifiers, regulars := action.SplitModifiers(keys)

	for _, k := range modifiers {
		if err := b.driver.KeyDown(k); err != nil {
			return fmt.Errorf("hotkey: down(%s): %w", k, err)
		}
	}
	time.Sleep(settleDelay)
	for _, k := range regulars {
		if err := b.driver.KeyDown(k); err != nil {
			return fmt.Errorf("hotkey: down(%s): %w", k, err)
		}
	}
	time.Sleep(settleDelay)
	for i := len(regulars) - 1; i >= 0; i-- {
		if err := b.driver.KeyUp(regulars[i]); err != nil {
			return fmt.Errorf("hotkey: up(%s): %w", regulars[i], err)
		}
	}
	for i := len(modifiers) - 1; i >= 0; i-- {
		if err := b.driver.KeyUp(modifiers[i]); err != nil {
			return fmt.Errorf("hotkey: up(%s): %w", modifiers[i], err)
		}
	}
	return nil
}

// HoldAndPress holds each key in hold (down, in order), presses and
// releases each key in press (in order), then releases hold in reverse.
func (b *Backend) HoldAndPress(hold, press []string) error {
	for _, k := range hold {
		if err := b.driver.KeyDown(k); err != nil {
			return fmt.Errorf("hold_and_press: down(%s): %w", k, err)
		}
	}
	time.Sleep(settleDelay)
	for _, k := range press {
		if err := b.pressOne(k); err != nil {
			return err
		}
	}
	for i := len(hold) - 1; i >= 0; i-- {
		if err := b.driver.KeyUp(hold[i]); err != nil {
			return fmt.Errorf("hold_and_press: up(%s): %w", hold[i], err)
		}
	}
	return nil
}

// Scroll emits ticks scroll wheel units at (x,y); sign indicates direction.
func (b *Backend) Scroll(x, y, ticks int, horizontal bool) error {
	if err := b.driver.ScrollAt(x, y, ticks, horizontal); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// ClipboardSet writes s to the OS clipboard.
func (b *Backend) ClipboardSet(s string) error {
	if err := b.driver.ClipboardSet(s); err != nil {
		return fmt.Errorf("clipboard_set: %w", err)
	}
	return nil
}

// Sleep pauses for the given number of seconds.
func (b *Backend) Sleep(seconds float64) {
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}
