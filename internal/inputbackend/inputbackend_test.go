// ABOUTME: Tests for hotkey/hold_and_press event ordering and primitive dispatch
// ABOUTME: Uses a recording fake Driver so no real OS input is synthesized

package inputbackend

import (
	"reflect"
	"testing"
	"time"

	"github.com/mauromedda/desktop-agent-go/internal/action"
)

type event struct {
	op  string
	arg string
}

type recordingDriver struct {
	events []event
}

func (d *recordingDriver) MoveTo(x, y int) error { d.events = append(d.events, event{"move", ""}); return nil }
func (d *recordingDriver) MouseDown(x, y int, button action.Button) error {
	d.events = append(d.events, event{"mousedown", string(button)})
	return nil
}
func (d *recordingDriver) MouseUp(x, y int, button action.Button) error {
	d.events = append(d.events, event{"mouseup", string(button)})
	return nil
}
func (d *recordingDriver) KeyDown(key string) error {
	d.events = append(d.events, event{"down", key})
	return nil
}
func (d *recordingDriver) KeyUp(key string) error {
	d.events = append(d.events, event{"up", key})
	return nil
}
func (d *recordingDriver) TypeText(s string) error {
	d.events = append(d.events, event{"type", s})
	return nil
}
func (d *recordingDriver) ScrollAt(x, y, ticks int, horizontal bool) error {
	d.events = append(d.events, event{"scroll", ""})
	return nil
}
func (d *recordingDriver) ClipboardSet(s string) error {
	d.events = append(d.events, event{"clipboard", s})
	return nil
}

func withNoSettleDelay(t *testing.T) {
	t.Helper()
	old := settleDelay
	settleDelay = 0
	t.Cleanup(func() { settleDelay = old })
}

func TestHotkey_CmdSpace(t *testing.T) {
	withNoSettleDelay(t)
	d := &recordingDriver{}
	b := New(d)

	if err := b.Hotkey([]string{"cmd", "space"}); err != nil {
		t.Fatalf("Hotkey() error = %v", err)
	}
	want := []event{{"down", "cmd"}, {"down", "space"}, {"up", "space"}, {"up", "cmd"}}
	if !reflect.DeepEqual(d.events, want) {
		t.Errorf("events = %v, want %v", d.events, want)
	}
}

func TestHotkey_CtrlShiftT(t *testing.T) {
	withNoSettleDelay(t)
	d := &recordingDriver{}
	b := New(d)

	if err := b.Hotkey([]string{"ctrl", "shift", "t"}); err != nil {
		t.Fatalf("Hotkey() error = %v", err)
	}
	want := []event{
		{"down", "ctrl"}, {"down", "shift"}, {"down", "t"},
		{"up", "t"}, {"up", "shift"}, {"up", "ctrl"},
	}
	if !reflect.DeepEqual(d.events, want) {
		t.Errorf("events = %v, want %v", d.events, want)
	}
}

func TestClick_DefaultSingleLeftClick(t *testing.T) {
	withNoSettleDelay(t)
	d := &recordingDriver{}
	b := New(d)

	if err := b.Click(10, 20, 1, action.ButtonLeft); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	want := []event{{"move", ""}, {"mousedown", "left"}, {"mouseup", "left"}}
	if !reflect.DeepEqual(d.events, want) {
		t.Errorf("events = %v, want %v", d.events, want)
	}
}

func TestClick_MultipleClicks(t *testing.T) {
	withNoSettleDelay(t)
	d := &recordingDriver{}
	b := New(d)

	if err := b.Click(0, 0, 2, action.ButtonLeft); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	downUps := 0
	for _, e := range d.events {
		if e.op == "mousedown" {
			downUps++
		}
	}
	if downUps != 2 {
		t.Errorf("mousedown count = %d, want 2", downUps)
	}
}

func TestHoldAndPress_Order(t *testing.T) {
	withNoSettleDelay(t)
	d := &recordingDriver{}
	b := New(d)

	if err := b.HoldAndPress([]string{"ctrl"}, []string{"a"}); err != nil {
		t.Fatalf("HoldAndPress() error = %v", err)
	}
	want := []event{{"down", "ctrl"}, {"down", "a"}, {"up", "a"}, {"up", "ctrl"}}
	if !reflect.DeepEqual(d.events, want) {
		t.Errorf("events = %v, want %v", d.events, want)
	}
}

func TestSleep_BlocksForDuration(t *testing.T) {
	t.Parallel()

	b := New(&recordingDriver{})
	start := time.Now()
	b.Sleep(0.01)
	if time.Since(start) < 10*time.Millisecond {
		t.Error("Sleep(0.01) returned too early")
	}
}
