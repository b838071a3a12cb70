// ABOUTME: Tests for code-block extraction, call extraction, and per-verb parsing
// ABOUTME: Covers the round-trip, last-block, and balanced-paren invariants from the testable properties

package action

import "testing"

func TestParseCodeBlock_ReturnsLastFencedBlock(t *testing.T) {
	t.Parallel()

	input := "```python\nagent.wait(1.0)\n```\nsome text\n```python\nagent.done()\n```"
	code, ok := ParseCodeBlock(input)
	if !ok {
		t.Fatal("expected a fenced block to be found")
	}
	if code != "agent.done()" {
		t.Errorf("code = %q, want last block", code)
	}
}

func TestParseCodeBlock_NoFence(t *testing.T) {
	t.Parallel()

	code, ok := ParseCodeBlock("agent.done()")
	if ok {
		t.Error("expected ok=false when no fence is present")
	}
	if code != "agent.done()" {
		t.Errorf("code = %q", code)
	}
}

func TestExtractCalls_BalancedParens(t *testing.T) {
	t.Parallel()

	calls := ExtractCalls(`agent.click("close (x)") `)
	if len(calls) != 1 {
		t.Fatalf("len(calls) = %d, want 1", len(calls))
	}
	if calls[0] != `agent.click("close (x)")` {
		t.Errorf("calls[0] = %q", calls[0])
	}
}

func TestExtractCalls_MultipleCalls(t *testing.T) {
	t.Parallel()

	calls := ExtractCalls(`agent.wait(1.0)\nagent.done()`)
	if len(calls) != 2 {
		t.Fatalf("len(calls) = %d, want 2", len(calls))
	}
}

func TestParseCall_ClickDefaultsOmitted(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.click("the button")`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	b, err := ParseCall(`agent.click(description="the button", num_clicks=1, button="left", hold_keys=[])`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	if a.Description != b.Description || a.NumClicks != b.NumClicks || a.ClickButton != b.ClickButton {
		t.Errorf("defaults-omitted action %+v != defaults-explicit action %+v", a, b)
	}
}

func TestParseCall_UnknownVerb(t *testing.T) {
	t.Parallel()

	_, err := ParseCall(`agent.teleport("somewhere")`)
	if err == nil {
		t.Fatal("expected error for unknown verb")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != "UnknownVerb" {
		t.Fatalf("err = %v, want UnknownVerb ParseError", err)
	}
	if pe.Feedback == "" {
		t.Error("expected non-empty feedback string")
	}
}

func TestParseCall_KeywordArguments(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.type(text="hi", overwrite=True)`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	if !a.Overwrite || a.Text != "hi" {
		t.Errorf("a = %+v", a)
	}
}

func TestParseCall_HotkeyNonEmptyKeys(t *testing.T) {
	t.Parallel()

	_, err := ParseCall(`agent.hotkey(keys=[])`)
	if err == nil {
		t.Fatal("expected error for empty keys list")
	}
}

func TestParseCall_Scroll(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.scroll("the page", -3)`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	if a.Clicks != -3 || a.Description != "the page" {
		t.Errorf("a = %+v", a)
	}
}

func TestParseCall_DoneAndFail(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.done()`)
	if err != nil || a.Kind != VerbDone {
		t.Fatalf("done() = %+v, %v", a, err)
	}
	b, err := ParseCall(`agent.fail()`)
	if err != nil || b.Kind != VerbFail {
		t.Fatalf("fail() = %+v, %v", b, err)
	}
}

func TestParseCall_CallCodeAgentNoneTask(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.call_code_agent(None)`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	if a.Task != nil {
		t.Errorf("Task = %v, want nil", a.Task)
	}
}

func TestSplitModifiers_Hotkey(t *testing.T) {
	t.Parallel()

	mods, regs := SplitModifiers([]string{"cmd", "space"})
	if len(mods) != 1 || mods[0] != "cmd" {
		t.Errorf("mods = %v", mods)
	}
	if len(regs) != 1 || regs[0] != "space" {
		t.Errorf("regs = %v", regs)
	}
}

func TestParseCall_HighlightTextSpan(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.highlight_text_span("The quick", "lazy dog")`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	if a.StartPhrase != "The quick" || a.EndPhrase != "lazy dog" || a.ClickButton != ButtonLeft {
		t.Errorf("a = %+v", a)
	}
}

func TestParseCall_SetCellValues(t *testing.T) {
	t.Parallel()

	a, err := ParseCall(`agent.set_cell_values({'A1': 42, 'B1': 'hello'}, "Numbers", "Sheet1")`)
	if err != nil {
		t.Fatalf("ParseCall() error = %v", err)
	}
	if a.App != "Numbers" || a.Sheet != "Sheet1" {
		t.Errorf("a = %+v", a)
	}
	if len(a.CellValues) != 2 {
		t.Fatalf("CellValues = %+v, want 2 entries", a.CellValues)
	}
	if a.CellValues["A1"] != 42 || a.CellValues["B1"] != "hello" {
		t.Errorf("CellValues = %+v", a.CellValues)
	}
}

func TestParseCall_SetCellValues_RequiresDictLiteral(t *testing.T) {
	t.Parallel()

	_, err := ParseCall(`agent.set_cell_values("A1=42", "Numbers", "Sheet1")`)
	if err == nil {
		t.Fatal("expected error for non-dict values argument")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != "BadArgument" {
		t.Fatalf("err = %v, want BadArgument", err)
	}
}

func TestParseCall_MissingRequiredArgument(t *testing.T) {
	t.Parallel()

	_, err := ParseCall(`agent.click()`)
	if err == nil {
		t.Fatal("expected error for missing description")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != "MissingRequired" {
		t.Fatalf("err = %v, want MissingRequired", err)
	}
}
