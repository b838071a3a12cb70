// ABOUTME: Per-verb argument binding: positional/keyword resolution with defaults
// ABOUTME: Mirrors the Action variant table in spec exactly, including default values

package action

func bindClick(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbClick, NumClicks: 1, ClickButton: ButtonLeft}

	descLit, ok := lookup(bound, 0, "description")
	if !ok {
		return Action{}, missingRequired(string(VerbClick), "description")
	}
	desc, ok := descLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbClick), "description", "expected string")
	}
	a.Description = desc

	if lit, ok := lookup(bound, 1, "num_clicks"); ok {
		n, ok := lit.asInt()
		if !ok || n < 1 {
			return Action{}, badArgument(string(VerbClick), "num_clicks", "must be an integer >= 1")
		}
		a.NumClicks = n
	}
	if lit, ok := lookup(bound, 2, "button"); ok {
		b, ok := lit.asString()
		if !ok || !isValidButton(b) {
			return Action{}, badArgument(string(VerbClick), "button", "must be one of left, right, middle")
		}
		a.ClickButton = Button(b)
	}
	if lit, ok := lookup(bound, 3, "hold_keys"); ok {
		keys, ok := lit.asStringList()
		if !ok {
			return Action{}, badArgument(string(VerbClick), "hold_keys", "must be a list of strings")
		}
		a.HoldKeys = keys
	}
	return a, nil
}

func isValidButton(b string) bool {
	switch Button(b) {
	case ButtonLeft, ButtonRight, ButtonMiddle:
		return true
	default:
		return false
	}
}

func bindType(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbType}

	if lit, ok := lookup(bound, 0, "description"); ok && !lit.isNone() {
		s, ok := lit.asString()
		if !ok {
			return Action{}, badArgument(string(VerbType), "description", "expected string")
		}
		a.Description = s
	}
	textLit, ok := lookup(bound, 1, "text")
	if !ok {
		return Action{}, missingRequired(string(VerbType), "text")
	}
	text, ok := textLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbType), "text", "expected string")
	}
	a.Text = text

	if lit, ok := lookup(bound, 2, "overwrite"); ok {
		b, ok := lit.asBool()
		if !ok {
			return Action{}, badArgument(string(VerbType), "overwrite", "expected bool")
		}
		a.Overwrite = b
	}
	if lit, ok := lookup(bound, 3, "enter"); ok {
		b, ok := lit.asBool()
		if !ok {
			return Action{}, badArgument(string(VerbType), "enter", "expected bool")
		}
		a.Enter = b
	}
	return a, nil
}

func bindScroll(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbScroll}

	descLit, ok := lookup(bound, 0, "description")
	if !ok {
		return Action{}, missingRequired(string(VerbScroll), "description")
	}
	desc, ok := descLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbScroll), "description", "expected string")
	}
	a.Description = desc

	clicksLit, ok := lookup(bound, 1, "clicks")
	if !ok {
		return Action{}, missingRequired(string(VerbScroll), "clicks")
	}
	clicks, ok := clicksLit.asInt()
	if !ok {
		return Action{}, badArgument(string(VerbScroll), "clicks", "expected integer")
	}
	a.Clicks = clicks

	if lit, ok := lookup(bound, 2, "horizontal"); ok {
		b, ok := lit.asBool()
		if !ok {
			return Action{}, badArgument(string(VerbScroll), "horizontal", "expected bool")
		}
		a.Horizontal = b
	}
	return a, nil
}

func bindDragAndDrop(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbDragAndDrop}

	startLit, ok := lookup(bound, 0, "start_desc")
	if !ok {
		return Action{}, missingRequired(string(VerbDragAndDrop), "start_desc")
	}
	start, ok := startLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbDragAndDrop), "start_desc", "expected string")
	}
	a.StartDesc = start

	endLit, ok := lookup(bound, 1, "end_desc")
	if !ok {
		return Action{}, missingRequired(string(VerbDragAndDrop), "end_desc")
	}
	end, ok := endLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbDragAndDrop), "end_desc", "expected string")
	}
	a.EndDesc = end

	if lit, ok := lookup(bound, 2, "hold_keys"); ok {
		keys, ok := lit.asStringList()
		if !ok {
			return Action{}, badArgument(string(VerbDragAndDrop), "hold_keys", "must be a list of strings")
		}
		a.HoldKeys = keys
	}
	return a, nil
}

func bindHighlightTextSpan(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbHighlightTextSpan, ClickButton: ButtonLeft}

	startLit, ok := lookup(bound, 0, "start_phrase")
	if !ok {
		return Action{}, missingRequired(string(VerbHighlightTextSpan), "start_phrase")
	}
	start, ok := startLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbHighlightTextSpan), "start_phrase", "expected string")
	}
	a.StartPhrase = start

	endLit, ok := lookup(bound, 1, "end_phrase")
	if !ok {
		return Action{}, missingRequired(string(VerbHighlightTextSpan), "end_phrase")
	}
	end, ok := endLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbHighlightTextSpan), "end_phrase", "expected string")
	}
	a.EndPhrase = end

	if lit, ok := lookup(bound, 2, "button"); ok {
		b, ok := lit.asString()
		if !ok || !isValidButton(b) {
			return Action{}, badArgument(string(VerbHighlightTextSpan), "button", "must be one of left, right, middle")
		}
		a.ClickButton = Button(b)
	}
	return a, nil
}

func bindHotkey(bound []boundArg) (Action, error) {
	keysLit, ok := lookup(bound, 0, "keys")
	if !ok {
		return Action{}, missingRequired(string(VerbHotkey), "keys")
	}
	keys, ok := keysLit.asStringList()
	if !ok || len(keys) == 0 {
		return Action{}, badArgument(string(VerbHotkey), "keys", "must be a non-empty list of strings")
	}
	return Action{Kind: VerbHotkey, Keys: keys}, nil
}

func bindHoldAndPress(bound []boundArg) (Action, error) {
	holdLit, ok := lookup(bound, 0, "hold_keys")
	if !ok {
		return Action{}, missingRequired(string(VerbHoldAndPress), "hold_keys")
	}
	hold, ok := holdLit.asStringList()
	if !ok || len(hold) == 0 {
		return Action{}, badArgument(string(VerbHoldAndPress), "hold_keys", "must be a non-empty list of strings")
	}

	pressLit, ok := lookup(bound, 1, "press_keys")
	if !ok {
		return Action{}, missingRequired(string(VerbHoldAndPress), "press_keys")
	}
	press, ok := pressLit.asStringList()
	if !ok || len(press) == 0 {
		return Action{}, badArgument(string(VerbHoldAndPress), "press_keys", "must be a non-empty list of strings")
	}
	return Action{Kind: VerbHoldAndPress, HoldKeys: hold, PressKeys: press}, nil
}

func bindWait(bound []boundArg) (Action, error) {
	lit, ok := lookup(bound, 0, "seconds")
	if !ok {
		return Action{}, missingRequired(string(VerbWait), "seconds")
	}
	seconds, ok := lit.asFloat()
	if !ok || seconds < 0 {
		return Action{}, badArgument(string(VerbWait), "seconds", "must be a non-negative number")
	}
	return Action{Kind: VerbWait, Seconds: seconds}, nil
}

func bindCallCodeAgent(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbCallCodeAgent}
	if lit, ok := lookup(bound, 0, "task"); ok && !lit.isNone() {
		s, ok := lit.asString()
		if !ok {
			return Action{}, badArgument(string(VerbCallCodeAgent), "task", "expected string")
		}
		a.Task = &s
	}
	return a, nil
}

func bindSwitchApplications(bound []boundArg) (Action, error) {
	lit, ok := lookup(bound, 0, "app_code")
	if !ok {
		return Action{}, missingRequired(string(VerbSwitchApplications), "app_code")
	}
	s, ok := lit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbSwitchApplications), "app_code", "expected string")
	}
	return Action{Kind: VerbSwitchApplications, AppCode: s}, nil
}

func bindOpen(bound []boundArg) (Action, error) {
	lit, ok := lookup(bound, 0, "app_or_filename")
	if !ok {
		return Action{}, missingRequired(string(VerbOpen), "app_or_filename")
	}
	s, ok := lit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbOpen), "app_or_filename", "expected string")
	}
	return Action{Kind: VerbOpen, AppOrFilename: s}, nil
}

func bindSaveToKnowledge(bound []boundArg) (Action, error) {
	lit, ok := lookup(bound, 0, "notes")
	if !ok {
		return Action{}, missingRequired(string(VerbSaveToKnowledge), "notes")
	}
	notes, ok := lit.asStringList()
	if !ok {
		return Action{}, badArgument(string(VerbSaveToKnowledge), "notes", "must be a list of strings")
	}
	return Action{Kind: VerbSaveToKnowledge, Notes: notes}, nil
}

func bindSetCellValues(bound []boundArg) (Action, error) {
	a := Action{Kind: VerbSetCellValues}

	valuesLit, ok := lookup(bound, 0, "values")
	if !ok {
		return Action{}, missingRequired(string(VerbSetCellValues), "values")
	}
	values, ok := valuesLit.asDict()
	if !ok {
		return Action{}, badArgument(string(VerbSetCellValues), "values", "must be a dict literal, e.g. {'A1': 42}")
	}

	appLit, ok := lookup(bound, 1, "app")
	if !ok {
		return Action{}, missingRequired(string(VerbSetCellValues), "app")
	}
	app, ok := appLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbSetCellValues), "app", "expected string")
	}
	a.App = app

	sheetLit, ok := lookup(bound, 2, "sheet")
	if !ok {
		return Action{}, missingRequired(string(VerbSetCellValues), "sheet")
	}
	sheet, ok := sheetLit.asString()
	if !ok {
		return Action{}, badArgument(string(VerbSetCellValues), "sheet", "expected string")
	}
	a.Sheet = sheet

	a.CellValues = values
	return a, nil
}
