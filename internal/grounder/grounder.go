// ABOUTME: Grounder: owns the grounding model, text locator, code sub-agent, platform strategy, and knowledge buffer
// ABOUTME: Compile turns one parsed Action into an ordered []Primitive the orchestrator feeds to the input backend

package grounder

import (
	"encoding/base64"

	"github.com/mauromedda/desktop-agent-go/internal/codeagent"
	"github.com/mauromedda/desktop-agent-go/internal/inputbackend/platform"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

// SpreadsheetDriver binds SetCellValues to a concrete spreadsheet automation
// surface. No teacher or pack repo touches spreadsheets directly; this
// interface is the Open Question resolution recorded in the design ledger:
// set_cell_values never resolves to input-backend primitives, it always
// goes through this out-of-band driver instead.
type SpreadsheetDriver interface {
	SetCells(app, sheet string, values map[string]any) error
}

// noopSpreadsheetDriver is used when no SpreadsheetDriver is configured; it
// records nothing and returns no error, matching the input backend's
// best-effort stance on external collaborators it cannot verify.
type noopSpreadsheetDriver struct{}

func (noopSpreadsheetDriver) SetCells(app, sheet string, values map[string]any) error {
	return nil
}

// Grounder resolves descriptions/phrases to screen coordinates, compiles
// parsed Actions into input-backend primitives, and owns the side-effecting
// collaborators (code sub-agent, knowledge buffer, spreadsheet driver) that
// a subset of verbs touch instead of emitting primitives.
type Grounder struct {
	client   *ai.Client
	locator  screen.TextLocator
	strategy platform.Strategy
	code     *codeagent.CodeAgent
	sheet    SpreadsheetDriver

	knowledge           []string
	lastCodeAgentResult *codeagent.Report
}

// Config bundles the Grounder's collaborators. Locator, Code, and Sheet may
// be nil: text-anchored resolution and call_code_agent then return a
// GroundingError instead of panicking, and a nil Sheet is replaced by a
// no-op driver.
type Config struct {
	Client   *ai.Client
	Locator  screen.TextLocator
	Strategy platform.Strategy
	Code     *codeagent.CodeAgent
	Sheet    SpreadsheetDriver
}

// New builds a Grounder. A nil Strategy defaults to platform.Detect(); a nil
// Sheet defaults to a no-op driver.
func New(cfg Config) *Grounder {
	strategy := cfg.Strategy
	if strategy == nil {
		strategy = platform.Detect()
	}
	sheet := cfg.Sheet
	if sheet == nil {
		sheet = noopSpreadsheetDriver{}
	}
	return &Grounder{
		client:   cfg.Client,
		locator:  cfg.Locator,
		strategy: strategy,
		code:     cfg.Code,
		sheet:    sheet,
	}
}

// Knowledge returns the accumulated save_to_knowledge notes, oldest first.
func (g *Grounder) Knowledge() []string {
	out := make([]string, len(g.knowledge))
	copy(out, g.knowledge)
	return out
}

// Seed prepends operator-authored notes (e.g. loaded from a project notes
// file) ahead of anything the Worker saves itself during the run.
func (g *Grounder) Seed(notes []string) {
	if len(notes) == 0 {
		return
	}
	g.knowledge = append(append([]string{}, notes...), g.knowledge...)
}

// LastCodeAgentResult returns the most recent call_code_agent report, or nil
// if none has run yet this session.
func (g *Grounder) LastCodeAgentResult() *codeagent.Report {
	return g.lastCodeAgentResult
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
