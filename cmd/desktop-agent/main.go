// ABOUTME: CLI entry point for desktop-agent
// ABOUTME: Parses flags, loads config, wires the Worker/Reflector/Grounder/Orchestrator, runs one task

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mauromedda/desktop-agent-go/internal/codeagent"
	"github.com/mauromedda/desktop-agent-go/internal/config"
	"github.com/mauromedda/desktop-agent-go/internal/console"
	"github.com/mauromedda/desktop-agent-go/internal/grounder"
	"github.com/mauromedda/desktop-agent-go/internal/inputbackend"
	"github.com/mauromedda/desktop-agent-go/internal/inputbackend/platform"
	agentlog "github.com/mauromedda/desktop-agent-go/internal/log"
	"github.com/mauromedda/desktop-agent-go/internal/orchestrator"
	"github.com/mauromedda/desktop-agent-go/internal/prompts"
	"github.com/mauromedda/desktop-agent-go/internal/reflector"
	"github.com/mauromedda/desktop-agent-go/internal/screen"
	"github.com/mauromedda/desktop-agent-go/internal/worker"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
	"github.com/mauromedda/desktop-agent-go/pkg/ai/provider/anthropic"
	"github.com/mauromedda/desktop-agent-go/pkg/ai/provider/openai"
)

func main() {
	args, instruction := parseFlags()

	if args.verbose {
		agentlog.SetLevel(agentlog.LevelDebug)
	}

	if instruction == "" {
		fmt.Fprintln(os.Stderr, "usage: desktop-agent [flags] <instruction>")
		os.Exit(1)
	}

	registerProviders()

	result, err := run(args, instruction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch result.State {
	case orchestrator.StateSucceeded:
		os.Exit(0)
	case orchestrator.StateBudgetExhausted:
		os.Exit(2)
	default:
		os.Exit(1)
	}
}

func registerProviders() {
	ai.RegisterProvider(ai.ApiAnthropic, func(baseURL string) ai.ApiProvider {
		return anthropic.New(os.Getenv("ANTHROPIC_API_KEY"), baseURL)
	})
	ai.RegisterProvider(ai.ApiOpenAI, func(baseURL string) ai.ApiProvider {
		return openai.New(os.Getenv("OPENAI_API_KEY"), baseURL)
	})
}

func run(args cliArgs, instruction string) (orchestrator.Result, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("loading config: %w", err)
	}
	config.ResolveEnvVars(cfg)

	providerName := firstNonEmpty(args.provider, cfg.Provider, string(ai.ApiAnthropic))
	modelID := firstNonEmpty(args.model, cfg.Model)
	baseURL := firstNonEmpty(cfg.BaseURL)

	model, err := resolveModel(ai.Api(providerName), modelID)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("resolving model: %w", err)
	}
	provider := ai.GetProvider(model.Api, baseURL)
	if provider == nil {
		return orchestrator.Result{}, fmt.Errorf("no provider registered for API %q", model.Api)
	}
	client := ai.NewClient(provider, model)

	groundProviderName := firstNonEmpty(args.groundProvider, cfg.GroundProvider, providerName)
	groundModelID := firstNonEmpty(args.groundModel, cfg.GroundModel, modelID)
	groundURL := firstNonEmpty(args.groundURL, cfg.GroundURL)

	groundModel, err := resolveModel(ai.Api(groundProviderName), groundModelID)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("resolving grounding model: %w", err)
	}
	groundProvider := ai.GetProvider(groundModel.Api, groundURL)
	if groundProvider == nil {
		return orchestrator.Result{}, fmt.Errorf("no provider registered for grounding API %q", groundModel.Api)
	}
	groundClient := ai.NewClient(groundProvider, groundModel)

	groundingWidth := firstNonZero(args.groundingWidth, cfg.GroundingWidth, 1000)
	groundingHeight := firstNonZero(args.groundingHeight, cfg.GroundingHeight, 1000)

	promptDirs := config.PromptsDirs(cwd)
	loader := prompts.NewLoader(promptDirs[1], promptDirs[0])
	loader.Cache = prompts.NewCache()

	locator, err := screen.NewTesseractLocator()
	var textLocator screen.TextLocator
	if err == nil {
		textLocator = locator
	} else {
		agentlog.Warn("no OCR locator available: %v; highlight_text_span and text-anchored resolution will fail", err)
	}

	codeAgentPrompt, err := loader.ComposeForModel("codeagent-v1", model.ID, map[string]string{"TASK": instruction})
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("composing code sub-agent prompt: %w", err)
	}
	codeClient := ai.NewClient(provider, model)
	codeAgent := codeagent.New(codeClient, codeagent.Config{
		Budget:         cfg.CodeAgent.EffectiveBudget(),
		SystemPrompt:   codeAgentPrompt,
		ExcludedCmds:   cfg.Sandbox.ExcludedCommands,
		AllowedDomains: cfg.Sandbox.AllowedDomains,
	}, cfg.CodeAgent.EffectiveTimeoutSeconds())

	g := grounder.New(grounder.Config{
		Client:   groundClient,
		Locator:  textLocator,
		Strategy: platform.Detect(),
		Code:     codeAgent,
	})

	if notes, err := config.LoadNotes(cwd, providerName); err != nil {
		agentlog.Warn("loading project notes: %v", err)
	} else {
		g.Seed(notes)
	}

	w := worker.New(client, g, loader, worker.TrajectoryConfig{
		MaxImages:           cfg.Trajectory.EffectiveMaxImages(),
		MaxTrajectoryLength: cfg.Trajectory.EffectiveMaxTrajectoryLength(),
	})
	r := reflector.New(client, loader, reflector.TrajectoryConfig{
		MaxTrajectoryLength: cfg.Trajectory.EffectiveMaxTrajectoryLength(),
	})

	capturer, err := screen.NewCapturer()
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("no screen capture tool available: %w", err)
	}

	driver := platform.NewDriver()
	backend := inputbackend.New(driver)

	cw := console.NewStdoutWriter()
	runID := fmt.Sprintf("run-%d", os.Getpid())
	agentlog.SetRunID(runID)

	orch := orchestrator.New(runID, capturer, w, r, g, backend, cw, orchestrator.Config{
		MaxSteps:        cfg.MaxSteps,
		GroundingWidth:  groundingWidth,
		GroundingHeight: groundingHeight,
	})

	return orch.Run(context.Background(), instruction)
}

func resolveModel(api ai.Api, modelID string) (*ai.Model, error) {
	if modelID != "" {
		if m := ai.FindModel(modelID); m != nil {
			return m, nil
		}
		return &ai.Model{ID: modelID, Api: api, SupportsImages: true}, nil
	}
	for _, m := range ai.BuiltinModels() {
		if m.Api == api {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("no built-in model for API %q; pass --model", api)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
