// ABOUTME: Settings loading with global + project config deep merge
// ABOUTME: JSON-based configuration; global and project files load concurrently via errgroup

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"

	"golang.org/x/sync/errgroup"
)

// Settings holds the merged configuration for one agent run.
type Settings struct {
	// Worker/Reflector model selection.
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`

	// Grounder model selection; GroundProvider/GroundModel fall back to
	// Provider/Model if unset. GroundURL has no fallback to BaseURL: when
	// unset, the grounding provider uses its default endpoint.
	GroundProvider string `json:"ground_provider,omitempty"`
	GroundModel    string `json:"ground_model,omitempty"`
	GroundURL      string `json:"ground_url,omitempty"`

	Temperature float64           `json:"temperature,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Thinking    bool              `json:"thinking,omitempty"`
	Env         map[string]string `json:"env,omitempty"`

	// Grounding canvas dimensions the Worker/Reflector are prompted with;
	// coordinates are rescaled screen_dim/grounding_dim before dispatch.
	GroundingWidth  int `json:"grounding_width,omitempty"`
	GroundingHeight int `json:"grounding_height,omitempty"`

	// Trajectory controls how much history is kept in the Worker/Reflector
	// conversation before older turns are flushed.
	Trajectory *TrajectorySettings `json:"trajectory,omitempty"`

	// Step budget for the orchestrator's task loop.
	MaxSteps int `json:"max_steps,omitempty"`

	// Retry controls retry behavior for transport-level API calls.
	Retry *RetrySettings `json:"retry,omitempty"`

	// Sandbox configures the Code sub-agent's process isolation.
	Sandbox SandboxSettings `json:"sandbox"`

	// CodeAgent configures the bounded Code sub-agent loop.
	CodeAgent *CodeAgentSettings `json:"code_agent,omitempty"`
}

// TrajectorySettings controls conversation-history flushing.
type TrajectorySettings struct {
	MaxImages           int `json:"max_images,omitempty"`            // cap on images kept for long-context providers; default 3
	MaxTrajectoryLength int `json:"max_trajectory_length,omitempty"` // round pairs kept for short-context providers; default 3
}

// EffectiveMaxImages returns MaxImages or the default (3).
func (t *TrajectorySettings) EffectiveMaxImages() int {
	if t == nil || t.MaxImages == 0 {
		return 3
	}
	return t.MaxImages
}

// EffectiveMaxTrajectoryLength returns MaxTrajectoryLength or the default (3).
func (t *TrajectorySettings) EffectiveMaxTrajectoryLength() int {
	if t == nil || t.MaxTrajectoryLength == 0 {
		return 3
	}
	return t.MaxTrajectoryLength
}

// RetrySettings controls retry behavior for API calls.
type RetrySettings struct {
	MaxRetries int `json:"maxRetries,omitempty"` // default 3
	BaseDelay  int `json:"baseDelay,omitempty"`  // milliseconds; default 1000
	MaxDelay   int `json:"maxDelay,omitempty"`   // milliseconds; default 30000
}

// EffectiveMaxRetries returns MaxRetries or default (3).
func (r *RetrySettings) EffectiveMaxRetries() int {
	if r == nil || r.MaxRetries == 0 {
		return 3
	}
	return r.MaxRetries
}

// EffectiveBaseDelay returns BaseDelay or default (1000ms).
func (r *RetrySettings) EffectiveBaseDelay() int {
	if r == nil || r.BaseDelay == 0 {
		return 1000
	}
	return r.BaseDelay
}

// EffectiveMaxDelay returns MaxDelay or default (30000ms).
func (r *RetrySettings) EffectiveMaxDelay() int {
	if r == nil || r.MaxDelay == 0 {
		return 30000
	}
	return r.MaxDelay
}

// SandboxSettings configures the OS sandbox the Code sub-agent runs inside.
type SandboxSettings struct {
	ExcludedCommands []string `json:"excludedCommands,omitempty"`
	AllowedDomains   []string `json:"allowedDomains,omitempty"`
}

// CodeAgentSettings configures the bounded Code sub-agent loop.
type CodeAgentSettings struct {
	Budget         int `json:"budget,omitempty"`          // max steps before BUDGET_EXHAUSTED_AFTER_N_STEPS; default 20
	TimeoutSeconds int `json:"timeout_seconds,omitempty"` // per-snippet exec timeout; default 30
}

// EffectiveBudget returns Budget or the default (20).
func (c *CodeAgentSettings) EffectiveBudget() int {
	if c == nil || c.Budget == 0 {
		return 20
	}
	return c.Budget
}

// EffectiveTimeoutSeconds returns TimeoutSeconds or the default (30).
func (c *CodeAgentSettings) EffectiveTimeoutSeconds() int {
	if c == nil || c.TimeoutSeconds == 0 {
		return 30
	}
	return c.TimeoutSeconds
}

// Load reads and merges global and project-local settings. The two files are
// read concurrently since config loading happens once at startup, before any
// task begins, and is not part of the single-threaded step loop.
func Load(projectRoot string) (*Settings, error) {
	var global, project *Settings

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		s, err := loadFile(GlobalConfigFile())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading global config: %w", err)
		}
		global = s
		return nil
	})
	g.Go(func() error {
		s, err := loadFile(ProjectConfigFile(projectRoot))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading project config: %w", err)
		}
		project = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(global, project), nil
}

// loadFile reads a Settings from a JSON file. Returns zero Settings if file
// does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge deep-merges project settings onto global settings.
// Non-zero project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.Provider != "" {
		result.Provider = project.Provider
	}
	if project.Model != "" {
		result.Model = project.Model
	}
	if project.BaseURL != "" {
		result.BaseURL = project.BaseURL
	}
	if project.GroundProvider != "" {
		result.GroundProvider = project.GroundProvider
	}
	if project.GroundModel != "" {
		result.GroundModel = project.GroundModel
	}
	if project.GroundURL != "" {
		result.GroundURL = project.GroundURL
	}
	if project.Temperature != 0 {
		result.Temperature = project.Temperature
	}
	if project.MaxTokens != 0 {
		result.MaxTokens = project.MaxTokens
	}
	if project.Thinking {
		result.Thinking = true
	}
	if project.GroundingWidth != 0 {
		result.GroundingWidth = project.GroundingWidth
	}
	if project.GroundingHeight != 0 {
		result.GroundingHeight = project.GroundingHeight
	}
	if project.MaxSteps != 0 {
		result.MaxSteps = project.MaxSteps
	}

	if len(project.Env) > 0 {
		if result.Env == nil {
			result.Env = make(map[string]string)
		}
		maps.Copy(result.Env, project.Env)
	}

	if project.Trajectory != nil {
		if result.Trajectory == nil {
			result.Trajectory = &TrajectorySettings{}
		} else {
			t := *result.Trajectory
			result.Trajectory = &t
		}
		if project.Trajectory.MaxImages != 0 {
			result.Trajectory.MaxImages = project.Trajectory.MaxImages
		}
		if project.Trajectory.MaxTrajectoryLength != 0 {
			result.Trajectory.MaxTrajectoryLength = project.Trajectory.MaxTrajectoryLength
		}
	}

	if project.Retry != nil {
		if result.Retry == nil {
			result.Retry = &RetrySettings{}
		} else {
			r := *result.Retry
			result.Retry = &r
		}
		if project.Retry.MaxRetries != 0 {
			result.Retry.MaxRetries = project.Retry.MaxRetries
		}
		if project.Retry.BaseDelay != 0 {
			result.Retry.BaseDelay = project.Retry.BaseDelay
		}
		if project.Retry.MaxDelay != 0 {
			result.Retry.MaxDelay = project.Retry.MaxDelay
		}
	}

	if len(project.Sandbox.ExcludedCommands) > 0 {
		result.Sandbox.ExcludedCommands = project.Sandbox.ExcludedCommands
	}
	if len(project.Sandbox.AllowedDomains) > 0 {
		result.Sandbox.AllowedDomains = project.Sandbox.AllowedDomains
	}

	if project.CodeAgent != nil {
		if result.CodeAgent == nil {
			result.CodeAgent = &CodeAgentSettings{}
		} else {
			c := *result.CodeAgent
			result.CodeAgent = &c
		}
		if project.CodeAgent.Budget != 0 {
			result.CodeAgent.Budget = project.CodeAgent.Budget
		}
		if project.CodeAgent.TimeoutSeconds != 0 {
			result.CodeAgent.TimeoutSeconds = project.CodeAgent.TimeoutSeconds
		}
	}

	return &result
}
