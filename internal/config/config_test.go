// ABOUTME: Tests for settings load/merge: global+project precedence and defaults
// ABOUTME: Table-driven, covering the fields SPEC_FULL.md's ambient Configuration section names

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	writeSettings(t, GlobalConfigFile(), &Settings{Model: "claude-sonnet-4-20250514", MaxTokens: 4096})
	writeSettings(t, ProjectConfigFile(project), &Settings{Model: "claude-opus-4-20250514"})

	got, err := Load(project)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Model != "claude-opus-4-20250514" {
		t.Errorf("Model = %q, want project override", got.Model)
	}
	if got.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want inherited global value 4096", got.MaxTokens)
	}
}

func TestLoad_NoFilesReturnsZeroSettings(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Load(project)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Model != "" {
		t.Errorf("Model = %q, want empty", got.Model)
	}
}

func TestRetrySettings_Defaults(t *testing.T) {
	t.Parallel()

	var r *RetrySettings
	if got := r.EffectiveMaxRetries(); got != 3 {
		t.Errorf("EffectiveMaxRetries() = %d, want 3", got)
	}
	if got := r.EffectiveBaseDelay(); got != 1000 {
		t.Errorf("EffectiveBaseDelay() = %d, want 1000", got)
	}
	if got := r.EffectiveMaxDelay(); got != 30000 {
		t.Errorf("EffectiveMaxDelay() = %d, want 30000", got)
	}
}

func TestRetrySettings_Overrides(t *testing.T) {
	t.Parallel()

	r := &RetrySettings{MaxRetries: 5, BaseDelay: 200, MaxDelay: 5000}
	if got := r.EffectiveMaxRetries(); got != 5 {
		t.Errorf("EffectiveMaxRetries() = %d, want 5", got)
	}
}

func TestTrajectorySettings_Defaults(t *testing.T) {
	t.Parallel()

	var tr *TrajectorySettings
	if got := tr.EffectiveMaxImages(); got != 3 {
		t.Errorf("EffectiveMaxImages() = %d, want 3", got)
	}
	if got := tr.EffectiveMaxTrajectoryLength(); got != 3 {
		t.Errorf("EffectiveMaxTrajectoryLength() = %d, want 3", got)
	}
}

func TestCodeAgentSettings_Defaults(t *testing.T) {
	t.Parallel()

	var c *CodeAgentSettings
	if got := c.EffectiveBudget(); got != 20 {
		t.Errorf("EffectiveBudget() = %d, want 20", got)
	}
	if got := c.EffectiveTimeoutSeconds(); got != 30 {
		t.Errorf("EffectiveTimeoutSeconds() = %d, want 30", got)
	}
}

func TestMerge_SandboxOverridesWholesale(t *testing.T) {
	t.Parallel()

	global := &Settings{Sandbox: SandboxSettings{ExcludedCommands: []string{"rm"}}}
	project := &Settings{Sandbox: SandboxSettings{ExcludedCommands: []string{"curl", "wget"}}}

	got := merge(global, project)
	if len(got.Sandbox.ExcludedCommands) != 2 {
		t.Errorf("ExcludedCommands = %v, want project's list", got.Sandbox.ExcludedCommands)
	}
}

func writeSettings(t *testing.T, path string, s *Settings) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
