// ABOUTME: Standard filesystem paths for desktop-agent configuration and data
// ABOUTME: Resolves ~/.desktop-agent/ for global and .desktop-agent/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".desktop-agent"
	projectDirName = ".desktop-agent"
)

// GlobalDir returns the user-global config directory (~/.desktop-agent/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.desktop-agent/ in cwd).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global settings file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "settings.json")
}

// ProjectConfigFile returns the path to the project-local settings file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "settings.json")
}

// NotesFile returns the path to the project-local notes file seeded into the
// Grounder's knowledge buffer at task start (.desktop-agent/notes.md).
func NotesFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "notes.md")
}

// PromptsDirs returns the prompt manifest override directories in resolution
// order (project-local first, then global, then the embedded defaults).
func PromptsDirs(projectRoot string) []string {
	return []string{
		filepath.Join(ProjectDir(projectRoot), "prompts"),
		filepath.Join(GlobalDir(), "prompts"),
	}
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
