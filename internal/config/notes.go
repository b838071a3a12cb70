// ABOUTME: Loads the operator-authored project notes file seeded into the Grounder's knowledge buffer
// ABOUTME: Notes frontmatter restricts a note block to specific providers; body lines become individual notes

package config

import (
	"bufio"
	"os"
	"strings"
)

// NotesFrontmatter scopes a notes file to the providers it applies to. An
// empty Providers list applies to every provider.
type NotesFrontmatter struct {
	Providers []string `yaml:"providers"`
}

// LoadNotes reads the project-local notes file (NotesFile) and returns one
// string per non-empty, non-heading line in its body, in file order. A
// missing file is not an error: it returns (nil, nil). Frontmatter is parsed
// with ParseFrontmatter; when Providers is non-empty and does not list
// provider, the file is skipped entirely.
func LoadNotes(projectRoot, provider string) ([]string, error) {
	data, err := os.ReadFile(NotesFile(projectRoot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fm, body, err := ParseFrontmatter[NotesFrontmatter](string(data))
	if err != nil {
		return nil, err
	}
	if len(fm.Providers) > 0 {
		applies := false
		for _, p := range fm.Providers {
			if p == provider {
				applies = true
				break
			}
		}
		if !applies {
			return nil, nil
		}
	}

	var notes []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "- ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		notes = append(notes, line)
	}
	return notes, scanner.Err()
}
