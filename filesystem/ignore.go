package filesystem

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Ignorer decides which paths never trigger a re-check, based on default
// patterns plus the exercise tree's .gitignore when present.
type Ignorer struct {
	patterns []string
}

// NewIgnorer creates an Ignorer for the given root and loads patterns from
// its .gitignore if one exists.
func NewIgnorer(root string) *Ignorer {
	ign := &Ignorer{
		patterns: []string{
			".git",
			".idea",
			".vscode",
			"target",
			"bin",
			"*.log",
			"*.swp",
			"*.tmp",
		},
	}

	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ign.patterns = append(ign.patterns, line)
		}
	}
	return ign
}

// ShouldIgnore checks the path against the patterns, matching both the
// basename and the path relative to root.
func (i *Ignorer) ShouldIgnore(path string, root string) bool {
	name := filepath.Base(path)
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = name
	}

	for _, p := range i.patterns {
		cleanP := strings.TrimSuffix(p, "/")

		// Patterns anchored with a leading slash match only relative to
		// the root.
		if anchored := strings.HasPrefix(cleanP, "/"); anchored {
			cleanP = strings.TrimPrefix(cleanP, "/")
			if relPath == cleanP || strings.HasPrefix(relPath, cleanP+string(os.PathSeparator)) {
				return true
			}
			continue
		}

		if matched, _ := filepath.Match(cleanP, name); matched {
			return true
		}
		if relPath == cleanP || strings.HasPrefix(relPath, cleanP+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
