package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnorer(t *testing.T) {
	tmpDir := t.TempDir()

	gitignoreContent := `
# Comment
build/
*.bak
/scratch.txt
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte(gitignoreContent), 0644); err != nil {
		t.Fatal(err)
	}

	ignorer := NewIgnorer(tmpDir)

	tests := []struct {
		path   string
		ignore bool
	}{
		{".git", true},             // Default
		{"target", true},           // Default
		{"src/main.go", false},     // Normal file
		{"build", true},            // From .gitignore
		{"sub/build", true},        // From .gitignore (recursive)
		{"old.bak", true},          // From .gitignore (glob)
		{"sub/old.bak", true},      // From .gitignore (glob recursive)
		{"scratch.txt", true},      // From .gitignore (root anchored)
		{"debug.log", true},        // Default *.log
		{".lib.go.swp", true},      // Default editor swap file
		{"exercises.toml", false},  // Normal file
	}

	for _, tt := range tests {
		fullPath := filepath.Join(tmpDir, tt.path)
		if got := ignorer.ShouldIgnore(fullPath, tmpDir); got != tt.ignore {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.path, got, tt.ignore)
		}
	}
}

func TestIgnorerWithoutGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	ignorer := NewIgnorer(tmpDir)

	if !ignorer.ShouldIgnore(filepath.Join(tmpDir, ".git"), tmpDir) {
		t.Error("defaults should apply without a .gitignore")
	}
	if ignorer.ShouldIgnore(filepath.Join(tmpDir, "main.go"), tmpDir) {
		t.Error("source files must not be ignored by default")
	}
}
