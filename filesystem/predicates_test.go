package filesystem

import "testing"

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"main.go", true},
		{"trap.s", true},
		{"bridge.c", true},
		{"bridge.h", true},
		{"go.mod", true},
		{"go.sum", true},
		{"exercises/01_atomics/counter.go", true},
		{"README.md", false},
		{"notes.txt", false},
		{"exercises.toml", false},
		{"image.png", false},
		{"Makefile", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSourceFile(tt.name); got != tt.want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
