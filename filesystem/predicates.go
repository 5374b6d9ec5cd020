package filesystem

import "path/filepath"

// IsSourceFile reports whether a change to the named file can affect an
// exercise's test result. Saves to anything else never trigger a re-check.
func IsSourceFile(name string) bool {
	switch filepath.Ext(name) {
	case ".go", ".s", ".c", ".h", ".mod", ".sum":
		return true
	}
	return false
}
