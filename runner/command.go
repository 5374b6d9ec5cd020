package runner

import (
	"strings"

	"github.com/oscamp/oscamp/registry"
)

// buildArgs expands the command template for one exercise and splits it into
// an argv. Supported placeholders: {{package}} and {{path}}.
func buildArgs(template string, ex *registry.Exercise) (string, []string) {
	cmdStr := strings.ReplaceAll(template, "{{package}}", ex.Package)
	cmdStr = strings.ReplaceAll(cmdStr, "{{path}}", ex.Path)
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}
