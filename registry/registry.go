package registry

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrNotFound is returned when an exercise identifier is not in the registry.
var ErrNotFound = errors.New("exercise not found")

// DefaultManifest is the manifest file name looked up in the working
// directory and its parent.
const DefaultManifest = "exercises.toml"

// Exercise is one curriculum unit. Records are created once at load time and
// never mutated afterwards.
type Exercise struct {
	Name        string `toml:"name"`
	Package     string `toml:"package"`
	Path        string `toml:"path"`
	Module      string `toml:"module"`
	Description string `toml:"description"`
	Hint        string `toml:"hint"`

	// Constraints is embedded so its fields sit directly on the
	// exercise table in the manifest.
	Constraints

	// Index is the ordinal position in the flattened curriculum order.
	Index int `toml:"-"`
	// Runnable and SkipReason are the cached result of evaluating the
	// platform constraints against the host at load time.
	Runnable   bool   `toml:"-"`
	SkipReason string `toml:"-"`
}

// Module is an ordered group of exercises, derived from the manifest by
// first appearance.
type Module struct {
	Name      string
	Exercises []*Exercise
}

// RunnerConfig holds the test-command settings from the manifest's
// [runner] table.
type RunnerConfig struct {
	Command string        `toml:"command"`
	Timeout time.Duration `toml:"-"`

	// RawTimeout is the timeout as written in the manifest, e.g. "2m".
	RawTimeout string `toml:"timeout"`
}

// DefaultCommand is the test command template used when the manifest has no
// [runner] table. Placeholders: {{package}}, {{path}}.
const DefaultCommand = "go test ./{{path}}/..."

type manifest struct {
	Runner    RunnerConfig `toml:"runner"`
	Exercises []*Exercise  `toml:"exercise"`
}

// Registry is the static, ordered catalogue of exercises. It is immutable
// after Load and safe for concurrent reads.
type Registry struct {
	exercises []*Exercise
	modules   []*Module
	byPackage map[string]int
	runner    RunnerConfig
}

// Load reads the manifest from the working directory or its parent and
// builds the registry, evaluating platform constraints against host.
func Load(host Host) (*Registry, error) {
	for _, path := range []string{DefaultManifest, "../" + DefaultManifest} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return Parse(data, host)
	}
	return nil, fmt.Errorf("could not find %s, run from the project root", DefaultManifest)
}

// Parse builds a registry from manifest bytes.
func Parse(data []byte, host Host) (*Registry, error) {
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Exercises) == 0 {
		return nil, errors.New("manifest contains no exercises")
	}

	if m.Runner.Command == "" {
		m.Runner.Command = DefaultCommand
	}
	if m.Runner.RawTimeout != "" {
		d, err := time.ParseDuration(m.Runner.RawTimeout)
		if err != nil {
			return nil, fmt.Errorf("runner.timeout: %w", err)
		}
		m.Runner.Timeout = d
	}

	r := &Registry{
		exercises: m.Exercises,
		byPackage: make(map[string]int, len(m.Exercises)),
		runner:    m.Runner,
	}

	moduleIndex := make(map[string]*Module)
	for i, ex := range m.Exercises {
		if ex.Package == "" {
			return nil, fmt.Errorf("exercise %d: package is required", i+1)
		}
		if ex.Path == "" {
			return nil, fmt.Errorf("exercise %q: path is required", ex.Package)
		}
		if _, dup := r.byPackage[ex.Package]; dup {
			return nil, fmt.Errorf("duplicate exercise package %q", ex.Package)
		}
		ex.Index = i
		ex.Runnable, ex.SkipReason = ex.Constraints.Check(host)
		r.byPackage[ex.Package] = i

		mod, ok := moduleIndex[ex.Module]
		if !ok {
			mod = &Module{Name: ex.Module}
			moduleIndex[ex.Module] = mod
			r.modules = append(r.modules, mod)
		}
		mod.Exercises = append(mod.Exercises, ex)
	}

	return r, nil
}

// All returns the flattened, module-ordered exercise list.
func (r *Registry) All() []*Exercise {
	return r.exercises
}

// Len returns the number of exercises in the curriculum.
func (r *Registry) Len() int {
	return len(r.exercises)
}

// At returns the exercise at the given flattened index.
func (r *Registry) At(index int) (*Exercise, error) {
	if index < 0 || index >= len(r.exercises) {
		return nil, fmt.Errorf("index %d out of range: %w", index, ErrNotFound)
	}
	return r.exercises[index], nil
}

// IndexOf returns the flattened index of the exercise with the given
// package name, or ErrNotFound.
func (r *Registry) IndexOf(pkg string) (int, error) {
	i, ok := r.byPackage[pkg]
	if !ok {
		return 0, fmt.Errorf("%q: %w", pkg, ErrNotFound)
	}
	return i, nil
}

// ByPackage returns the exercise with the given package name.
func (r *Registry) ByPackage(pkg string) (*Exercise, error) {
	i, err := r.IndexOf(pkg)
	if err != nil {
		return nil, err
	}
	return r.exercises[i], nil
}

// Modules returns the exercises grouped by module, in curriculum order.
func (r *Registry) Modules() []*Module {
	return r.modules
}

// Runner returns the test-command settings from the manifest.
func (r *Registry) Runner() RunnerConfig {
	return r.runner
}
