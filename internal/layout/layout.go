// Package layout fixes the target/level vocabulary and the file naming
// convention that maps a (target, level) pair to a fixture source file.
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vd09-projects/ctxpattern-registry/internal/utils"
)

// Layout describes a fixture suite: which targets exist, which level files
// each target carries, and how marker prefixes map back to targets.
type Layout struct {
	// Targets is the ordered global target vocabulary.
	Targets []string `yaml:"targets"`
	// UnifiedGroup lists the targets whose patterns are interchangeable
	// and unified by pattern number.
	UnifiedGroup []string `yaml:"unifiedGroup"`
	// LevelFiles maps each target to its ordered level names.
	LevelFiles map[string][]string `yaml:"levelFiles"`
	// SingleFile maps targets that keep every level in one fixed file.
	SingleFile map[string]string `yaml:"singleFile"`
	// PrefixTargets maps a two-letter marker prefix to its target.
	PrefixTargets map[string]string `yaml:"prefixTargets"`
	// LevelPriority is the order used when picking the canonical level
	// for a target during unification.
	LevelPriority []string `yaml:"levelPriority"`
}

// Default returns the built-in suite layout.
func Default() *Layout {
	return &Layout{
		Targets: []string{
			"goroutine",
			"errgroup",
			"waitgroup",
			"goroutinecreator",
			"goroutinederive",
			"goroutinederiveand",
			"goroutinederivemixed",
			"gotask",
			"carrier",
		},
		UnifiedGroup: []string{"goroutine", "errgroup", "waitgroup"},
		LevelFiles: map[string][]string{
			"goroutine":            {"basic", "advanced", "evil"},
			"errgroup":             {"basic", "advanced", "evil"},
			"waitgroup":            {"basic", "advanced", "evil"},
			"goroutinecreator":     {"creator"},
			"goroutinederive":      {"goroutinederive"},
			"goroutinederiveand":   {"basic", "advanced", "evil"},
			"goroutinederivemixed": {"basic", "advanced", "evil"},
			"gotask":               {"basic", "evil"},
			"carrier":              {"carrier"},
		},
		SingleFile: map[string]string{
			"goroutinecreator": "creator.go",
			"goroutinederive":  "goroutinederive.go",
			"carrier":          "carrier.go",
		},
		PrefixTargets: map[string]string{
			"GO": "goroutine",
			"GE": "errgroup",
			"GW": "waitgroup",
			"GC": "goroutinecreator",
			"DD": "goroutinederive",
			"DA": "goroutinederiveand",
			"DM": "goroutinederivemixed",
			"GT": "gotask",
			"EV": "gotask",
			"CR": "carrier",
		},
		LevelPriority: []string{"basic", "advanced", "evil"},
	}
}

// Load reads a YAML override with the same shape as Default.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &l, nil
}

// Validate checks internal consistency of the layout itself.
func (l *Layout) Validate() error {
	if len(l.Targets) == 0 {
		return fmt.Errorf("layout has no targets")
	}
	known := make(map[string]bool, len(l.Targets))
	for _, t := range l.Targets {
		if known[t] {
			return fmt.Errorf("duplicate target %q", t)
		}
		known[t] = true
	}
	for _, t := range l.UnifiedGroup {
		if !known[t] {
			return fmt.Errorf("unified group references unknown target %q", t)
		}
	}
	for t := range l.LevelFiles {
		if !known[t] {
			return fmt.Errorf("level files reference unknown target %q", t)
		}
	}
	for prefix, t := range l.PrefixTargets {
		if len(prefix) != 2 {
			return fmt.Errorf("marker prefix %q is not two letters", prefix)
		}
		if !known[t] {
			return fmt.Errorf("prefix %q references unknown target %q", prefix, t)
		}
	}
	return nil
}

// HasTarget reports whether target is part of the vocabulary.
func (l *Layout) HasTarget(target string) bool {
	for _, t := range l.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// InUnifiedGroup reports whether target belongs to the number-unified group.
func (l *Layout) InUnifiedGroup(target string) bool {
	for _, t := range l.UnifiedGroup {
		if t == target {
			return true
		}
	}
	return false
}

// Levels returns the ordered level names for a target.
func (l *Layout) Levels(target string) []string {
	return l.LevelFiles[target]
}

// FileFor returns the filename holding a target/level pair. Single-file
// targets resolve to their fixed file regardless of level.
func (l *Layout) FileFor(target, level string) string {
	return utils.If(l.SingleFile[target] != "", l.SingleFile[target]).
		Else(level + ".go")
}

// PathFor joins the source root, target directory and level file.
func (l *Layout) PathFor(srcDir, target, level string) string {
	return filepath.Join(srcDir, target, l.FileFor(target, level))
}
