// Package syncer rewrites fixture source comments from the registry: each
// tracked declaration gets the canonical generated block, helper
// declarations get the sentinel, and retired marker lines get stripped.
// Every rewrite is idempotent; running twice changes nothing.
package syncer

import (
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/marker"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

// Tracked links a function name in one file back to its registry entry.
// Kind and Variant are zero for flat entries.
type Tracked struct {
	ID      string
	Entry   *model.Entry
	Kind    model.VariantKind
	Variant *model.Variant
}

// Index maps every function name the registry expects in the given
// target/level file to its entry.
func Index(reg *model.Registry, target, level string) map[string]Tracked {
	out := make(map[string]Tracked)
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if !e.HasTarget(target) {
			continue
		}
		if e.IsFlat() {
			name := e.Functions[target]
			if lv, ok := e.LevelFor(target, nil); ok && lv == level && name != "" {
				out[name] = Tracked{ID: id, Entry: e}
			}
			continue
		}
		for _, kind := range e.NonNullVariants() {
			v := e.Variants[kind]
			name := v.Functions[target]
			if lv, ok := e.LevelFor(target, v); ok && lv == level && name != "" {
				out[name] = Tracked{ID: id, Entry: e, Kind: kind, Variant: v}
			}
		}
	}
	return out
}

// Sync replaces the comment block above every tracked declaration with
// the canonical generated block. The helper sentinel, when present in the
// old block, is preserved at the top of the new one. Returns the number
// of declarations whose block actually changed.
func Sync(sf scanner.SourceFile, reg *model.Registry) (scanner.SourceFile, int) {
	index := Index(reg, sf.Target, sf.Level)

	type block struct {
		declLine int
		tracked  Tracked
	}
	starts := make(map[int]block)
	for _, d := range marker.Declarations(sf.Lines) {
		t, ok := index[d.Name]
		if !ok {
			continue
		}
		start := d.Line
		for start > 0 && isComment(sf.Lines[start-1]) {
			start--
		}
		starts[start] = block{declLine: d.Line, tracked: t}
	}

	var out []string
	changed := 0
	for i := 0; i < len(sf.Lines); {
		b, ok := starts[i]
		if !ok {
			out = append(out, sf.Lines[i])
			i++
			continue
		}

		old := sf.Lines[i:b.declLine]
		var fresh []string
		if containsSentinel(old) {
			fresh = append(fresh, marker.HelperSentinel)
		}
		fresh = append(fresh, commentBlock(reg, b.tracked, sf.Target)...)
		if !equalLines(old, fresh) {
			changed++
		}
		out = append(out, fresh...)
		out = append(out, sf.Lines[b.declLine])
		i = b.declLine + 1
	}

	sf.Lines = out
	return sf, changed
}

// commentBlock renders the canonical comment for one tracked function:
// bold title, optional description, and a See also section listing the
// sibling targets' functions in global target order.
func commentBlock(reg *model.Registry, t Tracked, target string) []string {
	e := t.Entry
	desc := e.Description
	functions := e.Functions
	if t.Variant != nil {
		desc = t.Variant.Description
		functions = t.Variant.Functions
	}

	lines := []string{"// **" + e.Title + "**"}
	if desc != "" {
		lines = append(lines, "//", "// "+desc)
	}

	var siblings []string
	for _, other := range reg.SortTargets(e.Targets) {
		if other == target {
			continue
		}
		if name := functions[other]; name != "" {
			siblings = append(siblings, "//   "+other+": "+name)
		}
	}
	if len(siblings) > 0 {
		lines = append(lines, "//", "// See also:")
		lines = append(lines, siblings...)
	}
	return lines
}

func isComment(line string) bool { return strings.HasPrefix(line, "//") }

func containsSentinel(lines []string) bool {
	for _, line := range lines {
		if line == marker.HelperSentinel {
			return true
		}
	}
	return false
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
