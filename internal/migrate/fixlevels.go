package migrate

import (
	"fmt"

	"github.com/vd09-projects/ctxpattern-registry/internal/marker"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

// FixLevelsReport describes what FixLevels did.
type FixLevelsReport struct {
	Fixed    []string
	Fallback []Failure // declaration not found; legacy level kept for that target
}

// FixLevels rewrites entries carrying the retired singular level field
// into the per-target levels map. Each target's level comes from the
// level file that actually declares the function; a function that cannot
// be located keeps the legacy value for its target and is reported.
// Entries without the singular field are left alone, so repeat runs are
// no-ops.
func FixLevels(reg *model.Registry, sc *scanner.Scanner) FixLevelsReport {
	var report FixLevelsReport
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if e.Level == "" || !e.IsFlat() {
			continue
		}

		levels := make(map[string]string, len(e.Targets))
		for _, target := range e.Targets {
			name := e.Functions[target]
			level, ok := declLevel(sc, target, name)
			if !ok {
				levels[target] = e.Level
				report.Fallback = append(report.Fallback, Failure{
					ID:  id,
					Err: fmt.Errorf("no declaration of %s for target %q, keeping level %q", name, target, e.Level),
				})
				continue
			}
			levels[target] = level
		}
		e.Levels = levels
		e.Level = ""
		report.Fixed = append(report.Fixed, id)
	}
	return report
}

// declLevel finds the level whose file declares name for the target.
func declLevel(sc *scanner.Scanner, target, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, level := range sc.Layout.Levels(target) {
		sf, err := sc.Read(target, level)
		if err != nil {
			continue
		}
		for _, d := range marker.Declarations(sf.Lines) {
			if d.Name == name {
				return level, true
			}
		}
	}
	return "", false
}
