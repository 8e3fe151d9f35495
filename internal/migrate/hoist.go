// Package migrate transforms the registry between schema shapes: level
// hoisting, flat→variant migration, and legacy-name rename planning.
// Every operation is idempotent and skips (rather than aborts on)
// individual entries that violate the document invariants.
package migrate

import (
	"fmt"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
)

// Failure records one entry an operation had to skip.
type Failure struct {
	ID  string
	Err error
}

// HoistReport lists the entries whose levels were hoisted.
type HoistReport struct {
	Hoisted []string
}

// HoistLevels moves a levels map shared verbatim by every non-null
// variant up to the entry and deletes the per-variant copies. Entries
// whose variants are already hoisted (no per-variant levels) are left
// alone, which makes repeat runs no-ops.
func HoistLevels(reg *model.Registry) HoistReport {
	var report HoistReport
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		kinds := e.NonNullVariants()
		if len(kinds) == 0 {
			continue
		}

		first := e.Variants[kinds[0]].Levels
		if len(first) == 0 {
			continue
		}
		identical := true
		for _, kind := range kinds[1:] {
			if !equalLevels(first, e.Variants[kind].Levels) {
				identical = false
				break
			}
		}
		if !identical {
			continue
		}

		e.Levels = first
		for _, kind := range kinds {
			e.Variants[kind].Levels = nil
		}
		report.Hoisted = append(report.Hoisted, id)
	}
	return report
}

func equalLevels(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func (f Failure) String() string { return fmt.Sprintf("%s: %v", f.ID, f.Err) }
