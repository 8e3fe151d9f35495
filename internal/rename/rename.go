// Package rename applies function-rename plans to fixture sources and the
// registry together. Each (target, old, new) pair is atomic: registry
// references change only after the declaration rewrite landed in the
// source file, so a half-applied plan never leaves the two out of sync.
package rename

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

// Item is one planned rename.
type Item struct {
	Target string
	Level  string
	Old    string
	New    string
}

// Plan is an ordered set of renames.
type Plan struct {
	Items []Item
}

// Failure is one item that could not be applied.
type Failure struct {
	Item Item
	Err  error
}

// Result reports what Apply did.
type Result struct {
	Applied  []Item
	Failures []Failure
}

// Apply executes the plan. Items are grouped by file; within one file
// every declaration is rewritten in memory first, the file is written
// once, and only then do the successful items' registry references
// update. An item whose declaration is missing fails alone; a file that
// cannot be written fails all of its items.
func Apply(reg *model.Registry, sc *scanner.Scanner, plan Plan) Result {
	var res Result

	type fileKey struct{ target, level string }
	byFile := make(map[fileKey][]Item)
	var order []fileKey
	for _, item := range plan.Items {
		k := fileKey{item.Target, item.Level}
		if _, seen := byFile[k]; !seen {
			order = append(order, k)
		}
		byFile[k] = append(byFile[k], item)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].target != order[j].target {
			return order[i].target < order[j].target
		}
		return order[i].level < order[j].level
	})

	for _, k := range order {
		items := byFile[k]
		sf, err := sc.Read(k.target, k.level)
		if err != nil {
			for _, item := range items {
				res.Failures = append(res.Failures, Failure{Item: item, Err: err})
			}
			continue
		}

		var done []Item
		changed := false
		for _, item := range items {
			if rewriteDecl(&sf, item.Old, item.New) {
				done = append(done, item)
				changed = true
			} else {
				res.Failures = append(res.Failures, Failure{
					Item: item,
					Err:  fmt.Errorf("no declaration of %s in %s", item.Old, sf.Path),
				})
			}
		}
		if !changed {
			continue
		}
		if err := sc.Write(sf); err != nil {
			for _, item := range done {
				res.Failures = append(res.Failures, Failure{Item: item, Err: err})
			}
			continue
		}
		for _, item := range done {
			updateRegistry(reg, item)
			res.Applied = append(res.Applied, item)
		}
	}
	return res
}

// rewriteDecl replaces the function declaration header for old, returning
// whether a declaration was found.
func rewriteDecl(sf *scanner.SourceFile, old, new string) bool {
	re := regexp.MustCompile(`\bfunc\s+` + regexp.QuoteMeta(old) + `\s*\(`)
	found := false
	for i, line := range sf.Lines {
		if re.MatchString(line) {
			sf.Lines[i] = re.ReplaceAllString(line, "func "+new+"(")
			found = true
		}
	}
	return found
}

// updateRegistry rewrites every reference to the renamed function under
// its target, in flat function maps and in every variant.
func updateRegistry(reg *model.Registry, item Item) {
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if e.Functions[item.Target] == item.Old {
			e.Functions[item.Target] = item.New
		}
		for _, kind := range e.NonNullVariants() {
			v := e.Variants[kind]
			if v.Functions[item.Target] == item.Old {
				v.Functions[item.Target] = item.New
			}
		}
	}
}
