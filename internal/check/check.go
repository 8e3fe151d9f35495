// Package check cross-validates the registry against the fixture sources:
// every registered function must exist in its level-correct file with an
// up-to-date comment block, and conventionally named fixtures must be
// registered. Findings are reported, never auto-fixed.
package check

import (
	"fmt"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/marker"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
	"github.com/vd09-projects/ctxpattern-registry/internal/syncer"
)

// Severity separates contract violations from advisory findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity
	EntryID  string
	Target   string
	Func     string
	Msg      string
}

func (i Issue) String() string {
	parts := []string{string(i.Severity)}
	if i.EntryID != "" {
		parts = append(parts, i.EntryID)
	}
	if i.Target != "" {
		parts = append(parts, i.Target)
	}
	if i.Func != "" {
		parts = append(parts, i.Func)
	}
	return strings.Join(parts, " ") + ": " + i.Msg
}

// Run validates the registry against the fixture tree. The returned error
// covers only being unable to read sources; findings, including missing
// functions, come back as issues.
func Run(reg *model.Registry, sc *scanner.Scanner) ([]Issue, error) {
	files, err := sc.List()
	if err != nil {
		return nil, err
	}

	type fileKey struct{ target, level string }
	byFile := make(map[fileKey]scanner.SourceFile, len(files))
	for _, sf := range files {
		byFile[fileKey{sf.Target, sf.Level}] = sf
	}

	var issues []Issue
	checkFunc := func(id, target, level, name string, e *model.Entry) {
		sf, ok := byFile[fileKey{target, level}]
		if !ok {
			issues = append(issues, Issue{SeverityError, id, target, name,
				fmt.Sprintf("no fixture file for level %q", level)})
			return
		}
		decl, found := findDecl(sf, name)
		if !found {
			issues = append(issues, Issue{SeverityError, id, target, name,
				fmt.Sprintf("function not found in %s", sf.Path)})
			return
		}
		issues = append(issues, checkComment(sf, decl, id, target, name, reg, e)...)
	}

	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if e.IsFlat() {
			for _, target := range e.Targets {
				name := e.Functions[target]
				if name == "" {
					issues = append(issues, Issue{SeverityError, id, target, "", "no function registered"})
					continue
				}
				level, ok := e.LevelFor(target, nil)
				if !ok {
					issues = append(issues, Issue{SeverityError, id, target, name, "no level registered"})
					continue
				}
				checkFunc(id, target, level, name, e)
			}
			continue
		}
		for _, kind := range e.NonNullVariants() {
			v := e.Variants[kind]
			for _, target := range e.Targets {
				name := v.Functions[target]
				if name == "" {
					issues = append(issues, Issue{SeverityError, id, target, "",
						fmt.Sprintf("variant %q has no function registered", kind)})
					continue
				}
				level, ok := e.LevelFor(target, v)
				if !ok {
					issues = append(issues, Issue{SeverityError, id, target, name,
						fmt.Sprintf("variant %q has no level registered", kind)})
					continue
				}
				checkFunc(id, target, level, name, e)
			}
		}
	}

	issues = append(issues, unregisteredFixtures(reg, files)...)
	return issues, nil
}

// findDecl locates the declaration of name in the file.
func findDecl(sf scanner.SourceFile, name string) (marker.Decl, bool) {
	for _, d := range marker.Declarations(sf.Lines) {
		if d.Name == name {
			return d, true
		}
	}
	return marker.Decl{}, false
}

// checkComment verifies the generated block above a declaration: the bold
// title must be present, and the See also section must list the sibling
// targets in global order.
func checkComment(sf scanner.SourceFile, decl marker.Decl, id, target, name string, reg *model.Registry, e *model.Entry) []Issue {
	start := decl.Line
	for start > 0 && strings.HasPrefix(sf.Lines[start-1], "//") {
		start--
	}
	block := sf.Lines[start:decl.Line]

	var issues []Issue
	wantTitle := "// **" + e.Title + "**"
	if !containsLine(block, wantTitle) {
		issues = append(issues, Issue{SeverityError, id, target, name, "comment block is missing the title"})
	}

	if len(e.Targets) < 2 {
		return issues
	}
	var listed []string
	for _, line := range block {
		rest, ok := strings.CutPrefix(line, "//   ")
		if !ok {
			continue
		}
		if t, _, ok := strings.Cut(rest, ":"); ok {
			listed = append(listed, strings.TrimSpace(t))
		}
	}
	want := siblingTargets(reg, e, target)
	if !sameStrings(listed, want) {
		issues = append(issues, Issue{SeverityError, id, target, name,
			fmt.Sprintf("see-also targets are %v, want %v", listed, want)})
	}
	return issues
}

func siblingTargets(reg *model.Registry, e *model.Entry, target string) []string {
	var out []string
	for _, t := range reg.SortTargets(e.Targets) {
		if t != target {
			out = append(out, t)
		}
	}
	return out
}

// unregisteredFixtures warns about conventionally named declarations the
// registry does not track.
func unregisteredFixtures(reg *model.Registry, files []scanner.SourceFile) []Issue {
	var issues []Issue
	for _, sf := range files {
		tracked := syncer.Index(reg, sf.Target, sf.Level)
		for _, d := range marker.Declarations(sf.Lines) {
			if _, ok := tracked[d.Name]; ok {
				continue
			}
			if !strings.HasPrefix(d.Name, "good") && !strings.HasPrefix(d.Name, "bad") {
				continue
			}
			if d.Line > 0 && sf.Lines[d.Line-1] == marker.HelperSentinel {
				continue
			}
			issues = append(issues, Issue{SeverityWarning, "", sf.Target, d.Name,
				fmt.Sprintf("conventionally named fixture in %s is not registered", sf.Path)})
		}
	}
	return issues
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}

func sameStrings(a, b []string) bool {
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
