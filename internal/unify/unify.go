// Package unify groups marker records and registry entries that represent
// the same logical pattern.
//
// Two strategies cover the two pipeline stages: Build unifies fresh marker
// records by pattern number across the interchangeable target group, and
// the grouping/split half works post hoc on already-registered entries via
// normalized titles and historical descriptions.
package unify

import (
	"sort"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
	"github.com/vd09-projects/ctxpattern-registry/internal/marker"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

// Builder turns scanned fixture files into a fresh flat registry.
type Builder struct {
	Layout *layout.Layout
}

// Build extracts markers from every file and produces one entry per
// unified pattern number (targets in the unified group) plus one entry per
// pattern code for every other target.
func (b *Builder) Build(files []scanner.SourceFile) *model.Registry {
	l := b.Layout
	reg := model.NewRegistry(l.Targets)

	// records indexed by target, then level, in scan order
	records := make(map[string]map[string][]marker.Record)
	for _, sf := range files {
		recs := marker.Parse(sf.Lines)
		if len(recs) == 0 {
			continue
		}
		if records[sf.Target] == nil {
			records[sf.Target] = make(map[string][]marker.Record)
		}
		records[sf.Target][sf.Level] = recs
	}

	// unified group: group across targets by pattern number, prefix ignored
	groups := make(map[string]map[string]map[string]marker.Record) // number -> target -> level -> record
	for _, target := range l.UnifiedGroup {
		for _, level := range l.Levels(target) {
			for _, rec := range records[target][level] {
				if groups[rec.Number] == nil {
					groups[rec.Number] = make(map[string]map[string]marker.Record)
				}
				if groups[rec.Number][target] == nil {
					groups[rec.Number][target] = make(map[string]marker.Record)
				}
				groups[rec.Number][target][level] = rec
			}
		}
	}

	var numbers []string
	for number := range groups {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	for _, number := range numbers {
		group := groups[number]

		// canonical description: first record in target-priority order
		var desc string
		var targets []string
		for _, target := range l.UnifiedGroup {
			levels, ok := group[target]
			if !ok {
				continue
			}
			targets = append(targets, target)
			if desc == "" {
				for _, level := range l.Levels(target) {
					if rec, ok := levels[level]; ok {
						desc = rec.Description
						break
					}
				}
			}
		}

		functions := make(map[string]string, len(targets))
		levels := make(map[string]string, len(targets))
		for _, target := range targets {
			for _, level := range l.LevelPriority {
				if rec, ok := group[target][level]; ok {
					functions[target] = rec.Name
					levels[target] = level
					break
				}
			}
		}

		reg.Set("pattern"+number, &model.Entry{
			Title:       TitleFromDescription(desc),
			Description: desc,
			Targets:     targets,
			Functions:   functions,
			Levels:      levels,
		})
	}

	// independent targets: one entry per pattern code
	for _, target := range l.Targets {
		if l.InUnifiedGroup(target) {
			continue
		}
		for _, level := range l.Levels(target) {
			for _, rec := range records[target][level] {
				reg.Set(rec.Code, &model.Entry{
					Title:       TitleFromDescription(rec.Description),
					Description: rec.Description,
					Targets:     []string{target},
					Functions:   map[string]string{target: rec.Name},
					Levels:      map[string]string{target: level},
				})
			}
		}
	}

	return reg
}

// TitleFromDescription truncates a description at the first " - " or "."
// delimiter.
func TitleFromDescription(desc string) string {
	title := strings.SplitN(desc, " - ", 2)[0]
	title = strings.SplitN(title, ".", 2)[0]
	return strings.TrimSpace(title)
}
