package unify

import (
	"fmt"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
	"github.com/vd09-projects/ctxpattern-registry/internal/marker"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
)

// HistoryFn returns the historical content of a target/level fixture
// file (typically `git show HEAD:<path>`). An error means the snapshot is
// unavailable.
type HistoryFn func(target, level string) ([]byte, error)

// Failure records one entry that could not be processed.
type Failure struct {
	ID  string
	Err error
}

// SplitResult reports what the split pass did.
type SplitResult struct {
	Split    []string // unified ids decomposed
	Kept     []string // unified ids whose descriptions agree
	Failures []Failure
}

// SplitMismatched decomposes unified entries whose per-target historical
// descriptions disagree: each target gets back an independent entry keyed
// by its own historical pattern code, and the unified entry is removed.
// Entries with one target are left alone; an entry whose history cannot
// be recovered for some target is reported and left untouched.
//
// The registry is rewritten in place; split replacements take the
// unified entry's position in document order.
func SplitMismatched(reg *model.Registry, l *layout.Layout, history HistoryFn) (*model.Registry, SplitResult) {
	var res SplitResult
	out := model.NewRegistry(reg.Targets)

	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if !strings.HasPrefix(id, "pattern") || !e.IsFlat() || len(e.Targets) < 2 {
			out.Set(id, e)
			continue
		}

		type snapshot struct {
			code string
			desc string
		}
		snaps := make(map[string]snapshot, len(e.Targets))
		var failure error
		for _, target := range e.Targets {
			rec, err := historicalRecord(l, history, target, e.Functions[target])
			if err != nil {
				failure = fmt.Errorf("target %s: %w", target, err)
				break
			}
			snaps[target] = snapshot{code: rec.Code, desc: rec.Description}
		}
		if failure != nil {
			res.Failures = append(res.Failures, Failure{ID: id, Err: failure})
			out.Set(id, e)
			continue
		}

		unique := make(map[string]bool)
		for _, s := range snaps {
			unique[s.desc] = true
		}
		if len(unique) <= 1 {
			res.Kept = append(res.Kept, id)
			out.Set(id, e)
			continue
		}

		for _, target := range e.Targets {
			s := snaps[target]
			out.Set(s.code, &model.Entry{
				Title:       e.Title,
				Description: s.desc,
				Targets:     []string{target},
				Functions:   map[string]string{target: e.Functions[target]},
				Levels:      map[string]string{target: e.Levels[target]},
			})
		}
		res.Split = append(res.Split, id)
	}

	return out, res
}

// historicalRecord finds the marker for funcName in any of the target's
// level files at the historical snapshot.
func historicalRecord(l *layout.Layout, history HistoryFn, target, funcName string) (marker.Record, error) {
	var lastErr error
	for _, level := range l.Levels(target) {
		content, err := history(target, level)
		if err != nil {
			lastErr = err
			continue
		}
		for _, rec := range marker.Parse(strings.Split(string(content), "\n")) {
			if rec.Name == funcName {
				return rec, nil
			}
		}
	}
	if lastErr != nil {
		return marker.Record{}, lastErr
	}
	return marker.Record{}, fmt.Errorf("no historical marker for %s", funcName)
}
