package unify

import (
	"fmt"
	"sort"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/slug"
)

// Verdict is the analysis outcome for one slug-colliding group.
type Verdict string

const (
	// VerdictMerge: identical descriptions over complementary target
	// sets; the members are one pattern registered twice.
	VerdictMerge Verdict = "merge"
	// VerdictRetitle: every member describes something different; the
	// titles need more specificity, not a merge.
	VerdictRetitle Verdict = "retitle"
	// VerdictMixed: some members agree, some do not.
	VerdictMixed Verdict = "mixed"
)

// Group is a set of entries whose titles collide on one slug.
type Group struct {
	Slug    string
	IDs     []string // document order
	Verdict Verdict
}

// AnalyzeSlugs reports every slug collision in the registry, in
// lexicographic slug order. Singleton slugs are not reported; a pattern
// registered once needs neither merging nor splitting.
func AnalyzeSlugs(reg *model.Registry) []Group {
	bySlug := make(map[string][]string)
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		s := slug.FromTitle(e.Title)
		bySlug[s] = append(bySlug[s], id)
	}

	var slugs []string
	for s, ids := range bySlug {
		if len(ids) >= 2 {
			slugs = append(slugs, s)
		}
	}
	sort.Strings(slugs)

	out := make([]Group, 0, len(slugs))
	for _, s := range slugs {
		ids := bySlug[s]
		out = append(out, Group{Slug: s, IDs: ids, Verdict: verdictFor(reg, ids)})
	}
	return out
}

func verdictFor(reg *model.Registry, ids []string) Verdict {
	union := make(map[string]bool)
	totalTargets := 0
	descs := make(map[string]bool)
	for _, id := range ids {
		e, _ := reg.Get(id)
		totalTargets += len(e.Targets)
		for _, t := range e.Targets {
			union[t] = true
		}
		descs[e.Description] = true
	}
	complementary := len(union) == totalTargets

	switch {
	case complementary && len(descs) == 1:
		return VerdictMerge
	case len(descs) == len(ids):
		return VerdictRetitle
	default:
		return VerdictMixed
	}
}

// Merge folds a merge-verdict group into its first member: target sets
// are unioned and the other members removed. Only flat, complete entries
// participate; a variant-form or incomplete member aborts the merge for
// its group and the registry stays untouched.
func Merge(reg *model.Registry, g Group) error {
	if g.Verdict != VerdictMerge {
		return fmt.Errorf("group %q is not a merge candidate", g.Slug)
	}
	head, ok := reg.Get(g.IDs[0])
	if !ok {
		return fmt.Errorf("entry %q vanished", g.IDs[0])
	}
	if !head.IsFlat() {
		return fmt.Errorf("entry %q is variant-form", g.IDs[0])
	}
	if err := head.CheckComplete(); err != nil {
		return fmt.Errorf("entry %q: %w", g.IDs[0], err)
	}

	members := make([]*model.Entry, 0, len(g.IDs)-1)
	for _, id := range g.IDs[1:] {
		e, ok := reg.Get(id)
		if !ok {
			return fmt.Errorf("entry %q vanished", id)
		}
		if !e.IsFlat() {
			return fmt.Errorf("entry %q is variant-form", id)
		}
		if err := e.CheckComplete(); err != nil {
			return fmt.Errorf("entry %q: %w", id, err)
		}
		members = append(members, e)
	}

	targets := append([]string(nil), head.Targets...)
	for _, e := range members {
		targets = append(targets, e.Targets...)
		for target, fn := range e.Functions {
			head.Functions[target] = fn
		}
		for target, level := range e.Levels {
			head.Levels[target] = level
		}
	}
	head.Targets = reg.SortTargets(targets)
	for _, id := range g.IDs[1:] {
		reg.Delete(id)
	}
	return nil
}
