package migrate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/classify"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/rename"
)

var (
	legacyDeriverRe   = regexp.MustCompile(`^[amd]\d{2}[A-Z]`)
	legacyGoroutineRe = regexp.MustCompile(`^go\d{2}[A-Z]`)

	deriverCodeRe   = regexp.MustCompile(`^[amd]\d{2}`)
	goroutineCodeRe = regexp.MustCompile(`^go\d{2}`)
)

// IsLegacyName reports whether a function name carries one of the retired
// short-code prefixes (a##/m##/d## deriver families, go## goroutine
// series).
func IsLegacyName(name string) bool {
	return legacyDeriverRe.MatchString(name) || legacyGoroutineRe.MatchString(name)
}

// SuggestName derives the convention-following replacement for a legacy
// name: the short code is stripped, a trailing Good/Bad marker dropped,
// and the outcome kind becomes the prefix. Kinds without a naming prefix
// (limitation, unknown) keep the bare stripped name.
func SuggestName(name string, kind model.VariantKind) string {
	stripped := deriverCodeRe.ReplaceAllString(name, "")
	stripped = goroutineCodeRe.ReplaceAllString(stripped, "")
	stripped = strings.TrimSuffix(stripped, "Bad")
	stripped = strings.TrimSuffix(stripped, "Good")
	if stripped == "" {
		return name
	}

	var prefix string
	switch kind {
	case model.KindGood:
		prefix = "good"
	case model.KindBad:
		prefix = "bad"
	case model.KindNotChecked:
		prefix = "notChecked"
	default:
		return stripped
	}
	if strings.HasPrefix(stripped, prefix) {
		return stripped
	}
	return prefix + strings.ToUpper(stripped[:1]) + stripped[1:]
}

// LegacyRenamePlan walks the registry in document order and plans a
// rename for every legacy function name. A suggestion that collides with
// another function on the same target, planned or existing, is rejected
// and reported; the rest of the plan stands.
func LegacyRenamePlan(reg *model.Registry) (rename.Plan, []Failure) {
	var plan rename.Plan
	var failures []Failure

	// existing names per target, to catch suggestions that land on a
	// name already in use
	taken := make(map[string]map[string]bool)
	reserve := func(target, name string) {
		if taken[target] == nil {
			taken[target] = make(map[string]bool)
		}
		taken[target][name] = true
	}
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		for target, name := range e.Functions {
			reserve(target, name)
		}
		for _, kind := range e.NonNullVariants() {
			for target, name := range e.Variants[kind].Functions {
				reserve(target, name)
			}
		}
	}

	propose := func(id, target, old string, kind model.VariantKind, level string, ok bool) {
		if !IsLegacyName(old) {
			return
		}
		if !ok {
			failures = append(failures, Failure{ID: id, Err: fmt.Errorf("no level for target %q", target)})
			return
		}
		suggestion := SuggestName(old, kind)
		if suggestion == old {
			return
		}
		if taken[target][suggestion] {
			failures = append(failures, Failure{
				ID:  id,
				Err: fmt.Errorf("rename %s -> %s collides on target %q", old, suggestion, target),
			})
			return
		}
		reserve(target, suggestion)
		plan.Items = append(plan.Items, rename.Item{Target: target, Level: level, Old: old, New: suggestion})
	}

	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if e.IsFlat() {
			kind := classify.Entry(e)
			for _, target := range e.Targets {
				old, present := e.Functions[target]
				if !present {
					continue
				}
				level, ok := e.LevelFor(target, nil)
				propose(id, target, old, kind, level, ok)
			}
			continue
		}
		for _, kind := range e.NonNullVariants() {
			v := e.Variants[kind]
			for _, target := range e.Targets {
				old, present := v.Functions[target]
				if !present {
					continue
				}
				level, ok := e.LevelFor(target, v)
				propose(id, target, old, kind, level, ok)
			}
		}
	}

	return plan, failures
}
