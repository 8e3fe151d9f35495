package migrate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/classify"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/unify"
)

var titleQualifierRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*(good|bad).*$`),
	regexp.MustCompile(`(?i)\s*\((good|bad)\)$`),
}

// VariantReport describes what ToVariants did.
type VariantReport struct {
	Merged   [][2]string // good id, bad id
	Singles  []string
	Failures []Failure
}

// ToVariants rewrites flat entries into variant form. Flat entries that
// pair up (same normalized title, same target set, one classified good
// and one bad) merge into a single entry with both variants; the merged
// entry takes the position of the pair's first member in document order.
// Unpaired entries become single-variant entries under their own id,
// with a documented-absence null counterpart when the lone variant is
// good or bad. Entries already in variant form pass through unchanged,
// so the migration is idempotent.
//
// An entry that violates the completeness invariants, or whose merged
// key collides with an existing id, is reported and kept as is.
func ToVariants(reg *model.Registry) (*model.Registry, VariantReport) {
	var report VariantReport
	out := model.NewRegistry(reg.Targets)

	kinds := make(map[string]model.VariantKind)
	pairs := make(map[unify.PairKey][]string)
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if !e.IsFlat() {
			continue
		}
		kinds[id] = classify.Entry(e)
		pairs[unify.KeyFor(e)] = append(pairs[unify.KeyFor(e)], id)
	}

	processed := make(map[string]bool)
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		if !e.IsFlat() {
			out.Set(id, e)
			continue
		}
		if processed[id] {
			continue
		}

		goodID, badID, ok := pairFor(pairs[unify.KeyFor(e)], kinds, id)
		if ok {
			processed[goodID] = true
			processed[badID] = true
			mergePair(reg, out, goodID, badID, &report)
			continue
		}

		processed[id] = true
		convertSingle(out, id, e, kinds[id], &report)
	}

	return out, report
}

// pairFor reports the first good and first bad member of id's group,
// provided id is one of them.
func pairFor(group []string, kinds map[string]model.VariantKind, id string) (goodID, badID string, ok bool) {
	for _, member := range group {
		switch kinds[member] {
		case model.KindGood:
			if goodID == "" {
				goodID = member
			}
		case model.KindBad:
			if badID == "" {
				badID = member
			}
		}
	}
	if goodID == "" || badID == "" {
		return "", "", false
	}
	return goodID, badID, id == goodID || id == badID
}

func mergePair(reg, out *model.Registry, goodID, badID string, report *VariantReport) {
	good, _ := reg.Get(goodID)
	bad, _ := reg.Get(badID)

	keep := func(id string, e *model.Entry, err error) {
		report.Failures = append(report.Failures, Failure{ID: id, Err: err})
		out.Set(id, e)
	}
	if err := good.CheckComplete(); err != nil {
		keep(goodID, good, err)
		out.Set(badID, bad)
		return
	}
	if err := bad.CheckComplete(); err != nil {
		out.Set(goodID, good)
		keep(badID, bad, err)
		return
	}

	key := stripKindPrefix(FixKey(goodID))
	if _, exists := out.Get(key); exists {
		keep(goodID, good, fmt.Errorf("merged key %q already taken", key))
		out.Set(badID, bad)
		return
	}

	out.Set(key, &model.Entry{
		Title:   stripTitleQualifier(good.Title),
		Targets: good.Targets,
		Variants: map[model.VariantKind]*model.Variant{
			model.KindGood: {Description: good.Description, Functions: good.Functions, Levels: good.Levels},
			model.KindBad:  {Description: bad.Description, Functions: bad.Functions, Levels: bad.Levels},
		},
	})
	report.Merged = append(report.Merged, [2]string{goodID, badID})
}

func convertSingle(out *model.Registry, id string, e *model.Entry, kind model.VariantKind, report *VariantReport) {
	if err := e.CheckComplete(); err != nil {
		report.Failures = append(report.Failures, Failure{ID: id, Err: err})
		out.Set(id, e)
		return
	}

	key := FixKey(id)
	if key != id {
		if _, exists := out.Get(key); exists {
			report.Failures = append(report.Failures, Failure{ID: id, Err: fmt.Errorf("fixed key %q already taken", key)})
			key = id
		}
	}

	variants := map[model.VariantKind]*model.Variant{
		kind: {Description: e.Description, Functions: e.Functions, Levels: e.Levels},
	}
	// a lone good or bad half documents the other half as absent
	switch kind {
	case model.KindGood:
		variants[model.KindBad] = nil
	case model.KindBad:
		variants[model.KindGood] = nil
	}

	out.Set(key, &model.Entry{
		Title:    e.Title,
		Targets:  e.Targets,
		Variants: variants,
	})
	report.Singles = append(report.Singles, key)
}

// FixKey converts a hyphenated id to camelCase: "ctx-in-struct" becomes
// "ctxInStruct". Ids without hyphens are returned unchanged.
func FixKey(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) == 1 {
		return id
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// stripKindPrefix drops a leading "good" or "bad" from a merged key and
// lowercases the following character: "goodEchoPattern" -> "echoPattern".
func stripKindPrefix(key string) string {
	for _, prefix := range []string{"good", "bad"} {
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			rest := key[len(prefix):]
			return strings.ToLower(rest[:1]) + rest[1:]
		}
	}
	return key
}

func stripTitleQualifier(title string) string {
	for _, re := range titleQualifierRes {
		title = re.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(title)
}
