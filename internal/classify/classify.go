// Package classify maps a registry entry to its outcome category. The
// legacy suite encoded intent in naming conventions; this makes that
// implicit tag explicit as one pure, total decision procedure. Rule order
// is a contract: several rules can disagree about the same entry, so the
// first match wins and callers can rely on which one that is.
//
// Precedence:
//  1. function-name conventions (good/bad/limitation/notChecked/evil)
//  2. legacy short-code families (a##/m##/d## derivers, go8# series)
//  3. free-text cues in title and description
//  4. unknown
package classify

import (
	"regexp"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/utils"
)

var (
	andDeriverRe    = regexp.MustCompile(`^a\d{2}`)
	mixedDeriverRe  = regexp.MustCompile(`^m\d{2}`)
	singleDeriverRe = regexp.MustCompile(`^d\d{2}`)
	go8SeriesRe     = regexp.MustCompile(`^go8\d`)
)

// keywordRule maps an infix keyword to an outcome; rules within a family
// are evaluated top to bottom.
type keywordRule struct {
	keywords []string
	kind     model.VariantKind
}

var andDeriverRules = []keywordRule{
	{[]string{"CallsBoth", "BothDerivers", "BothBranches", "BothHaveBothDerivers"}, model.KindGood},
	{[]string{"CallsOnly", "CallsNeither", "Incomplete", "Partial", "MissingOne"}, model.KindBad},
	{[]string{"OwnContextParam"}, model.KindNotChecked},
	{[]string{"OneDeriver"}, model.KindBad},
	{[]string{"DifferentOrder"}, model.KindGood},
	{[]string{"BothDeriver"}, model.KindGood},
	{[]string{"SplitDerivers"}, model.KindGood},
}

var mixedDeriverRules = []keywordRule{
	{[]string{"Satisfies", "DifferentApproaches", "ReversedApproaches"}, model.KindGood},
	{[]string{"Only", "Nothing", "Fails", "Neither", "Incomplete"}, model.KindBad},
	{[]string{"OwnContextParam"}, model.KindNotChecked},
	{[]string{"Partial"}, model.KindBad},
	{[]string{"SplitDerivers", "OrAlternative"}, model.KindGood},
}

var singleDeriverRules = []keywordRule{
	{[]string{"CallsDeriver", "BothCallDeriver"}, model.KindGood},
	{[]string{"NoDeriverCall", "Missing", "UsesDifferent"}, model.KindBad},
	{[]string{"OwnContextParam", "NamedFuncCall"}, model.KindNotChecked},
}

// Entry classifies one registry entry. Pure and total: every entry gets
// exactly one of the five kinds, and equal entries always get the same one.
func Entry(e *model.Entry) model.VariantKind {
	names := e.FunctionNames()

	// 1. function-name conventions
	for _, name := range names {
		if kind, ok := byNameConvention(name); ok {
			return kind
		}
	}

	// 2. legacy short-code families
	desc := strings.ToLower(e.Description)
	for _, name := range names {
		if kind, ok := byLegacyFamily(name, desc); ok {
			return kind
		}
	}

	// 3. free-text cues
	if kind, ok := byFreeText(strings.ToLower(e.Title)); ok {
		return kind
	}
	if kind, ok := byFreeText(desc); ok {
		return kind
	}

	// 4. nothing matched; surface it, never guess
	return model.KindUnknown
}

func byNameConvention(name string) (model.VariantKind, bool) {
	switch {
	case strings.HasPrefix(name, "good") || strings.HasSuffix(name, "Good"):
		return model.KindGood, true
	case strings.HasPrefix(name, "bad") || strings.HasSuffix(name, "Bad"):
		return model.KindBad, true
	case strings.HasPrefix(name, "limitation"):
		return model.KindLimitation, true
	case strings.HasPrefix(name, "notChecked"):
		return model.KindNotChecked, true
	case strings.HasPrefix(name, "evil"):
		// evil fixtures without an explicit Good suffix exercise failures
		return model.KindBad, true
	}
	return "", false
}

func byLegacyFamily(name, desc string) (model.VariantKind, bool) {
	switch {
	case andDeriverRe.MatchString(name):
		return byKeywords(name, andDeriverRules)
	case mixedDeriverRe.MatchString(name):
		if kind, ok := byKeywords(name, mixedDeriverRules); ok {
			return kind, true
		}
		if strings.Contains(name, "Reassigned") {
			return utils.If(strings.Contains(desc, "should pass"), model.KindGood).
				Else(model.KindBad), true
		}
		return "", false
	case singleDeriverRe.MatchString(name):
		return byKeywords(name, singleDeriverRules)
	case go8SeriesRe.MatchString(name):
		return byGo8Series(name, desc)
	}
	return "", false
}

func byKeywords(name string, rules []keywordRule) (model.VariantKind, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.kind, true
			}
		}
	}
	return "", false
}

// byGo8Series handles the go8#-numbered shadowing/interleaving fixtures
// whose names carry no Good/Bad suffix; the description decides.
func byGo8Series(name, desc string) (model.VariantKind, bool) {
	lower := strings.ToLower(name)
	ignores := strings.Contains(desc, "ignores") || strings.Contains(desc, "bad")
	switch {
	case strings.Contains(lower, "shadowing"),
		strings.Contains(lower, "interleaved"),
		strings.Contains(lower, "middlelayer"):
		return utils.If(ignores, model.KindBad).Else(model.KindGood), true
	case strings.Contains(lower, "twolevel"):
		return model.KindGood, true
	}
	return "", false
}

func byFreeText(text string) (model.VariantKind, bool) {
	switch {
	case text == "":
		return "", false
	case strings.Contains(text, "good"),
		strings.Contains(text, "with ctx"),
		strings.Contains(text, "uses ctx"):
		return model.KindGood, true
	case strings.Contains(text, "bad"),
		strings.Contains(text, "without ctx"),
		strings.Contains(text, "no ctx"):
		return model.KindBad, true
	case strings.Contains(text, "limitation"):
		return model.KindLimitation, true
	case strings.Contains(text, "not checked"):
		return model.KindNotChecked, true
	}
	return "", false
}
