package unify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
)

// qualifierRes strips the good/bad/case qualifiers a title may carry so
// that the good and bad halves of the same pattern normalize identically.
// The list is fixed; adding to it changes which entries pair up.
var qualifierRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*basic\s*(good|bad)\s*case`),
	regexp.MustCompile(`(?i)\s*-\s*(good|bad)\s*case`),
	regexp.MustCompile(`(?i)\s*-\s*(good|bad)$`),
	regexp.MustCompile(`(?i)\s*\((good|bad)\)$`),
	regexp.MustCompile(`(?i)\s*-\s*with\s+ctx$`),
	regexp.MustCompile(`(?i)\s*-\s*without\s+ctx$`),
	regexp.MustCompile(`(?i)\s*-\s*uses\s+ctx$`),
	regexp.MustCompile(`(?i)\s*-\s*no\s+ctx$`),
	regexp.MustCompile(`(?i)\s*-\s*with\s+context\s+usage$`),
	regexp.MustCompile(`(?i)\s*-\s*without\s+context\s+usage$`),
	regexp.MustCompile(`(?i)\s*-\s*uses\s+it$`),
	regexp.MustCompile(`(?i)\s*-\s*does\s+not\s+use\s+it$`),
	regexp.MustCompile(`(?i)\s*-\s*uses\s+(neither|carrier|context)$`),
	regexp.MustCompile(`(?i)\s*with\s+deriver$`),
	regexp.MustCompile(`(?i)\s*without\s+deriver$`),
}

var wasCodeRe = regexp.MustCompile(`\s*\(was [^)]+\)`)

// NormalizeTitle lower-cases a title and strips the known qualifier
// suffixes, yielding the grouping key for good/bad pairing.
func NormalizeTitle(title string) string {
	normalized := strings.ToLower(title)
	for _, re := range qualifierRes {
		normalized = re.ReplaceAllString(normalized, "")
	}
	return strings.TrimSpace(normalized)
}

// StripWasCode removes the legacy-code annotation ("(was GO01)") a
// description may embed.
func StripWasCode(desc string) string {
	return strings.TrimSpace(wasCodeRe.ReplaceAllString(desc, ""))
}

// PairKey identifies entries that describe the same logical pattern:
// identical normalized title over an identical sorted target set.
type PairKey struct {
	Title   string
	Targets string
}

// KeyFor computes the pair key for an entry.
func KeyFor(e *model.Entry) PairKey {
	targets := append([]string(nil), e.Targets...)
	sort.Strings(targets)
	return PairKey{
		Title:   NormalizeTitle(e.Title),
		Targets: strings.Join(targets, ","),
	}
}
