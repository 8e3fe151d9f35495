// Package slug derives stable entry identifiers from human titles.
package slug

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	punctRe         = regexp.MustCompile(`[^\w\s-]`)
)

// FromTitle converts a title to a camelCase slug: parenthetical asides and
// punctuation stripped, first word lower-cased, subsequent words
// capitalized.
func FromTitle(title string) string {
	title = parentheticalRe.ReplaceAllString(title, "")
	title = punctRe.ReplaceAllString(title, "")
	words := strings.Fields(title)
	if len(words) == 0 {
		return "unknown"
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// capitalize upper-cases the first byte and lower-cases the rest.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// Item is one (identifier, title) pair to assign a slug to.
type Item struct {
	ID    string
	Title string
}

// Assigned is the resolved identifier for one item.
type Assigned struct {
	ID   string
	Slug string
}

// Assign maps every item to a unique slug. Colliding items are resolved
// deterministically: groups are visited in lexicographic slug order, the
// first item of a group (in input order) keeps the bare slug and each
// subsequent one appends an ordinal starting at 2. The caller fixes the
// input ordering, which makes the whole assignment reproducible.
func Assign(items []Item) []Assigned {
	groups := make(map[string][]Item)
	var slugs []string
	for _, it := range items {
		s := FromTitle(it.Title)
		if _, seen := groups[s]; !seen {
			slugs = append(slugs, s)
		}
		groups[s] = append(groups[s], it)
	}
	sort.Strings(slugs)

	var out []Assigned
	for _, s := range slugs {
		for i, it := range groups[s] {
			assigned := s
			if i > 0 {
				assigned = s + strconv.Itoa(i+1)
			}
			out = append(out, Assigned{ID: it.ID, Slug: assigned})
		}
	}
	return out
}

// Rekey renames every registry entry to its assigned slug and re-emits
// the document in assignment order, so colliding groups end up adjacent
// with their ordinal suffixes. Returns the rewritten registry and the
// number of entries whose id changed.
func Rekey(reg *model.Registry) (*model.Registry, int) {
	items := make([]Item, 0, reg.Len())
	for _, id := range reg.Keys() {
		e, _ := reg.Get(id)
		items = append(items, Item{ID: id, Title: e.Title})
	}

	out := model.NewRegistry(reg.Targets)
	renamed := 0
	for _, a := range Assign(items) {
		e, _ := reg.Get(a.ID)
		out.Set(a.Slug, e)
		if a.Slug != a.ID {
			renamed++
		}
	}
	return out, renamed
}
