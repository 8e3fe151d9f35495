package model

// VariantKind is the outcome category a fixture instantiates.
type VariantKind string

const (
	KindGood       VariantKind = "good"
	KindBad        VariantKind = "bad"
	KindLimitation VariantKind = "limitation"
	KindNotChecked VariantKind = "notChecked"
	KindUnknown    VariantKind = "unknown"
)

// Kinds lists all variant kinds in their fixed evaluation order.
var Kinds = []VariantKind{KindGood, KindBad, KindLimitation, KindNotChecked, KindUnknown}

// Variant is one outcome-specific instantiation of an entry.
// A nil *Variant stored under a kind is a documented absence ("no bad
// counterpart exists"), not missing data.
type Variant struct {
	Description string            `json:"description,omitempty"`
	Functions   map[string]string `json:"functions,omitempty"`
	Levels      map[string]string `json:"levels,omitempty"`
}

// Entry is one logical test pattern. It is either flat (Functions/Levels
// directly on the entry) or variant-form (Variants populated, Levels
// optionally hoisted to the entry).
type Entry struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Targets     []string `json:"targets"`
	// Level is the retired singular form: one level for every target.
	// Kept so legacy documents round-trip; the fix-levels migration
	// rewrites it into the per-target Levels map.
	Level     string                   `json:"level,omitempty"`
	Functions map[string]string        `json:"functions,omitempty"`
	Levels    map[string]string        `json:"levels,omitempty"`
	Variants  map[VariantKind]*Variant `json:"variants,omitempty"`
}

// IsFlat reports whether the entry uses the flat (pre-variant) schema.
func (e *Entry) IsFlat() bool { return e.Variants == nil }

// HasTarget reports whether target is in the entry's target set.
func (e *Entry) HasTarget(target string) bool {
	for _, t := range e.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// LevelFor resolves the level for a target, checking the entry-level map
// first and then the variant's own map.
func (e *Entry) LevelFor(target string, v *Variant) (string, bool) {
	if lv, ok := e.Levels[target]; ok {
		return lv, true
	}
	if v != nil {
		if lv, ok := v.Levels[target]; ok {
			return lv, true
		}
	}
	return "", false
}

// FunctionNames returns every function name the entry references, in
// deterministic order: flat functions by target order, then variants by
// kind order with each variant's functions by target order.
func (e *Entry) FunctionNames() []string {
	var out []string
	for _, target := range e.Targets {
		if name, ok := e.Functions[target]; ok {
			out = append(out, name)
		}
	}
	for _, kind := range Kinds {
		v := e.Variants[kind]
		if v == nil {
			continue
		}
		for _, target := range e.Targets {
			if name, ok := v.Functions[target]; ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// NonNullVariants returns the entry's populated variants in kind order.
func (e *Entry) NonNullVariants() []VariantKind {
	var out []VariantKind
	for _, kind := range Kinds {
		if e.Variants[kind] != nil {
			out = append(out, kind)
		}
	}
	return out
}
