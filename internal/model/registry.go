package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Registry is the root document: the ordered target vocabulary plus the
// entry map. Entry iteration order is semantically meaningful (ordinal
// suffixing during slug assignment depends on it), so the key order seen
// at load time is kept and replayed on save; new keys append.
type Registry struct {
	Targets []string

	keys    []string
	entries map[string]*Entry
}

// NewRegistry creates an empty registry with the given target vocabulary.
func NewRegistry(targets []string) *Registry {
	return &Registry{
		Targets: append([]string(nil), targets...),
		entries: make(map[string]*Entry),
	}
}

func (r *Registry) Len() int { return len(r.keys) }

// Keys returns the entry identifiers in document order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the entry for id, if present.
func (r *Registry) Get(id string) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Set stores an entry, appending the key if it is new.
func (r *Registry) Set(id string, e *Entry) {
	if r.entries == nil {
		r.entries = make(map[string]*Entry)
	}
	if _, ok := r.entries[id]; !ok {
		r.keys = append(r.keys, id)
	}
	r.entries[id] = e
}

// Delete removes an entry and its key-order slot.
func (r *Registry) Delete(id string) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, k := range r.keys {
		if k == id {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// ReplaceKey renames an entry identifier in place, keeping its position.
func (r *Registry) ReplaceKey(old, new string) error {
	e, ok := r.entries[old]
	if !ok {
		return fmt.Errorf("no entry %q", old)
	}
	if old == new {
		return nil
	}
	if _, exists := r.entries[new]; exists {
		return fmt.Errorf("entry %q already exists", new)
	}
	delete(r.entries, old)
	r.entries[new] = e
	for i, k := range r.keys {
		if k == old {
			r.keys[i] = new
			break
		}
	}
	return nil
}

// TargetIndex returns the position of target in the global vocabulary,
// or -1 when unknown.
func (r *Registry) TargetIndex(target string) int {
	for i, t := range r.Targets {
		if t == target {
			return i
		}
	}
	return -1
}

// SortTargets orders a target subset by the global vocabulary order.
func (r *Registry) SortTargets(targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range r.Targets {
		for _, got := range targets {
			if got == t {
				out = append(out, t)
				break
			}
		}
	}
	// unknown targets keep their relative order at the end
	for _, got := range targets {
		if r.TargetIndex(got) == -1 {
			out = append(out, got)
		}
	}
	return out
}

// Validate checks the structural invariants that make the document usable
// at all: no duplicate targets, and every target referenced by an entry is
// a member of the declared vocabulary. Violations here are fatal to a run.
func (r *Registry) Validate() error {
	seen := make(map[string]bool, len(r.Targets))
	for _, t := range r.Targets {
		if seen[t] {
			return fmt.Errorf("duplicate target %q in targets list", t)
		}
		seen[t] = true
	}
	for _, id := range r.keys {
		e := r.entries[id]
		for _, t := range e.Targets {
			if !seen[t] {
				return fmt.Errorf("entry %q references unknown target %q", id, t)
			}
		}
		for target := range e.Functions {
			if !seen[target] {
				return fmt.Errorf("entry %q maps function for unknown target %q", id, target)
			}
		}
		for _, kind := range e.NonNullVariants() {
			for target := range e.Variants[kind].Functions {
				if !seen[target] {
					return fmt.Errorf("entry %q variant %q maps function for unknown target %q", id, kind, target)
				}
			}
		}
	}
	return nil
}

// CheckComplete verifies the per-entry invariant that every target has a
// function name and a resolvable level in the flat entry or in every
// non-null variant. Used by migrations for their per-entry skip-and-report
// semantics.
func (e *Entry) CheckComplete() error {
	if len(e.Targets) == 0 {
		return fmt.Errorf("entry has no targets")
	}
	if e.IsFlat() {
		for _, target := range e.Targets {
			if e.Functions[target] == "" {
				return fmt.Errorf("no function for target %q", target)
			}
			if _, ok := e.LevelFor(target, nil); !ok {
				return fmt.Errorf("no level for target %q", target)
			}
		}
		return nil
	}
	if len(e.NonNullVariants()) == 0 {
		return fmt.Errorf("entry has only null variants")
	}
	for _, kind := range e.NonNullVariants() {
		v := e.Variants[kind]
		for _, target := range e.Targets {
			if v.Functions[target] == "" {
				return fmt.Errorf("variant %q has no function for target %q", kind, target)
			}
			if _, ok := e.LevelFor(target, v); !ok {
				return fmt.Errorf("variant %q has no level for target %q", kind, target)
			}
		}
	}
	return nil
}

// registryJSON mirrors the serialized shape minus entry ordering.
type registryJSON struct {
	Targets []string        `json:"targets"`
	Tests   json.RawMessage `json:"tests"`
}

// UnmarshalJSON decodes the document while capturing the key order of the
// tests object. Duplicate keys are rejected.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var raw registryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Targets = raw.Targets
	r.keys = nil
	r.entries = make(map[string]*Entry)
	if len(raw.Tests) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Tests))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tests: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		if _, dup := r.entries[key]; dup {
			return fmt.Errorf("duplicate entry key %q", key)
		}
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		r.keys = append(r.keys, key)
		r.entries[key] = &e
	}
	return nil
}

// MarshalJSON encodes the document replaying the captured key order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"targets":`)
	targets, err := json.Marshal(r.Targets)
	if err != nil {
		return nil, err
	}
	buf.Write(targets)
	buf.WriteString(`,"tests":{`)
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.entries[key])
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
