// Package store reads and writes the registry document. The document is
// the single source of truth for pattern intent, so load validates the
// structural invariants up front and save keeps the file human-diffable
// (two-space indent, trailing newline, stable key order).
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
)

// Load reads and validates a registry document.
func Load(path string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes and validates registry bytes.
func Parse(data []byte) (*model.Registry, error) {
	var reg model.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Save writes the registry. path == "" writes to stdout.
func Save(path string, reg *model.Registry) error {
	data, err := Encode(reg)
	if err != nil {
		return err
	}
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode renders the registry in its on-disk form.
func Encode(reg *model.Registry) ([]byte, error) {
	compact, err := json.Marshal(reg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
