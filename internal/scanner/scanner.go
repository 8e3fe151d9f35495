// Package scanner reads fixture source files for a layout into
// line-addressed units. Files are plain text here: the marker grammar is
// line-based by contract, so no language parsing happens at this layer.
package scanner

import (
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
)

// SourceFile is one target/level fixture file, split into lines with
// normalized newlines.
type SourceFile struct {
	Target string
	Level  string
	Path   string
	Lines  []string
}

// Text joins the lines back into file content with a trailing newline.
func (sf SourceFile) Text() string {
	return strings.Join(sf.Lines, "\n") + "\n"
}

type Scanner struct {
	SrcDir string
	Layout *layout.Layout
	Log    *zap.Logger
}

func New(srcDir string, l *layout.Layout, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{SrcDir: srcDir, Layout: l, Log: log}
}

// List reads every existing layout file in the fixed target/level order.
// Missing files are skipped (debug-logged), not errors: targets grow their
// level files over time.
func (s *Scanner) List() ([]SourceFile, error) {
	var out []SourceFile
	for _, target := range s.Layout.Targets {
		for _, level := range s.Layout.Levels(target) {
			sf, err := s.Read(target, level)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					s.Log.Debug("no fixture file", zap.String("target", target), zap.String("level", level))
					continue
				}
				return nil, err
			}
			out = append(out, sf)
		}
	}
	return out, nil
}

// Read loads a single target/level file.
func (s *Scanner) Read(target, level string) (SourceFile, error) {
	path := s.Layout.PathFor(s.SrcDir, target, level)
	b, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{}, err
	}
	return SourceFile{
		Target: target,
		Level:  level,
		Path:   path,
		Lines:  splitLines(normalizeNewlines(string(b))),
	}, nil
}

// Write stores a unit back to its path.
func (s *Scanner) Write(sf SourceFile) error {
	return os.WriteFile(sf.Path, []byte(sf.Text()), 0o644)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitLines drops the final empty element a trailing newline produces, so
// Text() round-trips byte-identically.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
