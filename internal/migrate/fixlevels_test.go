package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

func writeFixture(t *testing.T, dir, target, file, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, target), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, target, file), []byte(content), 0o644))
}

func fixLevelsScanner(t *testing.T) *scanner.Scanner {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "goroutine", "basic.go",
		"package goroutine\n\nfunc goodEcho(ctx context.Context) {\n}\n")
	writeFixture(t, dir, "goroutine", "advanced.go",
		"package goroutine\n\nfunc goodNested(ctx context.Context) {\n}\n")
	writeFixture(t, dir, "errgroup", "basic.go",
		"package errgroup\n\nfunc goodEchoGroup(ctx context.Context) {\n}\n")
	return scanner.New(dir, layout.Default(), nil)
}

func TestFixLevelsResolvesActualFile(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine", "errgroup"})
	r.Set("echoPattern", &model.Entry{
		Title:   "Echo pattern",
		Targets: []string{"goroutine", "errgroup"},
		Level:   "basic",
		Functions: map[string]string{
			"goroutine": "goodEcho",
			"errgroup":  "goodEchoGroup",
		},
	})
	// the legacy field says basic, but the function lives in advanced.go
	r.Set("nestedPattern", &model.Entry{
		Title:     "Nested pattern",
		Targets:   []string{"goroutine"},
		Level:     "basic",
		Functions: map[string]string{"goroutine": "goodNested"},
	})

	report := FixLevels(r, fixLevelsScanner(t))
	assert.Equal(t, []string{"echoPattern", "nestedPattern"}, report.Fixed)
	assert.Empty(t, report.Fallback)

	e, _ := r.Get("echoPattern")
	assert.Empty(t, e.Level)
	assert.Equal(t, map[string]string{"goroutine": "basic", "errgroup": "basic"}, e.Levels)

	n, _ := r.Get("nestedPattern")
	assert.Empty(t, n.Level)
	assert.Equal(t, map[string]string{"goroutine": "advanced"}, n.Levels)
}

func TestFixLevelsFallsBackWhenDeclarationMissing(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine"})
	r.Set("ghostPattern", &model.Entry{
		Title:     "Ghost pattern",
		Targets:   []string{"goroutine"},
		Level:     "evil",
		Functions: map[string]string{"goroutine": "goodVanished"},
	})

	report := FixLevels(r, fixLevelsScanner(t))
	assert.Equal(t, []string{"ghostPattern"}, report.Fixed)
	require.Len(t, report.Fallback, 1)
	assert.Equal(t, "ghostPattern", report.Fallback[0].ID)

	e, _ := r.Get("ghostPattern")
	assert.Empty(t, e.Level)
	assert.Equal(t, map[string]string{"goroutine": "evil"}, e.Levels)
}

func TestFixLevelsLeavesModernEntriesAlone(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine"})
	r.Set("modern", &model.Entry{
		Title:     "Modern pattern",
		Targets:   []string{"goroutine"},
		Functions: map[string]string{"goroutine": "goodEcho"},
		Levels:    map[string]string{"goroutine": "basic"},
	})

	report := FixLevels(r, fixLevelsScanner(t))
	assert.Empty(t, report.Fixed)

	e, _ := r.Get("modern")
	assert.Equal(t, map[string]string{"goroutine": "basic"}, e.Levels)
}

func TestFixLevelsIsIdempotent(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine"})
	r.Set("echoPattern", &model.Entry{
		Title:     "Echo pattern",
		Targets:   []string{"goroutine"},
		Level:     "basic",
		Functions: map[string]string{"goroutine": "goodEcho"},
	})

	sc := fixLevelsScanner(t)
	first := FixLevels(r, sc)
	require.Len(t, first.Fixed, 1)

	second := FixLevels(r, sc)
	assert.Empty(t, second.Fixed)
	assert.Empty(t, second.Fallback)
}
