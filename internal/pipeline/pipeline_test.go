package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
	"github.com/vd09-projects/ctxpattern-registry/internal/store"
)

const fixtureTree = `
-- goroutine/basic.go --
package goroutine

// GO01: Echo pattern - spawn echoes ctx back
func goodEcho(ctx context.Context) {
}
-- errgroup/basic.go --
package errgroup

// GE01: Echo pattern via errgroup
func goodEchoGroup(ctx context.Context) {
}
-- carrier/carrier.go --
package carrier

// CR05: Carrier passes ctx explicitly
func goodCarrier(ctx context.Context) {
}
`

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	dir := t.TempDir()
	for _, f := range txtar.Parse([]byte(fixtureTree)).Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	l := layout.Default()
	return New(scanner.New(dir, l, nil), l, nil)
}

func TestGenerateBuildsRegistryFromTree(t *testing.T) {
	p := newPipeline(t)
	reg, err := p.Generate()
	require.NoError(t, err)

	assert.Equal(t, []string{"pattern01", "CR05"}, reg.Keys())

	e, ok := reg.Get("pattern01")
	require.True(t, ok)
	assert.Equal(t, []string{"goroutine", "errgroup"}, e.Targets)
	assert.Equal(t, "Echo pattern", e.Title)

	// the result encodes and reparses cleanly
	data, err := store.Encode(reg)
	require.NoError(t, err)
	again, err := store.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, reg.Keys(), again.Keys())
}

func TestSyncReplacesMarkersWithGeneratedBlocks(t *testing.T) {
	p := newPipeline(t)
	reg, err := p.Generate()
	require.NoError(t, err)

	n, err := p.SyncComments(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	sf, err := p.Scanner.Read("goroutine", "basic")
	require.NoError(t, err)
	text := sf.Text()
	assert.Contains(t, text, "// **Echo pattern**")
	assert.Contains(t, text, "//   errgroup: goodEchoGroup")

	// the old marker made way for the generated block
	assert.NotContains(t, text, "// GO01:")

	// a second sync settles to a fixed point
	n, err = p.SyncComments(reg)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStripMarkersEmptiesTheGrammar(t *testing.T) {
	p := newPipeline(t)

	removed, err := p.StripMarkers()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	sf, err := p.Scanner.Read("goroutine", "basic")
	require.NoError(t, err)
	assert.NotContains(t, sf.Text(), "// GO01:")

	// with the markers gone there is nothing left to extract
	reg, err := p.Generate()
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
}

func TestMarkAndUnmarkHelpers(t *testing.T) {
	p := newPipeline(t)
	full, err := p.Generate()
	require.NoError(t, err)
	reduced, err := p.Generate()
	require.NoError(t, err)

	// drop one entry so its function becomes a helper candidate
	reduced.Delete("CR05")

	n, err := p.MarkHelpers(reduced)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sf, err := p.Scanner.Read("carrier", "carrier")
	require.NoError(t, err)
	assert.Contains(t, sf.Text(), "//vt:helper\nfunc goodCarrier")

	// against the full registry the sentinel is stale
	n, err = p.UnmarkHelpers(full)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sf, err = p.Scanner.Read("carrier", "carrier")
	require.NoError(t, err)
	assert.False(t, strings.Contains(sf.Text(), "//vt:helper"))
}
