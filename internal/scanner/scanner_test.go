package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
)

const fixtureTree = `
-- goroutine/basic.go --
package goroutine

// GO01: basic spawn
func goodSpawn(ctx context.Context) {
}
-- goroutine/advanced.go --
package goroutine

// GO10: advanced spawn
func goodAdvancedSpawn(ctx context.Context) {
}
-- errgroup/basic.go --
package errgroup

// GE01: basic group
func goodGroup(ctx context.Context) {
}
-- carrier/carrier.go --
package carrier

// CR01: carrier pattern
func goodCarrier(ctx context.Context) {
}
`

func extractTree(t *testing.T, archive string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	return dir
}

func TestListFollowsLayoutOrderAndSkipsMissing(t *testing.T) {
	dir := extractTree(t, fixtureTree)
	sc := New(dir, layout.Default(), nil)

	files, err := sc.List()
	require.NoError(t, err)

	var got []string
	for _, sf := range files {
		got = append(got, sf.Target+"/"+sf.Level)
	}
	assert.Equal(t, []string{
		"goroutine/basic",
		"goroutine/advanced",
		"errgroup/basic",
		"carrier/carrier",
	}, got)
}

func TestReadSplitsAndTextRoundTrips(t *testing.T) {
	dir := extractTree(t, fixtureTree)
	sc := New(dir, layout.Default(), nil)

	sf, err := sc.Read("goroutine", "basic")
	require.NoError(t, err)
	assert.Equal(t, "package goroutine", sf.Lines[0])

	raw, err := os.ReadFile(sf.Path)
	require.NoError(t, err)
	assert.Equal(t, string(raw), sf.Text())
}

func TestReadNormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "goroutine"), 0o755))
	path := filepath.Join(dir, "goroutine", "basic.go")
	require.NoError(t, os.WriteFile(path, []byte("package x\r\nfunc f() {\r\n}\r\n"), 0o644))

	sc := New(dir, layout.Default(), nil)
	sf, err := sc.Read("goroutine", "basic")
	require.NoError(t, err)
	assert.Equal(t, []string{"package x", "func f() {", "}"}, sf.Lines)
}

func TestWriteRoundTrip(t *testing.T) {
	dir := extractTree(t, fixtureTree)
	sc := New(dir, layout.Default(), nil)

	sf, err := sc.Read("errgroup", "basic")
	require.NoError(t, err)
	sf.Lines = append(sf.Lines, "", "func helper() {", "}")
	require.NoError(t, sc.Write(sf))

	again, err := sc.Read("errgroup", "basic")
	require.NoError(t, err)
	assert.Equal(t, sf.Lines, again.Lines)
}
