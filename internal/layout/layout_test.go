package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	l := Default()
	require.NoError(t, l.Validate())
	assert.True(t, l.HasTarget("goroutine"))
	assert.True(t, l.InUnifiedGroup("waitgroup"))
	assert.False(t, l.InUnifiedGroup("gotask"))
}

func TestFileForSingleFileTargets(t *testing.T) {
	l := Default()
	assert.Equal(t, "creator.go", l.FileFor("goroutinecreator", "creator"))
	assert.Equal(t, "goroutinederive.go", l.FileFor("goroutinederive", "goroutinederive"))
	assert.Equal(t, "carrier.go", l.FileFor("carrier", "carrier"))
	assert.Equal(t, "basic.go", l.FileFor("goroutine", "basic"))
	assert.Equal(t, "evil.go", l.FileFor("gotask", "evil"))
}

func TestPathFor(t *testing.T) {
	l := Default()
	want := filepath.Join("testdata", "errgroup", "advanced.go")
	assert.Equal(t, want, l.PathFor("testdata", "errgroup", "advanced"))
}

func TestLevelsPerTarget(t *testing.T) {
	l := Default()
	assert.Equal(t, []string{"basic", "advanced", "evil"}, l.Levels("goroutine"))
	assert.Equal(t, []string{"basic", "evil"}, l.Levels("gotask"))
	assert.Empty(t, l.Levels("nosuch"))
}

func TestLoadOverride(t *testing.T) {
	doc := `
targets: [alpha, beta]
unifiedGroup: [alpha]
levelFiles:
  alpha: [basic]
  beta: [custom]
singleFile:
  beta: beta.go
prefixTargets:
  AL: alpha
  BE: beta
levelPriority: [basic, custom]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, l.Targets)
	assert.Equal(t, "beta.go", l.FileFor("beta", "custom"))
	assert.Equal(t, "alpha", l.PrefixTargets["AL"])
}

func TestLoadRejectsInconsistentLayout(t *testing.T) {
	cases := map[string]string{
		"unknown unified target": `
targets: [alpha]
unifiedGroup: [ghost]
`,
		"bad prefix length": `
targets: [alpha]
prefixTargets:
  ALPHA: alpha
`,
		"duplicate target": `
targets: [alpha, alpha]
`,
	}
	dir := t.TempDir()
	for name, doc := range cases {
		path := filepath.Join(dir, "layout.yaml")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}
