package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vd09-projects/ctxpattern-registry/internal/model"
)

func reg(t *testing.T) *model.Registry {
	t.Helper()
	r := model.NewRegistry([]string{"goroutine", "errgroup", "waitgroup"})
	r.Set("patternA", &model.Entry{
		Title:       "Echo pattern",
		Description: "spawn echoes ctx",
		Targets:     []string{"goroutine"},
		Functions:   map[string]string{"goroutine": "goodEcho"},
		Levels:      map[string]string{"goroutine": "basic"},
	})
	r.Set("patternB", &model.Entry{
		Title:       "Echo Pattern",
		Description: "spawn echoes ctx",
		Targets:     []string{"errgroup"},
		Functions:   map[string]string{"errgroup": "goodEchoGroup"},
		Levels:      map[string]string{"errgroup": "basic"},
	})
	r.Set("patternC", &model.Entry{
		Title:       "Lone pattern",
		Description: "nothing colliding",
		Targets:     []string{"goroutine"},
		Functions:   map[string]string{"goroutine": "goodLone"},
		Levels:      map[string]string{"goroutine": "basic"},
	})
	return r
}

func TestAnalyzeSlugsReportsOnlyCollisions(t *testing.T) {
	groups := AnalyzeSlugs(reg(t))
	require.Len(t, groups, 1)
	assert.Equal(t, "echoPattern", groups[0].Slug)
	assert.Equal(t, []string{"patternA", "patternB"}, groups[0].IDs)
	assert.Equal(t, VerdictMerge, groups[0].Verdict)
}

func TestVerdictRetitle(t *testing.T) {
	r := reg(t)
	e, _ := r.Get("patternB")
	e.Description = "a different pattern entirely"

	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)
	assert.Equal(t, VerdictRetitle, groups[0].Verdict)
}

func TestVerdictMixed(t *testing.T) {
	r := reg(t)
	r.Set("patternD", &model.Entry{
		Title:       "Echo pattern",
		Description: "a third, different description",
		Targets:     []string{"waitgroup"},
		Functions:   map[string]string{"waitgroup": "goodEchoWait"},
		Levels:      map[string]string{"waitgroup": "basic"},
	})
	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)
	assert.Equal(t, VerdictMixed, groups[0].Verdict)
}

func TestVerdictRetitleOnOverlappingTargets(t *testing.T) {
	r := reg(t)
	e, _ := r.Get("patternB")
	e.Targets = []string{"goroutine"}
	e.Functions = map[string]string{"goroutine": "goodEchoAgain"}
	e.Levels = map[string]string{"goroutine": "basic"}
	e.Description = "same slug, same target, different pattern"

	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)
	// overlapping targets rule out a merge even with one description each
	assert.NotEqual(t, VerdictMerge, groups[0].Verdict)
}

func TestMergeUnionsTargetsInGlobalOrder(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine", "errgroup", "waitgroup"})
	r.Set("first", &model.Entry{
		Title:       "Echo pattern",
		Description: "same",
		Targets:     []string{"waitgroup"},
		Functions:   map[string]string{"waitgroup": "goodEchoWait"},
		Levels:      map[string]string{"waitgroup": "basic"},
	})
	r.Set("second", &model.Entry{
		Title:       "Echo pattern",
		Description: "same",
		Targets:     []string{"goroutine"},
		Functions:   map[string]string{"goroutine": "goodEcho"},
		Levels:      map[string]string{"goroutine": "evil"},
	})

	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)
	require.NoError(t, Merge(r, groups[0]))

	assert.Equal(t, []string{"first"}, r.Keys())
	e, _ := r.Get("first")
	assert.Equal(t, []string{"goroutine", "waitgroup"}, e.Targets)
	assert.Equal(t, "goodEcho", e.Functions["goroutine"])
	assert.Equal(t, "evil", e.Levels["goroutine"])
	assert.Equal(t, "goodEchoWait", e.Functions["waitgroup"])
}

func TestMergeRejectsNonMergeVerdicts(t *testing.T) {
	err := Merge(reg(t), Group{Slug: "x", IDs: []string{"patternA"}, Verdict: VerdictMixed})
	assert.Error(t, err)
}

func TestMergeRejectsIncompleteHead(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine", "errgroup"})
	// a parseable document may register an entry with no function maps
	r.Set("bare", &model.Entry{
		Title:       "Echo pattern",
		Description: "same",
		Targets:     []string{"goroutine"},
	})
	r.Set("full", &model.Entry{
		Title:       "Echo pattern",
		Description: "same",
		Targets:     []string{"errgroup"},
		Functions:   map[string]string{"errgroup": "goodEchoGroup"},
		Levels:      map[string]string{"errgroup": "basic"},
	})

	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)
	require.Equal(t, VerdictMerge, groups[0].Verdict)

	err := Merge(r, groups[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bare"`)

	// both members survive untouched
	assert.Equal(t, []string{"bare", "full"}, r.Keys())
	full, _ := r.Get("full")
	assert.Equal(t, []string{"errgroup"}, full.Targets)
}

func TestMergeRejectsIncompleteMember(t *testing.T) {
	r := model.NewRegistry([]string{"goroutine", "errgroup"})
	r.Set("full", &model.Entry{
		Title:       "Echo pattern",
		Description: "same",
		Targets:     []string{"goroutine"},
		Functions:   map[string]string{"goroutine": "goodEcho"},
		Levels:      map[string]string{"goroutine": "basic"},
	})
	r.Set("bare", &model.Entry{
		Title:       "Echo pattern",
		Description: "same",
		Targets:     []string{"errgroup"},
	})

	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)

	err := Merge(r, groups[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bare"`)

	// the head keeps its original target set
	full, _ := r.Get("full")
	assert.Equal(t, []string{"goroutine"}, full.Targets)
	assert.Len(t, full.Functions, 1)
}

func TestMergeRejectsVariantFormMembers(t *testing.T) {
	r := reg(t)
	e, _ := r.Get("patternB")
	e.Variants = map[model.VariantKind]*model.Variant{
		model.KindGood: {Functions: e.Functions, Levels: e.Levels},
	}
	e.Functions = nil
	e.Levels = nil

	groups := AnalyzeSlugs(r)
	require.Len(t, groups, 1)
	assert.Error(t, Merge(r, groups[0]))
}
