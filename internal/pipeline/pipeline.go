// Package pipeline orchestrates the multi-file operations: it owns the
// scan → transform → write loop so the commands stay thin.
package pipeline

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vd09-projects/ctxpattern-registry/internal/gitutil"
	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
	"github.com/vd09-projects/ctxpattern-registry/internal/model"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
	"github.com/vd09-projects/ctxpattern-registry/internal/syncer"
	"github.com/vd09-projects/ctxpattern-registry/internal/unify"
)

type Pipeline struct {
	Scanner *scanner.Scanner
	Layout  *layout.Layout
	Log     *zap.Logger
}

func New(sc *scanner.Scanner, l *layout.Layout, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Scanner: sc, Layout: l, Log: log}
}

// Generate scans the fixture tree and builds a fresh flat registry.
func (p *Pipeline) Generate() (*model.Registry, error) {
	files, err := p.Scanner.List()
	if err != nil {
		return nil, err
	}
	b := unify.Builder{Layout: p.Layout}
	reg := b.Build(files)
	p.Log.Info("registry generated",
		zap.Int("files", len(files)),
		zap.Int("entries", reg.Len()))
	return reg, nil
}

// transform applies fn to every fixture file and writes back the ones
// that changed. Returns the total change count.
func (p *Pipeline) transform(fn func(scanner.SourceFile) (scanner.SourceFile, int)) (int, error) {
	files, err := p.Scanner.List()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, sf := range files {
		updated, n := fn(sf)
		if n == 0 {
			continue
		}
		if err := p.Scanner.Write(updated); err != nil {
			return total, err
		}
		total += n
		p.Log.Info("file updated",
			zap.String("path", sf.Path),
			zap.Int("changes", n))
	}
	return total, nil
}

// SyncComments regenerates the comment block above every tracked
// declaration in every fixture file.
func (p *Pipeline) SyncComments(reg *model.Registry) (int, error) {
	return p.transform(func(sf scanner.SourceFile) (scanner.SourceFile, int) {
		return syncer.Sync(sf, reg)
	})
}

// MarkHelpers inserts the helper sentinel above untracked declarations.
func (p *Pipeline) MarkHelpers(reg *model.Registry) (int, error) {
	return p.transform(func(sf scanner.SourceFile) (scanner.SourceFile, int) {
		return syncer.MarkHelpers(sf, syncer.Index(reg, sf.Target, sf.Level))
	})
}

// UnmarkHelpers removes stale sentinels above tracked declarations.
func (p *Pipeline) UnmarkHelpers(reg *model.Registry) (int, error) {
	return p.transform(func(sf scanner.SourceFile) (scanner.SourceFile, int) {
		return syncer.UnmarkHelpers(sf, syncer.Index(reg, sf.Target, sf.Level))
	})
}

// StripMarkers deletes retired short-code marker lines from every file.
func (p *Pipeline) StripMarkers() (int, error) {
	prefixes := make([]string, 0, len(p.Layout.PrefixTargets))
	for prefix := range p.Layout.PrefixTargets {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return p.transform(func(sf scanner.SourceFile) (scanner.SourceFile, int) {
		return syncer.StripMarkers(sf, prefixes)
	})
}

// History returns a unify.HistoryFn backed by git at ref (HEAD when
// empty), reading each target/level file from the snapshot.
func (p *Pipeline) History(ref string) (unify.HistoryFn, error) {
	root, err := gitutil.RepoRoot(p.Scanner.SrcDir)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		ref = "HEAD"
	}
	commit := gitutil.ResolveCommit(root, ref)
	p.Log.Info("reading history", zap.String("ref", ref), zap.String("commit", commit))
	return func(target, level string) ([]byte, error) {
		rel, err := gitutil.RelToRoot(root, p.Layout.PathFor(p.Scanner.SrcDir, target, level))
		if err != nil {
			return nil, err
		}
		return gitutil.ShowFile(root, ref, rel)
	}, nil
}
