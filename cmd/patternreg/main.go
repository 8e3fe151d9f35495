// patternreg maintains the context-propagation fixture registry: it
// extracts pattern markers from fixture sources, keeps structure.json in
// sync with them, and migrates the document between schema shapes.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vd09-projects/ctxpattern-registry/internal/layout"
	"github.com/vd09-projects/ctxpattern-registry/internal/pipeline"
	"github.com/vd09-projects/ctxpattern-registry/internal/scanner"
)

var (
	flagRegistry string
	flagSrc      string
	flagLayout   string
	flagDebug    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "patternreg",
		Short:         "maintain the test-pattern registry and its fixture sources",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flagRegistry, "registry", "structure.json", "registry document path")
	pf.StringVar(&flagSrc, "src", ".", "fixture source root")
	pf.StringVar(&flagLayout, "layout", "", "layout override file (YAML)")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")

	root.AddCommand(
		newGenerateCmd(),
		newAnalyzeSlugsCmd(),
		newAssignSlugsCmd(),
		newMigrateVariantsCmd(),
		newHoistLevelsCmd(),
		newFixLevelsCmd(),
		newRenameLegacyCmd(),
		newSplitMismatchedCmd(),
		newSyncCommentsCmd(),
		newMarkHelpersCmd(),
		newUnmarkHelpersCmd(),
		newStripMarkersCmd(),
		newValidateCmd(),
	)
	return root
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if flagDebug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadLayout() (*layout.Layout, error) {
	if flagLayout == "" {
		return layout.Default(), nil
	}
	return layout.Load(flagLayout)
}

func newPipeline(log *zap.Logger) (*pipeline.Pipeline, error) {
	l, err := loadLayout()
	if err != nil {
		return nil, err
	}
	sc := scanner.New(flagSrc, l, log)
	return pipeline.New(sc, l, log), nil
}
