package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vd09-projects/ctxpattern-registry/internal/migrate"
	"github.com/vd09-projects/ctxpattern-registry/internal/rename"
	"github.com/vd09-projects/ctxpattern-registry/internal/store"
	"github.com/vd09-projects/ctxpattern-registry/internal/unify"
)

func newMigrateVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-variants",
		Short: "pair good/bad entries and rewrite them into variant form",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}
			out, report := migrate.ToVariants(reg)
			for _, f := range report.Failures {
				log.Warn("entry skipped", zap.String("id", f.ID), zap.Error(f.Err))
			}
			log.Info("variants migrated",
				zap.Int("merged", len(report.Merged)),
				zap.Int("singles", len(report.Singles)),
				zap.Int("skipped", len(report.Failures)))
			return store.Save(flagRegistry, out)
		},
	}
}

func newHoistLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hoist-levels",
		Short: "move levels shared by every variant up to the entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}
			report := migrate.HoistLevels(reg)
			log.Info("levels hoisted", zap.Int("entries", len(report.Hoisted)))
			return store.Save(flagRegistry, reg)
		},
	}
}

func newFixLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-levels",
		Short: "rewrite the retired singular level field into per-target levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}
			p, err := newPipeline(log)
			if err != nil {
				return err
			}
			report := migrate.FixLevels(reg, p.Scanner)
			for _, f := range report.Fallback {
				log.Warn("level kept from legacy field", zap.String("id", f.ID), zap.Error(f.Err))
			}
			log.Info("levels fixed",
				zap.Int("entries", len(report.Fixed)),
				zap.Int("fallbacks", len(report.Fallback)))
			return store.Save(flagRegistry, reg)
		},
	}
}

func newRenameLegacyCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "rename-legacy",
		Short: "rename short-code fixture functions to the naming convention",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}
			plan, failures := migrate.LegacyRenamePlan(reg)
			for _, f := range failures {
				log.Warn("rename rejected", zap.String("id", f.ID), zap.Error(f.Err))
			}
			for _, item := range plan.Items {
				fmt.Printf("%s/%s: %s -> %s\n", item.Target, item.Level, item.Old, item.New)
			}
			if dryRun || len(plan.Items) == 0 {
				log.Info("rename plan", zap.Int("items", len(plan.Items)), zap.Bool("applied", false))
				return nil
			}
			p, err := newPipeline(log)
			if err != nil {
				return err
			}
			res := rename.Apply(reg, p.Scanner, plan)
			for _, f := range res.Failures {
				log.Warn("rename failed",
					zap.String("target", f.Item.Target),
					zap.String("old", f.Item.Old),
					zap.Error(f.Err))
			}
			log.Info("renames applied",
				zap.Int("applied", len(res.Applied)),
				zap.Int("failed", len(res.Failures)))
			return store.Save(flagRegistry, reg)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without touching anything")
	return cmd
}

func newSplitMismatchedCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "split-mismatched",
		Short: "split unified entries whose historical descriptions disagree",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}
			p, err := newPipeline(log)
			if err != nil {
				return err
			}
			history, err := p.History(ref)
			if err != nil {
				return err
			}
			out, res := unify.SplitMismatched(reg, p.Layout, history)
			for _, f := range res.Failures {
				log.Warn("entry kept, history unavailable", zap.String("id", f.ID), zap.Error(f.Err))
			}
			log.Info("split finished",
				zap.Int("split", len(res.Split)),
				zap.Int("kept", len(res.Kept)),
				zap.Int("failed", len(res.Failures)))
			return store.Save(flagRegistry, out)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "HEAD", "git ref providing the historical snapshot")
	return cmd
}
