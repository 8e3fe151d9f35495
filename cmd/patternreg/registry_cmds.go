package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vd09-projects/ctxpattern-registry/internal/check"
	"github.com/vd09-projects/ctxpattern-registry/internal/slug"
	"github.com/vd09-projects/ctxpattern-registry/internal/store"
	"github.com/vd09-projects/ctxpattern-registry/internal/unify"
)

func newGenerateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "extract markers from fixture sources and build a fresh registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			p, err := newPipeline(log)
			if err != nil {
				return err
			}
			reg, err := p.Generate()
			if err != nil {
				return err
			}
			return store.Save(out, reg)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "structure-generated.json", "output path (stdout when empty)")
	return cmd
}

func newAnalyzeSlugsCmd() *cobra.Command {
	var applyMerges bool
	cmd := &cobra.Command{
		Use:   "analyze-slugs",
		Short: "report title slug collisions and optionally merge duplicates",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}
			groups := unify.AnalyzeSlugs(reg)
			if len(groups) == 0 {
				fmt.Println("no slug collisions")
				return nil
			}
			for _, g := range groups {
				fmt.Printf("%s [%s]: %v\n", g.Slug, g.Verdict, g.IDs)
			}
			if !applyMerges {
				return nil
			}
			merged := 0
			for _, g := range groups {
				if g.Verdict != unify.VerdictMerge {
					continue
				}
				if err := unify.Merge(reg, g); err != nil {
					log.Warn("merge skipped", zap.String("slug", g.Slug), zap.Error(err))
					continue
				}
				merged++
			}
			log.Info("merges applied", zap.Int("groups", merged))
			return store.Save(flagRegistry, reg)
		},
	}
	cmd.Flags().BoolVar(&applyMerges, "apply-merges", false, "merge duplicate-verdict groups in place")
	return cmd
}

func newAssignSlugsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-slugs",
		Short: "rename every entry id to the camelCase slug of its title",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			reg, err := store.Load(flagRegistry)
			if err != nil {
				return err
			}

			out, renamed := slug.Rekey(reg)
			log.Info("slugs assigned", zap.Int("renamed", renamed))
			return store.Save(flagRegistry, out)
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "cross-check the registry against the fixture sources",
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
			issues, err := check.Run(reg, p.Scanner)
			if err != nil {
				return err
			}
			errors := 0
			for _, issue := range issues {
				fmt.Println(issue)
				if issue.Severity == check.SeverityError {
					errors++
				}
			}
			if errors > 0 {
				return fmt.Errorf("%d validation errors", errors)
			}
			log.Info("registry is consistent", zap.Int("entries", reg.Len()), zap.Int("warnings", len(issues)-errors))
			return nil
		},
	}
}
