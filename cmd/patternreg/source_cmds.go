package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vd09-projects/ctxpattern-registry/internal/store"
)

func newSyncCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-comments",
		Short: "regenerate the comment block above every tracked fixture",
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
			n, err := p.SyncComments(reg)
			if err != nil {
				return err
			}
			log.Info("comments synchronized", zap.Int("updated", n))
			return nil
		},
	}
}

func newMarkHelpersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-helpers",
		Short: "add the helper sentinel above untracked declarations",
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
			n, err := p.MarkHelpers(reg)
			if err != nil {
				return err
			}
			log.Info("helpers marked", zap.Int("inserted", n))
			return nil
		},
	}
}

func newUnmarkHelpersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unmark-helpers",
		Short: "remove stale helper sentinels from tracked declarations",
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
			n, err := p.UnmarkHelpers(reg)
			if err != nil {
				return err
			}
			log.Info("helpers unmarked", zap.Int("removed", n))
			return nil
		},
	}
}

func newStripMarkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strip-markers",
		Short: "delete retired short-code marker comments from fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()
			p, err := newPipeline(log)
			if err != nil {
				return err
			}
			n, err := p.StripMarkers()
			if err != nil {
				return err
			}
			log.Info("markers stripped", zap.Int("removed", n))
			return nil
		},
	}
}
