package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/config"
	"github.com/vango-dev/observer/internal/demo"
	"github.com/vango-dev/observer/pkg/snapshot"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and restore subject values",
		Long: `Save the thermostat's subject values to the configured store, or
restore them into a fresh screen.

Snapshots go to snapshot.dir, or to S3 when snapshot.bucket is set.`,
	}

	cmd.AddCommand(snapshotSaveCmd(), snapshotRestoreCmd(), snapshotShowCmd())
	return cmd
}

func snapshotSaveCmd() *cobra.Command {
	var assignments []string

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Capture the screen and store it",
		Long: `Build the thermostat, apply --set assignments, then store a
snapshot of every assignable subject.

Examples:
  observer snapshot save evening --set setpoint=19 --set mode=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEngine(os.Stderr)
			if err != nil {
				return err
			}
			archive, err := openArchive(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}

			t := demo.NewThermostat(e.logger)
			for _, a := range assignments {
				name, value, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("--set %q: want name=value", a)
				}
				if err := t.Registry.Assign(name, value); err != nil {
					return err
				}
			}

			snap := snapshot.Capture(t.Registry)
			if err := archive.Save(cmd.Context(), args[0], snap); err != nil {
				return err
			}
			success("Saved %d values as %s", len(snap.Values), archive.Key(args[0]))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Assign name=value before saving")
	return cmd
}

func snapshotRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Restore a snapshot into a fresh screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEngine(os.Stderr)
			if err != nil {
				return err
			}
			archive, err := openArchive(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			snap, err := archive.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			t := demo.NewThermostat(e.logger)
			if err := snapshot.Apply(t.Registry, snap); err != nil {
				warn("Some values were skipped: %v", err)
			}
			success("Restored %s (taken %s)", archive.Key(args[0]), snap.Taken.Format("2006-01-02 15:04:05"))
			info("%s", t.Status())
			return nil
		},
	}
}

func snapshotShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print the values of a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEngine(os.Stderr)
			if err != nil {
				return err
			}
			archive, err := openArchive(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}
			snap, err := archive.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info("taken %s", snap.Taken.Format("2006-01-02 15:04:05 MST"))
			for _, v := range snap.Values {
				info("%-12s %-7s %s", v.Name, v.Kind, v.Value)
			}
			return nil
		},
	}
}

// openArchive builds the snapshot archive the configuration describes.
func openArchive(ctx context.Context, cfg *config.Config) (*snapshot.Archive, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	codec, err := snapshot.CodecByName(cfg.Snapshot.Format)
	if err != nil {
		return nil, err
	}

	var store snapshot.Store
	if cfg.Snapshot.Bucket != "" {
		store, err = snapshot.NewS3StoreFromEnv(ctx, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix, cfg.Snapshot.Region)
	} else {
		store, err = snapshot.NewDirStore(cfg.SnapshotPath())
	}
	if err != nil {
		return nil, err
	}
	return snapshot.NewArchive(store, codec), nil
}
