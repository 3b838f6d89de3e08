package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/config"
	obserrors "github.com/vango-dev/observer/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		useYAML bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write observer.json (or observer.yaml with --yaml) holding the
default settings, ready to edit.

Examples:
  observer init
  observer init --yaml ./deploy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, useYAML, force)
		},
	}

	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write observer.yaml instead of observer.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration")

	return cmd
}

func runInit(dir string, useYAML, force bool) error {
	if config.Exists(dir) && !force {
		return obserrors.New(obserrors.CodeConfigInvalid).
			WithOp("observer init").
			WithDetail("A configuration already exists in " + dir).
			WithSuggestion("Pass --force to overwrite it")
	}

	name := config.ConfigFileName
	if useYAML {
		name = config.YAMLConfigFileName
	}
	path := filepath.Join(dir, name)
	if err := config.New().SaveTo(path); err != nil {
		return err
	}
	success("Wrote %s", path)
	return nil
}
