package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/demo"
)

func demoCmd() *cobra.Command {
	var scriptOnly bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay the thermostat demo",
		Long: `Run the change-detection script on a bare subject, then drive the
thermostat screen through a fixed set of interactions and print the
screen after each one.

Examples:
  observer demo
  observer demo --script --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(scriptOnly)
		},
	}

	cmd.Flags().BoolVar(&scriptOnly, "script", false, "Run only the change-detection script")

	return cmd
}

func runDemo(scriptOnly bool) error {
	e, err := setupEngine(os.Stderr)
	if err != nil {
		return err
	}

	printBanner()
	fmt.Println("  script")
	fmt.Println()
	for _, step := range demo.Script(e.logger) {
		info("%s", step)
	}
	if scriptOnly {
		return nil
	}

	fmt.Println()
	fmt.Println("  thermostat")
	fmt.Println()
	t := demo.NewThermostat(e.logger)
	for _, step := range t.Tour() {
		info("%s", step)
	}
	fmt.Println()
	success("Demo finished")
	return nil
}
