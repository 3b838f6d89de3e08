package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/config"
	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/inspect"
	"github.com/vango-dev/observer/pkg/subject"
)

// buildInfo is what `observer version` reports.
type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`

	MaxNotifyDepth int    `json:"maxNotifyDepth"`
	CallTimeout    string `json:"callTimeout"`
	InspectorAddr  string `json:"inspectorAddr"`
	ErrorCodes     int    `json:"errorCodes"`
}

func currentBuild() buildInfo {
	v := version
	if v == "dev" {
		// go install records the module version.
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return buildInfo{
		Version:        v,
		Commit:         commit,
		Built:          date,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		MaxNotifyDepth: subject.DefaultMaxNotifyDepth,
		CallTimeout:    inspect.DefaultCallTimeout.String(),
		InspectorAddr:  config.DefaultInspectorAddr,
		ErrorCodes:     len(obserrors.GetAllCodes()),
	}
}

func writeVersion(w io.Writer, info buildInfo, short, asJSON bool) error {
	switch {
	case short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "observer %s (%s, built %s)\n", info.Version, info.Commit, info.Built)
	fmt.Fprintf(w, "  %s %s\n\n", info.GoVersion, info.Platform)
	fmt.Fprintln(w, "  Engine defaults")
	fmt.Fprintf(w, "    max notify depth  %d\n", info.MaxNotifyDepth)
	fmt.Fprintf(w, "    loop call timeout %s\n", info.CallTimeout)
	fmt.Fprintf(w, "    inspector address %s\n", info.InspectorAddr)
	_, err := fmt.Fprintf(w, "    error codes       %d\n", info.ErrorCodes)
	return err
}

func versionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build and engine defaults",
		Long: `Print the CLI build, the Go toolchain it was built with, and the
engine defaults a config file can override.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeVersion(cmd.OutOrStdout(), currentBuild(), short, asJSON)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
