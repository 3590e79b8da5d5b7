package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/internal/version"
	"github.com/ludo-technologies/textscope/service"
)

// VersionCommand represents the version command
type VersionCommand struct {
	global *globalOptions
	short  bool
	json   bool
}

// NewVersionCommand creates a new version command
func NewVersionCommand(g *globalOptions) *VersionCommand {
	return &VersionCommand{global: g}
}

// CreateCobraCommand creates the cobra command for version display
func (v *VersionCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the client version, the configured backend, build commit,
build date, Go version and platform.

Examples:
  textscope version
  textscope version --short
  textscope version --json`,
		Args: cobra.NoArgs,
		RunE: v.runVersion,
	}
	cmd.Flags().BoolVarP(&v.short, "short", "s", false, "Show only version number")
	cmd.Flags().BoolVar(&v.json, "json", false, "Print build metadata as JSON")
	return cmd
}

func (v *VersionCommand) runVersion(cmd *cobra.Command, args []string) error {
	if v.short {
		fmt.Fprintln(cmd.OutOrStdout(), version.Short())
		return nil
	}

	// A broken config file must not hide the version.
	backend := ""
	if cfg, err := v.global.loadConfig(cmd); err == nil {
		backend = cfg.API.BaseURL
	}

	if v.json {
		return service.WriteJSON(cmd.OutOrStdout(), version.Current(backend))
	}
	fmt.Fprintln(cmd.OutOrStdout(), version.Info(backend))
	return nil
}

// NewVersionCmd creates and returns the version cobra command
func NewVersionCmd(g *globalOptions) *cobra.Command {
	return NewVersionCommand(g).CreateCobraCommand()
}
