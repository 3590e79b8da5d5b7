package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/internal/config"
)

// InitCommand represents the init command
type InitCommand struct {
	force bool
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a textscope configuration file",
		Long: `Create a commented ` + config.ConfigFileName + ` with every setting at its default.

The generated file covers:
• Backend URL and request timeout
• Token storage directory
• Output format, width and rendered sections
• History paging and file extraction
• Dashboard address and logging

Examples:
  textscope init
  textscope init textscope.toml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: i.runInit,
	}
	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefaultConfig(path, i.force); err != nil {
		return err
	}

	relPath := path
	if abs, err := filepath.Abs(path); err == nil {
		if rel, err := filepath.Rel(".", abs); err == nil {
			relPath = rel
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Configuration file created: %s\n", relPath)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  1. Set api.base_url in %s\n", relPath)
	fmt.Fprintf(out, "  2. Run 'textscope login'\n")
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
