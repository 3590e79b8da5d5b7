package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/service"
)

// HistoryCommand represents the history command
type HistoryCommand struct {
	g    *globalOptions
	out  outputOptions
	skip int
}

// NewHistoryCmd creates and returns the history cobra command
func NewHistoryCmd(g *globalOptions) *cobra.Command {
	c := &HistoryCommand{g: g}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous analyses, newest first",
		Long: `List previous analyses, newest first.

Examples:
  textscope history
  textscope history --skip 10 --limit 10
  textscope history --csv -o history.csv`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	cmd.Flags().IntVar(&c.skip, "skip", 0, "Number of analyses to skip")
	cmd.Flags().IntVar(&g.overrides.Limit, config.FlagLimit, 0, fmt.Sprintf("Maximum analyses to list (1-%d)", domain.MaxHistoryLimit))
	c.out.register(cmd, g, true, false)
	return cmd
}

func (c *HistoryCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	format, err := c.out.resolve(rt.cfg, domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := rt.start(ctx); err != nil {
		return err
	}
	if err := rt.requireSession(); err != nil {
		return err
	}

	entries := rt.app.Analyses().History()
	if c.skip > 0 {
		rt.track("Loading history", func() error {
			entries, err = rt.app.Analyses().ListPage(ctx, domain.ListOptions{Skip: c.skip, Limit: rt.cfg.History.Limit})
			return err
		})
		if err != nil {
			return err
		}
	}

	return c.out.write(rt, format, func(w io.Writer) error {
		return rt.formatter.WriteHistory(w, entries, format)
	})
}

// ShowCommand represents the show command
type ShowCommand struct {
	g   *globalOptions
	out outputOptions
}

// NewShowCmd creates and returns the show cobra command
func NewShowCmd(g *globalOptions) *cobra.Command {
	c := &ShowCommand{g: g}
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Render a previous analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.out.register(cmd, g, false, true)
	return cmd
}

func (c *ShowCommand) run(cmd *cobra.Command, args []string) error {
	id, err := parseAnalysisID(args[0])
	if err != nil {
		return err
	}
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	format, err := c.out.resolve(rt.cfg, domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := openAnalysis(ctx, rt, id); err != nil {
		return err
	}
	tree := rt.app.RenderResult(rt.app.View().CurrentAnalysis())
	return c.out.write(rt, format, func(w io.Writer) error {
		return rt.formatter.WriteView(w, tree, format)
	})
}

// DeleteCommand represents the delete command
type DeleteCommand struct {
	g         *globalOptions
	assumeYes bool
}

// NewDeleteCmd creates and returns the delete cobra command
func NewDeleteCmd(g *globalOptions) *cobra.Command {
	c := &DeleteCommand{g: g}
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a previous analysis",
		Long: `Delete a previous analysis after confirmation.

Examples:
  textscope delete 42
  textscope delete 42 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	cmd.Flags().BoolVarP(&c.assumeYes, config.FlagAssumeYes, "y", false, "Delete without asking")
	return cmd
}

func (c *DeleteCommand) run(cmd *cobra.Command, args []string) error {
	id, err := parseAnalysisID(args[0])
	if err != nil {
		return err
	}
	confirmer := service.NewTerminalConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), c.assumeYes)
	rt, err := c.g.setup(cmd, confirmer)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := rt.start(ctx); err != nil {
		return err
	}
	if err := rt.requireSession(); err != nil {
		return err
	}

	// The confirmation prompt must not be drawn under the spinner.
	err = rt.dispatch(ctx, "", app.DeleteAnalysis{ID: id})
	if domain.IsCode(err, domain.ErrCodeCancelled) {
		fmt.Fprintln(rt.stdout, "Deletion cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "Deleted analysis %d\n", id)
	return nil
}

// openAnalysis restores the session and displays analysis id.
func openAnalysis(ctx context.Context, rt *runtime, id int) error {
	if err := rt.start(ctx); err != nil {
		return err
	}
	if err := rt.requireSession(); err != nil {
		return err
	}
	return rt.dispatch(ctx, fmt.Sprintf("Loading analysis %d", id), app.OpenAnalysis{ID: id})
}

func parseAnalysisID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, domain.NewInvalidInputError(fmt.Sprintf("invalid analysis id: %q", arg), err)
	}
	return id, nil
}
