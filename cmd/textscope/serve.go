package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/internal/dashboard"
	"github.com/ludo-technologies/textscope/service"
)

const browserOpenDelay = 300 * time.Millisecond

// ServeCommand represents the serve command
type ServeCommand struct {
	g *globalOptions
}

// NewServeCmd creates and returns the serve cobra command
func NewServeCmd(g *globalOptions) *cobra.Command {
	c := &ServeCommand{g: g}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard in a local browser",
		Long: `Serve the interactive dashboard on a local address.

The page drives the same screens as the terminal client: login, registration,
text submission, history, sorting and filtering key phrases, and export.
Deleting from the page asks for confirmation in the browser.

Examples:
  textscope serve
  textscope serve --addr 127.0.0.1:9000 --no-open`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	cmd.Flags().StringVar(&g.overrides.Addr, config.FlagAddr, "", "Listen address (default "+domain.DefaultDashboardAddr+")")
	cmd.Flags().BoolVar(&g.overrides.NoOpen, config.FlagNoOpen, false, "Don't open the dashboard in a browser")
	return cmd
}

func (c *ServeCommand) run(cmd *cobra.Command, args []string) error {
	// The browser page asks before posting a delete.
	approve := domain.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	rt, err := c.g.setup(cmd, approve)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.start(ctx); err != nil {
		// An unreachable backend still leaves the login screen usable.
		rt.logger.Warn("session restore failed", "error", err)
	}

	server := dashboard.NewServer(rt.app, dashboard.Options{
		Addr:           rt.cfg.Dashboard.Addr,
		AllowedOrigins: rt.cfg.Dashboard.AllowedOrigins,
		Logger:         rt.logger.With("component", "dashboard"),
	})

	url := "http://" + server.Addr()
	fmt.Fprintf(rt.stderr, "Dashboard running at %s (Ctrl+C to stop)\n", url)
	if !rt.cfg.Output.NoOpen && service.IsInteractiveEnvironment() {
		timer := time.AfterFunc(browserOpenDelay, func() {
			if err := service.OpenBrowser(url); err != nil {
				rt.logger.Warn("could not open browser", "error", err)
			}
		})
		defer timer.Stop()
	}

	return server.Run(ctx)
}
