package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/service"
)

// globalOptions are the persistent flags shared by every command. Commands
// bind their own override flags into the same Overrides value.
type globalOptions struct {
	configPath string
	envFile    string
	overrides  config.Overrides
}

// runtime is everything a command needs once configuration is loaded.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    *service.APIClient
	app       *app.Application
	formatter *service.DashboardFormatter
	writer    *service.FileOutputWriter
	spinner   *service.Spinner
	stdout    io.Writer
	stderr    io.Writer
}

// loadConfig reads configuration and applies the flags set on cmd.
func (g *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvFile(g.configPath, g.envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(g.overrides, config.NewFlagTrackerFromFlagSet(cmd.Flags())); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads configuration and wires the application. confirmer may be nil
// for commands that never delete.
func (g *globalOptions) setup(cmd *cobra.Command, confirmer domain.Confirmer) (*runtime, error) {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))

	store, err := service.NewFileTokenStore(cfg.Session.StateDir)
	if err != nil {
		return nil, err
	}
	client, err := service.NewAPIClient(cfg.API.BaseURL,
		service.WithTimeout(cfg.Timeout()),
		service.WithAPILogger(logger.With("component", "api")),
	)
	if err != nil {
		return nil, err
	}

	application, err := app.NewApplicationBuilder().
		WithAuthAPI(client).
		WithAnalysisAPI(client).
		WithTokenStore(store).
		WithConfirmer(confirmer).
		WithLogger(logger).
		WithHistoryLimit(cfg.History.Limit).
		WithMounts(cfg.Mounts()).
		Build()
	if err != nil {
		return nil, domain.NewConfigError("failed to build application", err)
	}

	spinner := service.NewSpinner()
	spinner.SetWriter(cmd.ErrOrStderr())

	rt := &runtime{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		app:       application,
		formatter: service.NewDashboardFormatter(cfg.Output.Width, cfg.Output.Plain),
		writer:    service.NewFileOutputWriter(cmd.ErrOrStderr()),
		spinner:   spinner,
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
	}
	return rt, nil
}

// start restores the stored session and loads the first history page.
func (rt *runtime) start(ctx context.Context) error {
	var err error
	rt.track("Restoring session", func() error {
		err = rt.app.Start(ctx)
		return err
	})
	return err
}

// track runs fn with the spinner shown.
func (rt *runtime) track(description string, fn func() error) {
	rt.spinner.Start(description)
	err := fn()
	rt.spinner.Stop(err == nil)
}

// dispatch sends ev to the application, prints info notices and turns a
// failure into the notice the user should see. The spinner is shown unless
// description is empty.
func (rt *runtime) dispatch(ctx context.Context, description string, ev app.Event) error {
	var err error
	if description == "" {
		err = rt.app.Dispatch(ctx, ev)
	} else {
		rt.track(description, func() error {
			err = rt.app.Dispatch(ctx, ev)
			return err
		})
	}

	var failure string
	for _, n := range rt.app.Notices() {
		if n.Level == domain.NoticeError {
			failure = n.Message
			continue
		}
		fmt.Fprintln(rt.stderr, n.Message)
	}
	if err != nil && failure != "" {
		return &noticeError{message: failure, err: err}
	}
	return err
}

// requireSession fails unless a user is signed in.
func (rt *runtime) requireSession() error {
	if !rt.app.Session().Snapshot().Authenticated() {
		return &noticeError{
			message: "You are not logged in. Run `textscope login` first.",
			err:     domain.NewSessionExpiredError(nil),
		}
	}
	return nil
}

// noticeError carries the user-facing notice text of a failed event.
type noticeError struct {
	message string
	err     error
}

func (e *noticeError) Error() string { return e.message }

func (e *noticeError) Unwrap() error { return e.err }

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// lineReader returns a reader over the command input that can be shared by
// consecutive prompts.
func lineReader(cmd *cobra.Command) *bufio.Reader {
	return bufio.NewReader(cmd.InOrStdin())
}

// readSecret reads a password without echo from a terminal, or one line from
// in otherwise.
func readSecret(cmd *cobra.Command, in *bufio.Reader, prompt string, fromStdin bool) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		return service.ReadPassword(f, cmd.ErrOrStderr(), prompt)
	}
	if !fromStdin {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
	}
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", domain.NewInvalidInputError("failed to read password", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
