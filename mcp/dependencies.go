package mcp

import (
	"context"
	"log/slog"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	app    *app.Application
	config *config.Config
	logger *slog.Logger
}

// NewDependencies wires an application over the configured backend. The
// session is the one stored by `textscope login`. Deletion is gated by the
// tool's confirm argument, so the application confirmer always approves.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

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
		WithConfirmer(approveAll).
		WithLogger(logger).
		WithHistoryLimit(cfg.History.Limit).
		WithMounts(cfg.Mounts()).
		Build()
	if err != nil {
		return nil, domain.NewConfigError("failed to build application", err)
	}
	return &Dependencies{app: application, config: cfg, logger: logger}, nil
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// App returns the application the tools drive.
func (d *Dependencies) App() *app.Application {
	return d.app
}

var approveAll = domain.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
