package mcp

import (
	"log/slog"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/internal/config"
)

func NewTestDependencies(application *app.Application, cfg *config.Config) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{
		app:    application,
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
	}
}
