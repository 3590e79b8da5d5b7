package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/internal/version"
	"github.com/ludo-technologies/textscope/mcp"
)

const serverName = "textscope"

func main() {
	configPath := flag.String(config.FlagConfig, "", "Configuration file path")
	envFile := flag.String(config.FlagEnvFile, ".env", "Dotenv file read before the environment")
	flag.Parse()

	cfg, err := config.LoadConfigWithEnvFile(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries JSON-RPC; logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	deps, err := mcp.NewDependencies(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup error: %v\n", err)
		os.Exit(1)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)
	mcp.RegisterTools(server, mcp.NewHandlerSet(deps))

	logger.Info("starting MCP server",
		"name", serverName,
		"version", version.Short(),
		"backend", cfg.API.BaseURL,
		"tools", []string{"analyze_text", "list_analyses", "get_analysis", "delete_analysis", "key_phrases"},
	)

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
