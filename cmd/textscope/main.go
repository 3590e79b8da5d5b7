package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/internal/version"
	"github.com/ludo-technologies/textscope/service"
)

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "textscope",
		Short: "Terminal client for the TextScope text analytics service",
		Long: `textscope signs in to a TextScope backend, submits text for analysis
and renders the returned metrics in the terminal, as HTML, or as JSON/YAML.

Features:
  • Sentiment, readability, key phrases, entities, language, category and summary
  • Analysis history with open, export and delete
  • Sortable, filterable key-phrase table with CSV/JSON export
  • Local browser dashboard (textscope serve)`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, config.FlagConfig, "c", "", "Configuration file path (.textscope.toml)")
	pf.StringVar(&g.envFile, config.FlagEnvFile, ".env", "Dotenv file read before the environment")
	pf.StringVar(&g.overrides.APIURL, config.FlagAPIURL, "", "Backend base URL")
	pf.IntVar(&g.overrides.TimeoutSeconds, config.FlagTimeout, 0, "Per-request timeout in seconds (0 waits indefinitely)")
	pf.StringVar(&g.overrides.StateDir, config.FlagStateDir, "", "Directory holding the access token")
	pf.StringVar(&g.overrides.LogLevel, config.FlagLogLevel, "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&g.overrides.Verbose, config.FlagVerbose, "v", false, "Enable verbose output")
	pf.IntVar(&g.overrides.Width, config.FlagWidth, 0, "Terminal rendering width")
	pf.BoolVar(&g.overrides.Plain, config.FlagPlain, false, "Disable colors and borders")
	pf.StringSliceVar(&g.overrides.Sections, config.FlagSections, nil, "Result sections to render (default all)")

	rootCmd.AddCommand(NewLoginCmd(g))
	rootCmd.AddCommand(NewRegisterCmd(g))
	rootCmd.AddCommand(NewLogoutCmd(g))
	rootCmd.AddCommand(NewWhoamiCmd(g))
	rootCmd.AddCommand(NewAnalyzeCmd(g))
	rootCmd.AddCommand(NewHistoryCmd(g))
	rootCmd.AddCommand(NewShowCmd(g))
	rootCmd.AddCommand(NewDeleteCmd(g))
	rootCmd.AddCommand(NewPhrasesCmd(g))
	rootCmd.AddCommand(NewExportCmd(g))
	rootCmd.AddCommand(NewServeCmd(g))
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd(g))

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports err with its category and recovery suggestions.
func printError(w io.Writer, err error) {
	categorized := service.NewErrorCategorizer().Categorize(err)
	if categorized == nil {
		return
	}

	message := categorized.Message
	var ne *noticeError
	if errors.As(err, &ne) {
		message = ne.message
	}
	fmt.Fprintf(w, "Error: %s\n", message)

	if categorized.Category == domain.ErrorCategoryUnknown {
		return
	}
	fmt.Fprintf(w, "\n%s. Suggestions:\n", categorized.Category)
	for _, s := range service.NewErrorCategorizer().GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}
