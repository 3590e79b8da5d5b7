package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/service"
)

// AnalyzeCommand represents the analyze command
type AnalyzeCommand struct {
	g     *globalOptions
	out   outputOptions
	text  string
	title string
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand(g *globalOptions) *AnalyzeCommand {
	return &AnalyzeCommand{g: g}
}

// CreateCobraCommand creates the cobra command for analysis
func (c *AnalyzeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Submit text for analysis and render the results",
		Long: `Submit text to the backend and render sentiment, readability, key phrases,
entities, language, category and summary.

Input comes from --text, from files and glob patterns, or from stdin.
Supported files: .txt, .md, .pdf, .docx, .odt, .rtf, .html.

Examples:
  textscope analyze --text "Machine learning is changing everything."
  textscope analyze report.pdf notes/**/*.md
  cat essay.txt | textscope analyze --title Essay --html`,
		RunE: c.runAnalyze,
	}

	cmd.Flags().StringVar(&c.text, "text", "", "Text to analyze")
	cmd.Flags().StringVar(&c.title, "title", "", "Analysis title (default: file name, or \"Untitled Analysis\")")
	cmd.Flags().IntVar(&c.g.overrides.Parallel, config.FlagParallel, 0, "Number of files extracted in parallel")
	c.out.register(cmd, c.g, false, true)
	return cmd
}

func (c *AnalyzeCommand) runAnalyze(cmd *cobra.Command, args []string) error {
	if c.text != "" && len(args) > 0 {
		return domain.NewInvalidInputError("use either --text or files, not both", nil)
	}

	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	format, err := c.out.resolve(rt.cfg, domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML)
	if err != nil {
		return err
	}

	docs, err := c.collectInput(cmd, rt, args)
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

	trees := make([]domain.ViewTree, 0, len(docs))
	for _, doc := range docs {
		desc := "Analyzing"
		if doc.Title != "" {
			desc = fmt.Sprintf("Analyzing %s", doc.Title)
		}
		if err := rt.dispatch(ctx, desc, app.Submit{Text: doc.Text, Title: doc.Title}); err != nil {
			return err
		}
		trees = append(trees, rt.app.RenderResult(rt.app.View().CurrentAnalysis()))
	}

	return c.out.write(rt, format, func(w io.Writer) error {
		return writeTrees(w, rt.formatter, trees, format)
	})
}

// collectInput returns the documents to submit, in argument order.
func (c *AnalyzeCommand) collectInput(cmd *cobra.Command, rt *runtime, args []string) ([]*domain.Document, error) {
	if c.text != "" {
		return []*domain.Document{{Title: c.title, Text: c.text}}, nil
	}

	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, domain.NewInvalidInputError("failed to read stdin", err)
		}
		return []*domain.Document{{Title: c.title, Text: string(data)}}, nil
	}

	reader := service.NewDocumentReader()
	paths, err := reader.Collect(args)
	if err != nil {
		return nil, err
	}
	rt.logger.Debug("collected input files", "count", len(paths))

	var docs []*domain.Document
	rt.track(fmt.Sprintf("Extracting %d file(s)", len(paths)), func() error {
		docs, err = reader.ReadAll(commandContext(cmd), paths, rt.cfg.Input.Concurrency)
		return err
	})
	if err != nil {
		return nil, err
	}
	if c.title != "" && len(docs) == 1 {
		docs[0].Title = c.title
	}
	return docs, nil
}

// writeTrees writes one rendered result per document. Structured formats get
// a single tree or a list; HTML gets one page.
func writeTrees(w io.Writer, f *service.DashboardFormatter, trees []domain.ViewTree, format domain.OutputFormat) error {
	if len(trees) == 1 {
		return f.WriteView(w, trees[0], format)
	}
	switch format {
	case domain.OutputFormatJSON:
		return service.WriteJSON(w, trees)
	case domain.OutputFormatYAML:
		return service.WriteYAML(w, trees)
	case domain.OutputFormatHTML:
		return f.WriteView(w, mergeTrees(trees), format)
	}
	for _, tree := range trees {
		if err := f.WriteView(w, tree, format); err != nil {
			return err
		}
	}
	return nil
}

func mergeTrees(trees []domain.ViewTree) domain.ViewTree {
	merged := domain.ViewTree{Screen: domain.ScreenDashboard, Title: "Analysis Results"}
	for _, tree := range trees {
		for _, section := range tree.Sections {
			section.Title = strings.TrimSpace(tree.Title + ": " + section.Title)
			merged.Sections = append(merged.Sections, section)
		}
	}
	return merged
}

// NewAnalyzeCmd creates and returns the analyze cobra command
func NewAnalyzeCmd(g *globalOptions) *cobra.Command {
	return NewAnalyzeCommand(g).CreateCobraCommand()
}
