package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/service"
)

// PhrasesCommand represents the phrases command
type PhrasesCommand struct {
	g        *globalOptions
	out      outputOptions
	sortKey  string
	category string
	copyText bool
	download bool
}

// NewPhrasesCmd creates and returns the phrases cobra command
func NewPhrasesCmd(g *globalOptions) *cobra.Command {
	c := &PhrasesCommand{g: g}
	keys := make([]string, len(domain.SortKeys))
	for i, k := range domain.SortKeys {
		keys[i] = string(k)
	}
	cmd := &cobra.Command{
		Use:   "phrases ID",
		Short: "Show, sort, filter and export the key phrases of an analysis",
		Long: `Show the key-phrase table of an analysis.

--sort and --category shape the table. CSV and JSON exports always contain
every phrase in backend order.

Examples:
  textscope phrases 42 --sort frequency --category technology
  textscope phrases 42 --csv --download
  textscope phrases 42 --copy | pbcopy`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	cmd.Flags().StringVar(&c.sortKey, "sort", string(domain.SortByRelevance), "Sort key: "+strings.Join(keys, ", "))
	cmd.Flags().StringVar(&c.category, "category", "", "Only show phrases in this category")
	cmd.Flags().BoolVar(&c.copyText, "copy", false, "Print the phrases as numbered plain-text lines")
	cmd.Flags().BoolVar(&c.download, "download", false, "Write "+app.KeyPhraseCSVFileName+" or "+app.KeyPhraseJSONFileName+" to the current directory")
	c.out.register(cmd, g, true, false)
	return cmd
}

func (c *PhrasesCommand) run(cmd *cobra.Command, args []string) error {
	id, err := parseAnalysisID(args[0])
	if err != nil {
		return err
	}
	key, err := domain.ParseSortKey(c.sortKey)
	if err != nil {
		return err
	}
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	format, err := c.out.resolve(rt.cfg, domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := openAnalysis(ctx, rt, id); err != nil {
		return err
	}
	if err := rt.dispatch(ctx, "", app.SortPhrases{Key: key}); err != nil {
		return err
	}
	if err := rt.dispatch(ctx, "", app.FilterPhrases{Category: c.category}); err != nil {
		return err
	}

	if c.download && c.out.output == "" {
		switch format {
		case domain.OutputFormatCSV:
			c.out.output = app.KeyPhraseCSVFileName
		case domain.OutputFormatJSON:
			c.out.output = app.KeyPhraseJSONFileName
		default:
			return domain.NewInvalidInputError("--download requires --csv or --json", nil)
		}
	}

	table := rt.app.KeyPhrases()
	tree := rt.app.ViewTree()
	return c.out.write(rt, format, func(w io.Writer) error {
		switch {
		case c.copyText:
			_, err := io.WriteString(w, table.Text())
			return err
		case format == domain.OutputFormatCSV:
			return table.WriteCSV(w)
		case format == domain.OutputFormatJSON:
			return table.WriteJSON(w)
		case format == domain.OutputFormatYAML:
			return service.WriteYAML(w, table.Visible())
		}
		section := tree.Section(domain.SectionKeyPhrases)
		if section == nil {
			return domain.NewNotFoundError("key phrases are not shown; check --sections")
		}
		return rt.formatter.WriteView(w, domain.ViewTree{
			Screen:   tree.Screen,
			Title:    tree.Title,
			Sections: []domain.Section{*section},
		}, format)
	})
}

// ExportCommand represents the export command
type ExportCommand struct {
	g        *globalOptions
	out      outputOptions
	download bool
}

// NewExportCmd creates and returns the export cobra command
func NewExportCmd(g *globalOptions) *cobra.Command {
	c := &ExportCommand{g: g}
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export an analysis as a dashboard document",
		Long: `Export an analysis with a title and timestamp.

Examples:
  textscope export 42 > analysis.json
  textscope export 42 --download`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	cmd.Flags().BoolVar(&c.download, "download", false, "Write textscope-analysis-<timestamp>.json to the current directory")
	c.out.register(cmd, g, false, false)
	return cmd
}

func (c *ExportCommand) run(cmd *cobra.Command, args []string) error {
	id, err := parseAnalysisID(args[0])
	if err != nil {
		return err
	}
	rt, err := c.g.setup(cmd, nil)
	if err != nil {
		return err
	}
	format, err := c.out.resolve(rt.cfg, domain.OutputFormatJSON, domain.OutputFormatYAML)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := openAnalysis(ctx, rt, id); err != nil {
		return err
	}
	export, err := rt.app.ExportDashboard()
	if err != nil {
		return err
	}
	if c.download && c.out.output == "" {
		c.out.output = app.ExportFileName(export.Timestamp)
	}
	return c.out.write(rt, format, func(w io.Writer) error {
		return rt.formatter.WriteExport(w, *export, format)
	})
}
