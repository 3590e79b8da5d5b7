package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/config"
	"github.com/ludo-technologies/textscope/service"
)

// outputOptions are the format switches shared by rendering commands.
type outputOptions struct {
	html   bool
	json   bool
	yaml   bool
	csv    bool
	output string
	noOpen bool
}

// register adds the format flags. --csv is only added where a command has a
// tabular output.
func (o *outputOptions) register(cmd *cobra.Command, g *globalOptions, withCSV, withHTML bool) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&o.yaml, "yaml", false, "Output YAML")
	if withCSV {
		cmd.Flags().BoolVar(&o.csv, "csv", false, "Output CSV")
	}
	if withHTML {
		cmd.Flags().BoolVar(&o.html, "html", false, "Output an HTML dashboard")
		cmd.Flags().BoolVar(&g.overrides.NoOpen, config.FlagNoOpen, false, "Don't auto-open HTML in browser")
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write output to a file instead of stdout")
}

// resolve picks the output format. The configured format applies when no
// flag is given.
func (o *outputOptions) resolve(cfg *config.Config, allowed ...domain.OutputFormat) (domain.OutputFormat, error) {
	fallback := domain.OutputFormat(cfg.Output.Format)
	if len(allowed) > 0 && !containsFormat(allowed, fallback) {
		fallback = allowed[0]
	}
	format, _, err := service.NewOutputFormatResolver(fallback).Determine(service.OutputFormatFlags{
		HTML: o.html,
		JSON: o.json,
		CSV:  o.csv,
		YAML: o.yaml,
	}, allowed...)
	return format, err
}

// write sends the output to stdout or the -o file. HTML written to a file is
// opened in a browser unless disabled.
func (o *outputOptions) write(rt *runtime, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	return rt.writer.Write(rt.stdout, o.output, format, rt.cfg.Output.NoOpen, writeFunc)
}

func containsFormat(formats []domain.OutputFormat, f domain.OutputFormat) bool {
	for _, candidate := range formats {
		if candidate == f {
			return true
		}
	}
	return false
}
