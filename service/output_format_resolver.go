package service

import (
	"github.com/ludo-technologies/textscope/domain"
)

// OutputFormatFlags are the mutually exclusive format switches of a command.
type OutputFormatFlags struct {
	HTML bool
	JSON bool
	CSV  bool
	YAML bool
}

// OutputFormatResolver resolves output format and file extension from flags.
type OutputFormatResolver struct {
	// fallback is used when no flag is set (normally text, or a configured default).
	fallback domain.OutputFormat
}

// NewOutputFormatResolver creates a resolver with the given default format.
func NewOutputFormatResolver(fallback domain.OutputFormat) *OutputFormatResolver {
	if fallback == "" {
		fallback = domain.OutputFormatText
	}
	return &OutputFormatResolver{fallback: fallback}
}

// Determine evaluates format flags and returns the selected format and file
// extension. At most one flag may be set; allowed limits which formats the
// command supports (nil allows all).
func (r *OutputFormatResolver) Determine(flags OutputFormatFlags, allowed ...domain.OutputFormat) (domain.OutputFormat, string, error) {
	selected := make([]domain.OutputFormat, 0, 1)
	if flags.HTML {
		selected = append(selected, domain.OutputFormatHTML)
	}
	if flags.JSON {
		selected = append(selected, domain.OutputFormatJSON)
	}
	if flags.CSV {
		selected = append(selected, domain.OutputFormatCSV)
	}
	if flags.YAML {
		selected = append(selected, domain.OutputFormatYAML)
	}

	var format domain.OutputFormat
	switch len(selected) {
	case 0:
		format = r.fallback
	case 1:
		format = selected[0]
	default:
		return "", "", domain.NewInvalidInputError("only one output format flag can be specified", nil)
	}

	if len(allowed) > 0 && !containsFormat(allowed, format) {
		return "", "", domain.NewUnsupportedFormatError(string(format))
	}
	return format, ExtensionFor(format), nil
}

// ExtensionFor returns the file extension of a format ("txt" for text).
func ExtensionFor(format domain.OutputFormat) string {
	if format == domain.OutputFormatText {
		return "txt"
	}
	return string(format)
}

func containsFormat(formats []domain.OutputFormat, f domain.OutputFormat) bool {
	for _, candidate := range formats {
		if candidate == f {
			return true
		}
	}
	return false
}
