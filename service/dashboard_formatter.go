package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/internal/format"
)

// DashboardFormatter writes views, history listings and exports in the
// supported output formats.
type DashboardFormatter struct {
	terminal *TerminalRenderer
	html     *HTMLRenderer
	utils    *FormatUtils
}

// NewDashboardFormatter creates a formatter drawing text output at the given
// width. plain disables terminal styling.
func NewDashboardFormatter(width int, plain bool) *DashboardFormatter {
	return &DashboardFormatter{
		terminal: NewTerminalRenderer(width, plain),
		html:     NewHTMLRenderer(),
		utils:    NewFormatUtils(),
	}
}

// WriteView writes a rendered screen.
func (f *DashboardFormatter) WriteView(w io.Writer, tree domain.ViewTree, outputFormat domain.OutputFormat) error {
	switch outputFormat {
	case domain.OutputFormatText, "":
		return f.terminal.Render(w, tree)
	case domain.OutputFormatJSON:
		return WriteJSON(w, tree)
	case domain.OutputFormatYAML:
		return WriteYAML(w, tree)
	case domain.OutputFormatHTML:
		return f.html.Render(w, tree)
	default:
		return domain.NewUnsupportedFormatError(string(outputFormat))
	}
}

var historyColumns = []string{"ID", "Title", "Created", "Sentiment", "Polarity", "Flesch", "Difficulty", "Words", "Category"}

// WriteHistory writes the analysis history listing, newest first as given.
func (f *DashboardFormatter) WriteHistory(w io.Writer, entries []domain.AnalysisHistoryEntry, outputFormat domain.OutputFormat) error {
	switch outputFormat {
	case domain.OutputFormatText, "":
		return f.writeHistoryText(w, entries)
	case domain.OutputFormatJSON:
		return WriteJSON(w, entries)
	case domain.OutputFormatYAML:
		return WriteYAML(w, entries)
	case domain.OutputFormatCSV:
		return writeHistoryCSV(w, entries)
	default:
		return domain.NewUnsupportedFormatError(string(outputFormat))
	}
}

func (f *DashboardFormatter) writeHistoryText(w io.Writer, entries []domain.AnalysisHistoryEntry) error {
	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Analysis History"))
	if len(entries) == 0 {
		b.WriteString("No analyses yet. Submit some text to get started.\n")
	} else {
		b.WriteString(f.utils.FormatTable(historyColumns, historyRows(entries, true)))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return domain.NewOutputError("failed to write history", err)
	}
	return nil
}

func writeHistoryCSV(w io.Writer, entries []domain.AnalysisHistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyColumns); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	if err := cw.WriteAll(historyRows(entries, false)); err != nil {
		return domain.NewOutputError("failed to write CSV rows", err)
	}
	return nil
}

func historyRows(entries []domain.AnalysisHistoryEntry, truncate bool) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		title := e.Title
		created := e.CreatedAt.Format("2006-01-02T15:04:05")
		if truncate {
			title = format.Truncate(title, 40)
			created = format.Date(e.CreatedAt.Time)
		}
		if e.CreatedAt.IsZero() {
			created = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(e.ID),
			title,
			created,
			format.Capitalize(e.Sentiment),
			format.Score(e.Polarity, 2),
			format.Score(e.FleschScore, 1),
			e.DifficultyLevel,
			strconv.Itoa(e.WordCount),
			e.ContentCategory,
		})
	}
	return rows
}

// WriteExport writes the dashboard export document. Only structured formats
// are supported.
func (f *DashboardFormatter) WriteExport(w io.Writer, export domain.DashboardExport, outputFormat domain.OutputFormat) error {
	switch outputFormat {
	case domain.OutputFormatJSON, domain.OutputFormatText, "":
		return WriteJSON(w, export)
	case domain.OutputFormatYAML:
		return WriteYAML(w, export)
	default:
		return domain.NewUnsupportedFormatError(string(outputFormat))
	}
}

// ProfileView is what whoami prints.
type ProfileView struct {
	User      *domain.UserProfile `json:"user" yaml:"user"`
	BaseURL   string              `json:"base_url" yaml:"base_url"`
	ExpiresAt string              `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
}

// WriteProfile writes the signed-in user.
func (f *DashboardFormatter) WriteProfile(w io.Writer, view ProfileView, outputFormat domain.OutputFormat) error {
	switch outputFormat {
	case domain.OutputFormatJSON:
		return WriteJSON(w, view)
	case domain.OutputFormatYAML:
		return WriteYAML(w, view)
	case domain.OutputFormatText, "":
	default:
		return domain.NewUnsupportedFormatError(string(outputFormat))
	}

	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Signed In"))
	if view.User != nil {
		b.WriteString(f.utils.FormatLabelWithIndent(0, "Username", view.User.Username))
		b.WriteString(f.utils.FormatLabelWithIndent(0, "Email", view.User.Email))
		b.WriteString(f.utils.FormatLabelWithIndent(0, "Active", view.User.IsActive))
		b.WriteString(f.utils.FormatLabelWithIndent(0, "Member since", format.Date(view.User.CreatedAt.Time)))
	}
	b.WriteString(f.utils.FormatLabelWithIndent(0, "Backend", view.BaseURL))
	if view.ExpiresAt != "" {
		b.WriteString(f.utils.FormatLabelWithIndent(0, "Token expires", view.ExpiresAt))
	}
	if _, err := fmt.Fprint(w, b.String()); err != nil {
		return domain.NewOutputError("failed to write profile", err)
	}
	return nil
}
