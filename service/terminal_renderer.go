package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ludo-technologies/textscope/domain"
)

const (
	defaultTerminalWidth = 80
	gaugeWidth           = 30
)

var (
	screenTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	sectionTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true).Underline(true)
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	detailStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	primaryStyle      = lipgloss.NewStyle().Bold(true)
	sectionBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

// TerminalRenderer draws a ViewTree as styled terminal text.
type TerminalRenderer struct {
	width int
	plain bool
}

// NewTerminalRenderer creates a renderer wrapping text at width columns.
// When plain is set no colors or borders are emitted.
func NewTerminalRenderer(width int, plain bool) *TerminalRenderer {
	if width <= 0 {
		width = defaultTerminalWidth
	}
	return &TerminalRenderer{width: width, plain: plain}
}

// Render writes the tree to w.
func (r *TerminalRenderer) Render(w io.Writer, tree domain.ViewTree) error {
	var blocks []string
	if tree.Title != "" {
		blocks = append(blocks, r.style(screenTitleStyle, tree.Title))
	}
	for _, section := range tree.Sections {
		blocks = append(blocks, r.renderSection(section))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	if _, err := fmt.Fprintln(w, out); err != nil {
		return domain.NewOutputError("failed to write terminal output", err)
	}
	return nil
}

func (r *TerminalRenderer) renderSection(section domain.Section) string {
	lines := []string{r.style(sectionTitleStyle, section.Title)}
	for _, block := range section.Blocks {
		if rendered := r.renderBlock(block); rendered != "" {
			lines = append(lines, rendered)
		}
	}
	body := strings.Join(lines, "\n")
	if r.plain {
		return body + "\n"
	}
	return sectionBoxStyle.Width(r.width - 2).Render(body)
}

func (r *TerminalRenderer) renderBlock(b domain.Block) string {
	switch b.Kind {
	case domain.BlockGauge, domain.BlockBar:
		line := fmt.Sprintf("%s %s %s", r.label(b.Label), r.bar(b.Percent, b.Color), r.colored(b.Color, b.Value))
		return r.withDetail(line, b.Detail)
	case domain.BlockBadge:
		return r.withDetail(fmt.Sprintf("%s %s", r.label(b.Label), r.colored(b.Color, "["+b.Value+"]")), b.Detail)
	case domain.BlockKeyValue:
		var lines []string
		if b.Label != "" {
			lines = append(lines, r.label(b.Label))
		}
		for _, it := range b.Items {
			line := fmt.Sprintf("  %s: %s", it.Label, r.colored(it.Color, it.Value))
			if it.Detail != "" {
				line += " " + r.style(detailStyle, "("+it.Detail+")")
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	case domain.BlockTags:
		tags := make([]string, 0, len(b.Items))
		for _, it := range b.Items {
			tag := it.Label
			if it.Value != "" {
				tag += " " + it.Value
			}
			tags = append(tags, r.colored(it.Color, "#"+tag))
		}
		line := strings.Join(tags, "  ")
		if b.Label != "" {
			line = r.label(b.Label) + " " + line
		}
		return r.wrap(line)
	case domain.BlockList:
		var lines []string
		if b.Label != "" {
			lines = append(lines, r.label(b.Label))
		}
		for _, it := range b.Items {
			text := it.Label
			if it.Value != "" {
				text += ": " + it.Value
			}
			if it.Primary {
				text = r.style(primaryStyle, text+" *")
			}
			lines = append(lines, r.wrap("  • "+r.colored(it.Color, text)))
			if it.Detail != "" {
				lines = append(lines, r.wrap("    "+r.style(detailStyle, it.Detail)))
			}
		}
		return strings.Join(lines, "\n")
	case domain.BlockTable:
		if b.Table == nil {
			return ""
		}
		table := NewFormatUtils().FormatTable(b.Table.Columns, b.Table.Rows)
		return strings.TrimRight(table, "\n")
	case domain.BlockText:
		text := b.Value
		if b.Label != "" {
			text = r.label(b.Label) + " " + text
		}
		return r.withDetail(r.wrap(text), b.Detail)
	default:
		return ""
	}
}

func (r *TerminalRenderer) bar(percent float64, color string) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * gaugeWidth)
	return r.colored(color, strings.Repeat("█", filled)) + strings.Repeat("░", gaugeWidth-filled)
}

func (r *TerminalRenderer) label(text string) string {
	if text == "" {
		return ""
	}
	return r.style(labelStyle, text+":")
}

func (r *TerminalRenderer) withDetail(line, detail string) string {
	if detail == "" {
		return line
	}
	return line + "\n" + r.wrap("  "+r.style(detailStyle, detail))
}

func (r *TerminalRenderer) colored(color, text string) string {
	if r.plain || color == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func (r *TerminalRenderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *TerminalRenderer) wrap(text string) string {
	return wordwrap.String(text, r.width-4)
}
