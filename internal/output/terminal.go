package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ogsc/liveview/internal/view"
)

const clearScreen = "\033[H\033[2J"

// Terminal prints documents as a table.
type Terminal struct {
	w      io.Writer
	locale view.Locale
	clear  bool

	mu     sync.Mutex
	styles styles
}

type styles struct {
	header   lipgloss.Style
	cell     lipgloss.Style
	missing  lipgloss.Style
	critical lipgloss.Style
	warning  lipgloss.Style
	ok       lipgloss.Style
	link     lipgloss.Style
	notice   lipgloss.Style
	border   lipgloss.Style
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithClearScreen clears the terminal before each document.
func WithClearScreen(clear bool) TerminalOption {
	return func(t *Terminal) {
		t.clear = clear
	}
}

// WithTerminalLocale sets the language of the column headers.
func WithTerminalLocale(l view.Locale) TerminalOption {
	return func(t *Terminal) {
		t.locale = l
	}
}

// NewTerminal creates a terminal sink writing to w. Colours are used only
// when w is a terminal that supports them.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w:      w,
		locale: view.NewLocale(""),
	}
	for _, opt := range opts {
		opt(t)
	}

	r := lipgloss.NewRenderer(w)
	t.styles = styles{
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1),
		cell:     r.NewStyle().Padding(0, 1),
		missing:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244")),
		critical: r.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#dc2626")),
		warning:  r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#d97706")),
		ok:       r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#16a34a")),
		link:     r.NewStyle().Padding(0, 1).Underline(true).Foreground(lipgloss.Color("62")),
		notice:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		border:   r.NewStyle().Foreground(lipgloss.Color("238")),
	}

	return t
}

// Publish implements session.Sink.
func (t *Terminal) Publish(doc view.Document) error {
	out := t.Render(doc)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.clear {
		if _, err := io.WriteString(t.w, clearScreen); err != nil {
			return fmt.Errorf("clear terminal: %w", err)
		}
	}
	if _, err := io.WriteString(t.w, out+"\n"); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}

// Render returns the document as text.
func (t *Terminal) Render(doc view.Document) string {
	var b strings.Builder

	if doc.Table.Visible {
		b.WriteString(t.table(doc.Table.Rows))
	}
	if doc.NoData != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t.styles.notice.Render(
			fmt.Sprintf("%s %s (%s)", doc.NoData.Text, doc.NoData.LinkText, doc.NoData.LinkHref)))
	}

	return b.String()
}

func (t *Terminal) table(rows []view.Row) string {
	data := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = cellText(c)
		}
		data[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.styles.border).
		Headers(t.locale.Headers()...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.header
			}
			if row < 0 || row >= len(rows) || col >= len(rows[row].Cells) {
				return t.styles.cell
			}
			return t.cellStyle(rows[row].Cells[col])
		})

	return tbl.String()
}

func (t *Terminal) cellStyle(c view.Cell) lipgloss.Style {
	switch {
	case c.HasClass(view.ClassNoData):
		return t.styles.missing
	case c.HasClass(view.ClassDaysCritical):
		return t.styles.critical
	case c.HasClass(view.ClassDaysWarning):
		return t.styles.warning
	case c.HasClass(view.ClassDaysOK):
		return t.styles.ok
	case c.Inline != nil && c.Inline.Href != "":
		return t.styles.link
	default:
		return t.styles.cell
	}
}

// cellText flattens a cell for the console. Links show their target and
// tooltips follow the value.
func cellText(c view.Cell) string {
	if c.Inline == nil {
		return c.Text
	}
	switch {
	case c.Inline.Href != "":
		return c.Inline.Href
	case c.Inline.Title != "":
		return c.Inline.Text + " (" + c.Inline.Title + ")"
	default:
		return c.Inline.Text
	}
}
