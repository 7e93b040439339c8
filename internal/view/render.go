package view

import (
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/cases"

	"github.com/ogsc/liveview/internal/snapshot"
)

// Default link targets on the dashboard.
const (
	DefaultAddHref       = "/add"
	DefaultHistoryPrefix = "/history/"
)

// Renderer converts snapshot batches into a Document.
// It holds configuration only; all state lives in the Document.
type Renderer struct {
	loc           *time.Location
	locale        Locale
	addHref       string
	historyPrefix string
	logger        *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLocation sets the time zone used for the last-check column.
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) {
		r.loc = loc
	}
}

// WithLocale sets the language of labels and month names.
func WithLocale(l Locale) RendererOption {
	return func(r *Renderer) {
		r.locale = l
	}
}

// WithLinks sets the add-project link and the history link prefix.
func WithLinks(addHref, historyPrefix string) RendererOption {
	return func(r *Renderer) {
		r.addHref = addHref
		r.historyPrefix = historyPrefix
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer creates a Renderer. Defaults: local time, English, dashboard links.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		loc:           time.Local,
		locale:        NewLocale(""),
		addHref:       DefaultAddHref,
		historyPrefix: DefaultHistoryPrefix,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Locale returns the language used for labels.
func (r *Renderer) Locale() Locale {
	return r.locale
}

// Render replaces the content of doc with batch. An empty or nil batch hides
// the table and shows a single notice instead.
func (r *Renderer) Render(doc *Document, batch snapshot.Batch) {
	if len(batch) == 0 {
		doc.Table.Rows = nil
		doc.Table.Visible = false
		doc.NoData = &Notice{
			Text:     r.locale.T(msgNoProjects),
			LinkText: r.locale.T(msgAddOne),
			LinkHref: r.addHref,
		}
		return
	}

	doc.NoData = nil
	doc.Table.Visible = true

	rows := make([]Row, 0, len(batch))
	for _, p := range batch {
		rows = append(rows, r.Row(p))
	}
	doc.Table.Rows = rows
}

// Row renders one project.
func (r *Renderer) Row(p snapshot.ProjectStatus) Row {
	cells := make([]Cell, 0, len(Columns))

	cells = append(cells, plainCell(ColumnName, p.ProjectName))

	if addr, ok := p.Address(); ok {
		cells = append(cells, Cell{Column: ColumnAddress, Text: addr})
	} else {
		cells = append(cells, Cell{Column: ColumnAddress, Text: Placeholder})
	}

	if typ, ok := snapshot.Value(p.Type); ok {
		cells = append(cells, Cell{Column: ColumnType, Text: cases.Upper(r.locale.Tag()).String(typ)})
	} else {
		cells = append(cells, Cell{Column: ColumnType, Text: Placeholder})
	}

	cells = append(cells, r.checkTimeCell(p.CheckTime))
	cells = append(cells,
		optionalCell(ColumnDomains, p.Domains),
		optionalCell(ColumnIP, p.IP),
		optionalCell(ColumnIssuer, p.Issuer),
		optionalCell(ColumnExpiryDate, p.ExpiryDate),
	)
	cells = append(cells, r.daysCell(p.DaysRemaining))
	cells = append(cells, Cell{
		Column: ColumnActions,
		Inline: &Inline{
			Text:    r.locale.T(msgHistory),
			Classes: []string{ClassActionLink, ClassLinkDetails},
			Href:    r.historyPrefix + url.PathEscape(p.ProjectID),
		},
	})

	return Row{ProjectID: p.ProjectID, Cells: cells}
}

func (r *Renderer) checkTimeCell(raw *string) Cell {
	s, ok := snapshot.Value(raw)
	if !ok {
		return missingCell(ColumnLastCheck)
	}

	text, err := FormatCheckTime(s, r.loc, r.locale)
	if err != nil {
		r.logger.Debug("keeping raw check time", "check_time", s, "error", err)
	}
	return Cell{Column: ColumnLastCheck, Text: text}
}

func (r *Renderer) daysCell(days *int) Cell {
	if days == nil {
		return missingCell(ColumnDaysRemaining)
	}

	u := Classify(*days)
	in := &Inline{
		Text:    strconv.Itoa(*days),
		Classes: []string{u.Class()},
	}
	if u == UrgencyExpired {
		in.Title = r.locale.T(msgExpired)
	}
	return Cell{Column: ColumnDaysRemaining, Inline: in}
}

// plainCell shows the placeholder without the missing-data style.
func plainCell(col Column, v *string) Cell {
	if s, ok := snapshot.Value(v); ok {
		return Cell{Column: col, Text: s}
	}
	return Cell{Column: col, Text: Placeholder}
}

func optionalCell(col Column, v *string) Cell {
	if s, ok := snapshot.Value(v); ok {
		return Cell{Column: col, Text: s}
	}
	return missingCell(col)
}

func missingCell(col Column) Cell {
	return Cell{Column: col, Text: Placeholder, Classes: []string{ClassNoData}}
}
