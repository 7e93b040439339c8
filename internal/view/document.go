package view

// Column identifies a table column.
type Column string

const (
	ColumnName          Column = "name"
	ColumnAddress       Column = "address"
	ColumnType          Column = "type"
	ColumnLastCheck     Column = "last_check"
	ColumnDomains       Column = "domains"
	ColumnIP            Column = "ip"
	ColumnIssuer        Column = "issuer"
	ColumnExpiryDate    Column = "expiry_date"
	ColumnDaysRemaining Column = "days_remaining"
	ColumnActions       Column = "actions"
)

// Columns lists the table columns in display order.
var Columns = []Column{
	ColumnName,
	ColumnAddress,
	ColumnType,
	ColumnLastCheck,
	ColumnDomains,
	ColumnIP,
	ColumnIssuer,
	ColumnExpiryDate,
	ColumnDaysRemaining,
	ColumnActions,
}

// Placeholder is displayed for absent values.
const Placeholder = "-"

// CSS classes shared with the dashboard stylesheet.
const (
	ClassNoData       = "no-data"
	ClassDaysCritical = "days-critical"
	ClassDaysWarning  = "days-warning"
	ClassDaysOK       = "days-ok"
	ClassActionLink   = "action-link"
	ClassLinkDetails  = "link-details"
)

// Document is the rendered state of the dashboard.
type Document struct {
	Table  Table
	NoData *Notice // at most one notice exists
}

// Table is the project status table.
type Table struct {
	Visible bool
	Rows    []Row
}

// Row is one project.
type Row struct {
	ProjectID string
	Cells     []Cell // one per entry in Columns
}

// Cell is one table cell. Content is either plain Text or an Inline element.
type Cell struct {
	Column  Column
	Text    string
	Classes []string
	Inline  *Inline
}

// Inline is an element nested in a cell: a styled span or a link.
type Inline struct {
	Text    string
	Classes []string
	Title   string // tooltip
	Href    string // non-empty for links
}

// Notice is the message shown instead of the table when there is no data.
type Notice struct {
	Text     string
	LinkText string
	LinkHref string
}

// NewDocument returns the initial document: a visible, empty table.
func NewDocument() *Document {
	return &Document{Table: Table{Visible: true}}
}

// Display returns the text a reader sees in the cell.
func (c Cell) Display() string {
	if c.Inline != nil {
		return c.Inline.Text
	}
	return c.Text
}

// HasClass reports whether the cell or its inline element carries class.
func (c Cell) HasClass(class string) bool {
	for _, cl := range c.Classes {
		if cl == class {
			return true
		}
	}
	if c.Inline != nil {
		for _, cl := range c.Inline.Classes {
			if cl == class {
				return true
			}
		}
	}
	return false
}

// Cell returns the cell for col.
func (r Row) Cell(col Column) (Cell, bool) {
	for _, c := range r.Cells {
		if c.Column == col {
			return c, true
		}
	}
	return Cell{}, false
}

// Clone returns a deep copy safe to hand to other goroutines.
func (d *Document) Clone() Document {
	out := Document{Table: Table{Visible: d.Table.Visible}}
	if d.NoData != nil {
		n := *d.NoData
		out.NoData = &n
	}
	if d.Table.Rows != nil {
		out.Table.Rows = make([]Row, len(d.Table.Rows))
		for i, row := range d.Table.Rows {
			out.Table.Rows[i] = row.clone()
		}
	}
	return out
}

func (r Row) clone() Row {
	out := Row{ProjectID: r.ProjectID, Cells: make([]Cell, len(r.Cells))}
	for i, c := range r.Cells {
		c.Classes = append([]string(nil), c.Classes...)
		if c.Inline != nil {
			in := *c.Inline
			in.Classes = append([]string(nil), in.Classes...)
			c.Inline = &in
		}
		out.Cells[i] = c
	}
	return out
}
