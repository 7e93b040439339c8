package view

import (
	"reflect"
	"testing"
	"time"

	"github.com/ogsc/liveview/internal/snapshot"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func portPtr(p string) *snapshot.Port {
	v := snapshot.Port(p)
	return &v
}

func newTestRenderer() *Renderer {
	return NewRenderer(WithLocation(time.UTC))
}

func fullStatus(id string) snapshot.ProjectStatus {
	return snapshot.ProjectStatus{
		ProjectID:     id,
		ProjectName:   strPtr("Project " + id),
		Host:          strPtr(id + ".example.com"),
		Port:          portPtr("443"),
		Type:          strPtr("https"),
		CheckTime:     strPtr("2024-03-05T09:07:00Z"),
		Domains:       strPtr(id + ".example.com"),
		IP:            strPtr("10.0.0.1"),
		Issuer:        strPtr("R3"),
		ExpiryDate:    strPtr("2024-06-01"),
		DaysRemaining: intPtr(88),
	}
}

func cell(t *testing.T, row Row, col Column) Cell {
	t.Helper()
	c, ok := row.Cell(col)
	if !ok {
		t.Fatalf("row %s has no %s cell", row.ProjectID, col)
	}
	return c
}

func TestRender_SingleProject(t *testing.T) {
	batch := snapshot.Batch{{
		ProjectID:     "p1",
		ProjectName:   strPtr("Site A"),
		Host:          strPtr("a.com"),
		Port:          portPtr("443"),
		Type:          strPtr("https"),
		DaysRemaining: intPtr(5),
	}}

	doc := NewDocument()
	newTestRenderer().Render(doc, batch)

	if !doc.Table.Visible {
		t.Error("expected table to be visible")
	}
	if doc.NoData != nil {
		t.Error("expected no notice")
	}
	if len(doc.Table.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(doc.Table.Rows))
	}

	row := doc.Table.Rows[0]
	if len(row.Cells) != len(Columns) {
		t.Fatalf("len(Cells) = %d, want %d", len(row.Cells), len(Columns))
	}
	for i, col := range Columns {
		if row.Cells[i].Column != col {
			t.Errorf("cell %d column = %s, want %s", i, row.Cells[i].Column, col)
		}
	}

	want := map[Column]string{
		ColumnName:          "Site A",
		ColumnAddress:       "a.com:443",
		ColumnType:          "HTTPS",
		ColumnLastCheck:     Placeholder,
		ColumnDomains:       Placeholder,
		ColumnIP:            Placeholder,
		ColumnIssuer:        Placeholder,
		ColumnExpiryDate:    Placeholder,
		ColumnDaysRemaining: "5",
		ColumnActions:       "History",
	}
	for col, text := range want {
		if got := cell(t, row, col).Display(); got != text {
			t.Errorf("%s = %q, want %q", col, got, text)
		}
	}

	for _, col := range []Column{ColumnLastCheck, ColumnDomains, ColumnIP, ColumnIssuer, ColumnExpiryDate} {
		if !cell(t, row, col).HasClass(ClassNoData) {
			t.Errorf("%s should be styled %s", col, ClassNoData)
		}
	}

	days := cell(t, row, ColumnDaysRemaining)
	if !days.HasClass(ClassDaysCritical) {
		t.Errorf("days classes = %v, want %s", days.Inline.Classes, ClassDaysCritical)
	}
	if days.Inline.Title != "" {
		t.Errorf("days title = %q, want none", days.Inline.Title)
	}

	actions := cell(t, row, ColumnActions)
	if actions.Inline == nil || actions.Inline.Href != "/history/p1" {
		t.Errorf("actions = %+v, want link to /history/p1", actions.Inline)
	}
}

func TestRender_FullRow(t *testing.T) {
	doc := NewDocument()
	newTestRenderer().Render(doc, snapshot.Batch{fullStatus("p1")})
	row := doc.Table.Rows[0]

	if got := cell(t, row, ColumnLastCheck).Display(); got != "05 Mar 2024 09:07" {
		t.Errorf("last check = %q, want %q", got, "05 Mar 2024 09:07")
	}
	for _, c := range row.Cells {
		if c.HasClass(ClassNoData) {
			t.Errorf("%s unexpectedly styled %s", c.Column, ClassNoData)
		}
	}
	if !cell(t, row, ColumnDaysRemaining).HasClass(ClassDaysOK) {
		t.Error("expected days-ok for 88 days")
	}
}

func TestRender_DaysClassification(t *testing.T) {
	tests := []struct {
		days        *int
		wantText    string
		wantClass   string
		wantExpired bool
	}{
		{days: intPtr(-1), wantText: "-1", wantClass: ClassDaysCritical, wantExpired: true},
		{days: intPtr(0), wantText: "0", wantClass: ClassDaysCritical},
		{days: intPtr(14), wantText: "14", wantClass: ClassDaysCritical},
		{days: intPtr(15), wantText: "15", wantClass: ClassDaysWarning},
		{days: intPtr(29), wantText: "29", wantClass: ClassDaysWarning},
		{days: intPtr(30), wantText: "30", wantClass: ClassDaysOK},
		{days: nil, wantText: Placeholder, wantClass: ClassNoData},
	}

	r := newTestRenderer()
	for _, tt := range tests {
		t.Run(tt.wantText, func(t *testing.T) {
			row := r.Row(snapshot.ProjectStatus{ProjectID: "p", DaysRemaining: tt.days})
			c := cell(t, row, ColumnDaysRemaining)

			if got := c.Display(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if !c.HasClass(tt.wantClass) {
				t.Errorf("cell %+v missing class %s", c, tt.wantClass)
			}

			expired := c.Inline != nil && c.Inline.Title == "Expired"
			if expired != tt.wantExpired {
				t.Errorf("expired annotation = %v, want %v", expired, tt.wantExpired)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		days int
		want Urgency
	}{
		{-30, UrgencyExpired},
		{-1, UrgencyExpired},
		{0, UrgencyCritical},
		{14, UrgencyCritical},
		{15, UrgencyWarning},
		{29, UrgencyWarning},
		{30, UrgencyOK},
		{365, UrgencyOK},
	}

	for _, tt := range tests {
		if got := Classify(tt.days); got != tt.want {
			t.Errorf("Classify(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestRender_AddressPairing(t *testing.T) {
	r := newTestRenderer()
	tests := []struct {
		name   string
		status snapshot.ProjectStatus
		want   string
	}{
		{name: "host only", status: snapshot.ProjectStatus{ProjectID: "p", Host: strPtr("a.com")}, want: Placeholder},
		{name: "port only", status: snapshot.ProjectStatus{ProjectID: "p", Port: portPtr("443")}, want: Placeholder},
		{name: "both", status: snapshot.ProjectStatus{ProjectID: "p", Host: strPtr("a.com"), Port: portPtr("21")}, want: "a.com:21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cell(t, r.Row(tt.status), ColumnAddress).Display(); got != tt.want {
				t.Errorf("address = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_UnparsableCheckTimeKeepsRaw(t *testing.T) {
	r := newTestRenderer()
	row := r.Row(snapshot.ProjectStatus{ProjectID: "p", CheckTime: strPtr("yesterday-ish")})

	c := cell(t, row, ColumnLastCheck)
	if c.Display() != "yesterday-ish" {
		t.Errorf("last check = %q, want raw value", c.Display())
	}
	if c.HasClass(ClassNoData) {
		t.Error("raw fallback should not be styled as missing")
	}
}

func TestRender_EmptyStringIsPlaceholder(t *testing.T) {
	r := newTestRenderer()
	row := r.Row(snapshot.ProjectStatus{ProjectID: "p", ProjectName: strPtr(""), Issuer: strPtr("")})

	if got := cell(t, row, ColumnName).Display(); got != Placeholder {
		t.Errorf("name = %q, want placeholder", got)
	}
	if c := cell(t, row, ColumnIssuer); c.Display() != Placeholder || !c.HasClass(ClassNoData) {
		t.Errorf("issuer = %+v, want styled placeholder", c)
	}
}

func TestRender_RowCountAndOrder(t *testing.T) {
	batch := snapshot.Batch{fullStatus("c"), fullStatus("a"), fullStatus("b")}
	doc := NewDocument()
	newTestRenderer().Render(doc, batch)

	if len(doc.Table.Rows) != len(batch) {
		t.Fatalf("len(Rows) = %d, want %d", len(doc.Table.Rows), len(batch))
	}
	for i, p := range batch {
		if doc.Table.Rows[i].ProjectID != p.ProjectID {
			t.Errorf("row %d = %s, want %s", i, doc.Table.Rows[i].ProjectID, p.ProjectID)
		}
	}

	// A smaller batch replaces, not appends
	newTestRenderer().Render(doc, batch[:1])
	if len(doc.Table.Rows) != 1 {
		t.Errorf("len(Rows) after replace = %d, want 1", len(doc.Table.Rows))
	}
}

func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer()
	batches := []snapshot.Batch{
		nil,
		{},
		{fullStatus("p1")},
		{fullStatus("p1"), {ProjectID: "p2", CheckTime: strPtr("bad")}},
	}

	for i, batch := range batches {
		once := NewDocument()
		r.Render(once, batch)

		twice := NewDocument()
		r.Render(twice, batch)
		r.Render(twice, batch)

		if !reflect.DeepEqual(once.Clone(), twice.Clone()) {
			t.Errorf("batch %d: render twice differs from render once", i)
		}
	}
}

func TestRender_EmptyBatchShowsSingleNotice(t *testing.T) {
	r := newTestRenderer()
	doc := NewDocument()
	r.Render(doc, snapshot.Batch{fullStatus("p1")})

	for i := 0; i < 3; i++ {
		r.Render(doc, snapshot.Batch{})
	}
	r.Render(doc, nil)

	if doc.Table.Visible {
		t.Error("expected table to be hidden")
	}
	if len(doc.Table.Rows) != 0 {
		t.Errorf("len(Rows) = %d, want 0", len(doc.Table.Rows))
	}
	if doc.NoData == nil {
		t.Fatal("expected a no-data notice")
	}
	if doc.NoData.Text != "No projects monitored yet." || doc.NoData.LinkHref != "/add" {
		t.Errorf("notice = %+v", doc.NoData)
	}
}

func TestRender_NonEmptyAfterEmpty(t *testing.T) {
	r := newTestRenderer()
	doc := NewDocument()
	r.Render(doc, nil)
	r.Render(doc, snapshot.Batch{fullStatus("p1")})

	if doc.NoData != nil {
		t.Error("expected notice to be removed")
	}
	if !doc.Table.Visible {
		t.Error("expected table to be visible again")
	}
	if len(doc.Table.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1", len(doc.Table.Rows))
	}
}

func TestRender_HistoryLinkEscapesID(t *testing.T) {
	row := newTestRenderer().Row(snapshot.ProjectStatus{ProjectID: "a b/c"})
	if got := cell(t, row, ColumnActions).Inline.Href; got != "/history/a%20b%2Fc" {
		t.Errorf("href = %q", got)
	}
}

func TestRender_French(t *testing.T) {
	r := NewRenderer(WithLocation(time.UTC), WithLocale(NewLocale("fr-CA, en;q=0.5")))

	doc := NewDocument()
	r.Render(doc, nil)
	if doc.NoData.Text != "Aucun projet surveillé pour le moment." {
		t.Errorf("notice = %q", doc.NoData.Text)
	}

	row := r.Row(snapshot.ProjectStatus{
		ProjectID:     "p",
		CheckTime:     strPtr("2024-08-15T21:05:00Z"),
		DaysRemaining: intPtr(-3),
	})
	if got := cell(t, row, ColumnLastCheck).Display(); got != "15 août 2024 21:05" {
		t.Errorf("last check = %q", got)
	}
	if got := cell(t, row, ColumnDaysRemaining).Inline.Title; got != "Expiré" {
		t.Errorf("expired title = %q", got)
	}
	if got := cell(t, row, ColumnActions).Display(); got != "Historique" {
		t.Errorf("action = %q", got)
	}
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := NewDocument()
	newTestRenderer().Render(doc, snapshot.Batch{fullStatus("p1")})

	c := doc.Clone()
	c.Table.Rows[0].Cells[0].Text = "changed"
	c.Table.Rows[0].Cells[8].Inline.Classes[0] = "changed"

	if doc.Table.Rows[0].Cells[0].Text == "changed" {
		t.Error("clone shares cells with original")
	}
	if doc.Table.Rows[0].Cells[8].Inline.Classes[0] == "changed" {
		t.Error("clone shares inline classes with original")
	}
}
