package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ogsc/liveview/internal/view"
)

var fragment = template.Must(template.New("fragment").Funcs(template.FuncMap{
	"classes": func(cl []string) string { return strings.Join(cl, " ") },
}).Parse(`{{with .Doc.NoData}}<p class="no-data">{{.Text}} <a href="{{.LinkHref}}">{{.LinkText}}</a></p>
{{end}}<table id="projects-table"{{if not .Doc.Table.Visible}} style="display: none"{{end}}>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Doc.Table.Rows}}
<tr data-project-id="{{.ProjectID}}">
{{- range .Cells}}<td{{with .Classes}} class="{{classes .}}"{{end}}>
{{- with .Inline}}{{if .Href}}<a href="{{.Href}}" class="{{classes .Classes}}">{{.Text}}</a>{{else}}<span class="{{classes .Classes}}"{{with .Title}} title="{{.}}"{{end}}>{{.Text}}</span>{{end}}{{else}}{{.Text}}{{end -}}
</td>{{end}}
</tr>
{{- end}}
</tbody>
</table>
`))

// RenderHTML writes the document as an HTML fragment: the no-data paragraph
// and the projects table.
func RenderHTML(w io.Writer, doc view.Document, locale view.Locale) error {
	data := struct {
		Doc     view.Document
		Headers []string
	}{doc, locale.Headers()}

	if err := fragment.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTMLFile writes every published document to a file. Readers never see a
// partially written file.
type HTMLFile struct {
	path   string
	locale view.Locale
}

// NewHTMLFile creates a sink writing to path.
func NewHTMLFile(path string, locale view.Locale) *HTMLFile {
	return &HTMLFile{path: path, locale: locale}
}

// Path returns the output file.
func (h *HTMLFile) Path() string {
	return h.path
}

// Publish implements session.Sink.
func (h *HTMLFile) Publish(doc view.Document) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc, h.locale); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.path), ".liveview-*.html")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		return fmt.Errorf("rename to %s: %w", h.path, err)
	}
	return nil
}
