// Package export renders a date range of journal entries into the
// downloadable document formats offered by the UI.
package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	texttemplate "text/template"

	"github.com/go-pdf/fpdf"

	"github.com/daybook-app/daybook/internal/store"
	"github.com/daybook-app/daybook/internal/utils"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHTML, FormatText, FormatPDF:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (f Format) FileExtension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

const dateLayout = "2006-01-02"

type document struct {
	User    string
	From    string
	To      string
	Entries []entryView
}

type entryView struct {
	Date      string
	Mood      string
	Category  string
	Secondary []string
	Tags      []string
	WordCount int
	Content   string
}

func buildDocument(user string, from, to time.Time, entries []store.JournalEntry) document {
	doc := document{
		User: user,
		From: from.Format(dateLayout),
		To:   to.Format(dateLayout),
	}
	for _, e := range entries {
		view := entryView{
			Date:      e.EntryDate.Format(dateLayout),
			Mood:      e.PrimaryMood,
			Category:  e.MoodCategory,
			Tags:      utils.ParseTags(e.Tags),
			WordCount: e.WordCount,
			Content:   e.Content,
		}
		if e.SecondaryMood1 != nil {
			view.Secondary = append(view.Secondary, *e.SecondaryMood1)
		}
		if e.SecondaryMood2 != nil {
			view.Secondary = append(view.Secondary, *e.SecondaryMood2)
		}
		doc.Entries = append(doc.Entries, view)
	}
	return doc
}

// Render writes the entry range to w in the requested format. Entries
// must already be ordered ascending by date.
func Render(w io.Writer, format Format, user string, from, to time.Time, entries []store.JournalEntry) error {
	doc := buildDocument(user, from, to, entries)
	switch format {
	case FormatHTML:
		return htmlTemplate.Execute(w, doc)
	case FormatText:
		return textTemplate.Execute(w, doc)
	case FormatPDF:
		return renderPDF(w, doc)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var htmlTemplate = template.Must(template.New("journal").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Journal of {{.User}} ({{.From}} to {{.To}})</title>
</head>
<body>
<h1>Journal of {{.User}}</h1>
<p>{{.From}} to {{.To}}</p>
{{range .Entries}}<article>
<h2>{{.Date}}</h2>
<p><strong>{{.Mood}}</strong> ({{.Category}}){{if .Secondary}}, also {{range $i, $m := .Secondary}}{{if $i}}, {{end}}{{$m}}{{end}}{{end}}</p>
{{if .Tags}}<p>Tags: {{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}</p>{{end}}
<p>{{.Content}}</p>
<p><small>{{.WordCount}} words</small></p>
</article>
{{else}}<p>No entries in this range.</p>
{{end}}</body>
</html>
`))

var textTemplate = texttemplate.Must(texttemplate.New("journal").Parse(`Journal of {{.User}}
{{.From}} to {{.To}}
{{range .Entries}}
=== {{.Date}} ===
Mood: {{.Mood}} ({{.Category}}){{if .Secondary}}, also {{range $i, $m := .Secondary}}{{if $i}}, {{end}}{{$m}}{{end}}{{end}}
{{if .Tags}}Tags: {{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}
{{end}}{{.Content}}
({{.WordCount}} words)
{{else}}
No entries in this range.
{{end}}`))

func renderPDF(w io.Writer, doc document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Journal of %s", doc.User), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Journal of %s", doc.User), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s to %s", doc.From, doc.To), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(doc.Entries) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 7, "No entries in this range.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	for _, e := range doc.Entries {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s (%s, %s)", e.Date, e.Mood, e.Category), "", 1, "L", false, 0, "")
		if len(e.Tags) > 0 {
			pdf.SetFont("Helvetica", "I", 10)
			tagsLine := "Tags: "
			for i, t := range e.Tags {
				if i > 0 {
					tagsLine += ", "
				}
				tagsLine += t
			}
			pdf.CellFormat(0, 6, tagsLine, "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, e.Content, "", "L", false)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d words", e.WordCount), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	return pdf.Output(w)
}
