package report

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

type htmlSink struct{}

func (htmlSink) Format() string { return FormatHTML }

func (htmlSink) Write(dst *os.File, t *Table, meta Meta) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(t)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	title := "metbands report"
	if meta.RunID != "" {
		title += " " + meta.RunID
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	doc.Write(body.Bytes())
	if len(meta.Failures) > 0 {
		doc.WriteString("<h2>Failed subjects</h2>\n<ul>\n")
		for _, f := range meta.Failures {
			fmt.Fprintf(&doc, "<li><code>%s</code> %s: %s</li>\n",
				html.EscapeString(f.SubjectID), html.EscapeString(f.Code), html.EscapeString(f.Message))
		}
		doc.WriteString("</ul>\n")
	}
	doc.WriteString("</body>\n</html>\n")

	_, err := dst.Write(doc.Bytes())
	return err
}

// Markdown renders the table as a GFM pipe table.
func Markdown(t *Table) string {
	var b strings.Builder
	writeMarkdownRow(&b, t.Headers)

	sep := make([]string, len(t.Headers))
	for i := range sep {
		if i == 0 {
			sep[i] = "---"
		} else {
			sep[i] = "---:"
		}
	}
	writeMarkdownRow(&b, sep)

	for _, r := range t.Rows {
		cells := []string{escapeCell(r.SubjectID)}
		for _, v := range r.Values() {
			cells = append(cells, strconv.FormatFloat(v, 'f', -1, 64))
		}
		writeMarkdownRow(&b, cells)
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "|", "\\|")
}
