// Package renderer turns report facts into markdown, plain text, HTML and
// terminal output.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
)

//go:embed templates/*.md
var templates embed.FS

var helpers = template.FuncMap{
	"usd": func(v float64) string {
		return "$" + humanize.CommafWithDigits(v, 2)
	},
	"abs": func(m portfolio.Money) portfolio.Money {
		if m.IsNegative() {
			return m.Neg()
		}
		return m
	},
	"absf":      math.Abs,
	"shortdate": func(d date.Date) string { return d.Format("Jan-02") },
	"daydate":   func(d date.Date) string { return d.Format("January 02") },
	"sup":       portfolio.Superscript,
}

// RenderReport renders the report facts to markdown.
func RenderReport(r *portfolio.ReportData) string {
	partials := map[string]string{
		"report_title":    "report_title.md",
		"report_overall":  "report_overall.md",
		"report_symbols":  "report_symbols.md",
		"report_table":    "report_table.md",
		"report_periodic": "report_periodic.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(helpers).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Funcs(helpers).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// HTML converts rendered markdown into a standalone HTML document suitable
// for the email body.
func HTML(markdown string) (string, error) {
	gm := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	var body bytes.Buffer
	if err := gm.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("cannot convert report to html: %w", err)
	}
	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	doc.WriteString("body { font-family: sans-serif; }\n")
	doc.WriteString("table { border-collapse: collapse; }\n")
	doc.WriteString("th, td { border: 1px solid #999; padding: 0.25em 0.5em; text-align: right; }\n")
	doc.WriteString(".increase { color: green; }\n.decrease { color: red; }\n")
	doc.WriteString("</style>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}

// Terminal renders markdown with ANSI styling for interactive use.
func Terminal(markdown string) (string, error) {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		return "", fmt.Errorf("cannot render report for the terminal: %w", err)
	}
	return out, nil
}
