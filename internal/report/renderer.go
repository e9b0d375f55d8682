// Package report renders the static HTML pages published by the workflows.
package report

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

//go:embed templates/pending.js
var pendingScript string

//go:embed templates/dashboard.js
var dashboardScript string

const (
	defaultLabelColor = "cccccc"
	defaultLabelName  = "Unknown"
)

// Renderer handles template rendering
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "parsing report templates")
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) render(w io.Writer, name string, data interface{}) error {
	return errors.Wrapf(r.tmpl.ExecuteTemplate(w, name, data), "rendering %s", name)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"labelStyle": LabelStyle,
		"labelName":  labelName,
		"longDate":   utils.LongDate,
		"reportDate": utils.ReportDate,
		"joinOr": func(values []string, fallback string) string {
			if len(values) == 0 {
				return fallback
			}
			return strings.Join(values, ", ")
		},
	}
}

// LabelStyle colours a label badge, picking black or white text for contrast.
func LabelStyle(l model.Label) template.CSS {
	color := normalizeColor(l.Color)
	return template.CSS("background-color: #" + color + "; color: " + TextColor(color) + ";")
}

// TextColor returns black for light backgrounds (luminance above 0.5) and white otherwise.
func TextColor(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "#ffffff"
	}
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000"
	}
	return "#ffffff"
}

func normalizeColor(c string) string {
	if _, _, _, ok := parseHex(c); !ok {
		return defaultLabelColor
	}
	return strings.ToLower(c)
}

func parseHex(hex string) (uint8, uint8, uint8, bool) {
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func labelName(l model.Label) string {
	if l.Name == "" {
		return defaultLabelName
	}
	return l.Name
}
