package report

import (
	"html/template"
	"io"

	"github.com/jinwoo1225/gh-triage/internal/perf"
)

type perfPage struct {
	*perf.Dashboard
	Script template.JS
}

// RenderPerf writes the interactive performance report for one combined CSV.
func (r *Renderer) RenderPerf(w io.Writer, d *perf.Dashboard) error {
	return r.render(w, "perf.html.tmpl", perfPage{Dashboard: d, Script: template.JS(dashboardScript)})
}
