package report

import (
	"html/template"
	"io"

	"github.com/jinwoo1225/gh-triage/internal/pending"
)

type pendingPage struct {
	*pending.Dashboard
	Script template.JS
}

// RenderPending writes the pending pull requests dashboard.
func (r *Renderer) RenderPending(w io.Writer, d *pending.Dashboard) error {
	return r.render(w, "pending.html.tmpl", pendingPage{Dashboard: d, Script: template.JS(pendingScript)})
}
