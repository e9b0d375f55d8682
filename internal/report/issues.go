package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jinwoo1225/gh-triage/internal/triage"
)

type priorityBox struct {
	Priority string
	Count    int
	Caption  string
}

type issuesPage struct {
	GeneratedAt   time.Time
	ClosedBoxes   []priorityBox
	OpenBoxes     []priorityBox
	OpenCounts    []int
	Bounties      triage.Bounties
	Rows          []triage.Row
	ProjectURL    string
	ProjectNumber int
}

// RenderIssues writes the open issues report.
func (r *Renderer) RenderIssues(w io.Writer, rep *triage.Report) error {
	page := issuesPage{
		GeneratedAt:   rep.GeneratedAt,
		Bounties:      rep.Bounties,
		Rows:          rep.Rows,
		ProjectURL:    fmt.Sprintf("https://github.com/orgs/%s/projects/%d", rep.ProjectOrg, rep.ProjectNumber),
		ProjectNumber: rep.ProjectNumber,
	}
	for _, p := range triage.Priorities {
		closed := rep.ClosedStats[p]
		if closed.Avg == "" {
			closed.Avg = "N/A"
		}
		page.ClosedBoxes = append(page.ClosedBoxes, priorityBox{
			Priority: string(p),
			Count:    closed.Count,
			Caption:  fmt.Sprintf("Avg: %s days", closed.Avg),
		})

		caption := p.Describe()
		if due, ok := rep.DueDays[string(p)]; ok && due > 0 {
			caption = fmt.Sprintf("%s (%d days)", caption, due)
		}
		page.OpenBoxes = append(page.OpenBoxes, priorityBox{
			Priority: string(p),
			Count:    rep.Counts[p],
			Caption:  caption,
		})
		page.OpenCounts = append(page.OpenCounts, rep.Counts[p])
	}
	return r.render(w, "issues.html.tmpl", page)
}
