package triage

import (
	"time"

	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

// Row is one open issue as shown in the report table.
type Row struct {
	Source    string
	Number    int
	Title     string
	URL       string
	Priority  Priority
	CreatedAt time.Time
	DaysOpen  int
	Overdue   bool
	Labels    []model.Label
	Reporter  string
	Assignees []string
}

// Report is everything the issues page renders.
type Report struct {
	GeneratedAt   time.Time
	Rows          []Row
	Counts        Counts
	ClosedStats   map[Priority]ClosedStat
	Bounties      Bounties
	DueDays       DueDays
	ProjectOrg    string
	ProjectNumber int
}

// BuildReport sorts open issues and computes every statistic relative to now.
func BuildReport(now time.Time, open, closed []*model.GithubIssue, due DueDays, bountyLabel string) *Report {
	sorted := make([]*model.GithubIssue, len(open))
	copy(sorted, open)
	SortIssues(sorted)

	rows := make([]Row, 0, len(sorted))
	for _, is := range sorted {
		p := PriorityOf(is.Labels)
		days := utils.DaysBetween(is.CreatedAt, now)
		rows = append(rows, Row{
			Source:    is.Source,
			Number:    is.Number,
			Title:     is.Title,
			URL:       is.URL,
			Priority:  p,
			CreatedAt: is.CreatedAt,
			DaysOpen:  days,
			Overdue:   due.IsOverdue(p, days),
			Labels:    is.Labels,
			Reporter:  is.AuthorSlug,
			Assignees: is.Assignees,
		})
	}

	return &Report{
		GeneratedAt: now,
		Rows:        rows,
		Counts:      CountByPriority(open),
		ClosedStats: ClosedStats(closed),
		Bounties:    CountBounties(open, closed, bountyLabel),
		DueDays:     due,
	}
}
