package triage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

// Counts holds one entry per priority, including zeroes.
type Counts map[Priority]int

// ClosedStat is the number of closed issues of a priority and their average
// days-to-close formatted with one decimal, or "N/A".
type ClosedStat struct {
	Count int
	Avg   string
}

type Bounties struct {
	Open   int
	Closed int
	Total  int
}

// SortIssues orders issues by priority rank, then oldest first.
func SortIssues(issues []*model.GithubIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		pi, pj := PriorityOf(issues[i].Labels).Rank(), PriorityOf(issues[j].Labels).Rank()
		if pi != pj {
			return pi < pj
		}
		return issues[i].CreatedAt.Before(issues[j].CreatedAt)
	})
}

func CountByPriority(issues []*model.GithubIssue) Counts {
	counts := Counts{}
	for _, p := range Priorities {
		counts[p] = 0
	}
	for _, is := range issues {
		counts[PriorityOf(is.Labels)]++
	}
	return counts
}

// ClosedStats averages days-to-close per priority over issues that have a closing time.
func ClosedStats(issues []*model.GithubIssue) map[Priority]ClosedStat {
	days := map[Priority][]int{}
	for _, is := range issues {
		if !is.IsClosed() {
			continue
		}
		p := PriorityOf(is.Labels)
		days[p] = append(days[p], utils.DaysBetween(is.CreatedAt, is.ClosedAt))
	}

	stats := make(map[Priority]ClosedStat, len(Priorities))
	for _, p := range Priorities {
		times := days[p]
		if len(times) == 0 {
			stats[p] = ClosedStat{Avg: "N/A"}
			continue
		}
		sum := 0
		for _, d := range times {
			sum += d
		}
		stats[p] = ClosedStat{
			Count: len(times),
			Avg:   fmt.Sprintf("%.1f", float64(sum)/float64(len(times))),
		}
	}
	return stats
}

// CountBounties counts issues carrying label, compared case-insensitively.
func CountBounties(open, closed []*model.GithubIssue, label string) Bounties {
	count := func(issues []*model.GithubIssue) int {
		n := 0
		for _, is := range issues {
			for _, l := range is.Labels {
				if strings.EqualFold(l.Name, label) {
					n++
					break
				}
			}
		}
		return n
	}
	b := Bounties{Open: count(open), Closed: count(closed)}
	b.Total = b.Open + b.Closed
	return b
}
