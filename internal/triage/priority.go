// Package triage builds the open issues report: priority ordering, overdue
// detection, closing-time statistics and project board synchronisation.
package triage

import (
	"regexp"

	"github.com/jinwoo1225/gh-triage/internal/model"
)

type Priority string

const (
	P0   Priority = "P0"
	P1   Priority = "P1"
	P2   Priority = "P2"
	None Priority = "None"
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{P0, P1, P2, None}

var priorityLabel = regexp.MustCompile(`^P[0-2]$`)

// PriorityOf returns the first P0-P2 label, or None.
func PriorityOf(labels []model.Label) Priority {
	for _, l := range labels {
		if priorityLabel.MatchString(l.Name) {
			return Priority(l.Name)
		}
	}
	return None
}

// Rank orders priorities, lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case P0:
		return 0
	case P1:
		return 1
	case P2:
		return 2
	default:
		return 3
	}
}

// Describe is the human label shown under the open issue counters.
func (p Priority) Describe() string {
	switch p {
	case P0:
		return "Critical"
	case P1:
		return "High"
	case P2:
		return "Medium"
	default:
		return "No Priority"
	}
}

// DueDays maps a priority name to the number of days an issue may stay open.
type DueDays map[string]int

// IsOverdue reports whether an issue open for daysOpen days has passed its due date.
// Priorities without a positive threshold are never overdue.
func (d DueDays) IsOverdue(p Priority, daysOpen int) bool {
	threshold := d[string(p)]
	return threshold > 0 && daysOpen > threshold
}
