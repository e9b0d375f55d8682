// Package team holds the set of reviewers whose pull requests and reviews the reports track.
package team

// Team is a set of GitHub logins.
type Team struct {
	members map[string]struct{}
	ordered []string
}

// New builds a team from logins, dropping duplicates and keeping first-seen order.
func New(logins []string) *Team {
	t := &Team{members: make(map[string]struct{}, len(logins))}
	for _, l := range logins {
		if _, ok := t.members[l]; ok {
			continue
		}
		t.members[l] = struct{}{}
		t.ordered = append(t.ordered, l)
	}
	return t
}

func (t *Team) Has(login string) bool {
	if t == nil {
		return false
	}
	_, ok := t.members[login]
	return ok
}

// AnyOf reports whether at least one of logins is a member.
func (t *Team) AnyOf(logins []string) bool {
	for _, l := range logins {
		if t.Has(l) {
			return true
		}
	}
	return false
}

// Members returns the logins in the order they were loaded.
func (t *Team) Members() []string {
	if t == nil {
		return nil
	}
	return t.ordered
}

func (t *Team) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ordered)
}
