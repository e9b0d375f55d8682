package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/pullrequest"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[pullrequest.FetchOption][]*model.GithubPullRequest
	fail    map[pullrequest.FetchOption]bool
	calls   int
}

// Fetch keys results by the second option, which differs per category.
func (f *fakeSearcher) Fetch(_ context.Context, options ...pullrequest.FetchOption) ([]*model.GithubPullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[options[1]] {
		return nil, errors.New("rate limited")
	}
	return f.results[options[1]], nil
}

func newTestModel(s *fakeSearcher) *ListModel {
	m := NewListModel(s, []Category{
		{"Review", []pullrequest.FetchOption{pullrequest.StateOpen, pullrequest.ReviewRequestedMe}},
		{"Mine", []pullrequest.FetchOption{pullrequest.StateOpen, pullrequest.AuthorMe}},
	})
	m.now = func() time.Time { return now }
	m.List.SetSize(80, 40)
	return m
}

func refresh(t *testing.T, m *ListModel) {
	t.Helper()
	msg := m.refreshCmd()()
	_, _ = m.Update(msg)
}

func TestBuildEntries(t *testing.T) {
	entries := BuildEntries([]*model.GithubPullRequest{{
		PrNumber:                7,
		RepositoryNameWithOwner: "tenstorrent/tt-llk",
		Title:                   "Fix pack",
		CreatedAt:               now.Add(-3 * 24 * time.Hour),
		UpdatedAt:               now.Add(-2 * time.Hour),
		Draft:                   true,
		Labels:                  []model.Label{{Name: "LLK"}},
	}}, now)

	require.Len(t, entries, 1)
	assert.Equal(t, "3d", entries[0].AgeStr)
	assert.Equal(t, "2h", entries[0].LastUpdatedSinceStr)
	assert.Equal(t, []string{"LLK"}, entries[0].Labels)

	item := itemEntry{entry: entries[0]}
	assert.Equal(t, "[draft] tenstorrent/tt-llk — Fix pack - 7", item.Title())
	assert.Contains(t, item.Description(), "Labels: LLK")
}

func TestRefreshAndNavigate(t *testing.T) {
	s := &fakeSearcher{results: map[pullrequest.FetchOption][]*model.GithubPullRequest{
		pullrequest.ReviewRequestedMe: {{PrNumber: 1, URL: "https://x/1", CreatedAt: now}},
		pullrequest.AuthorMe:          {{PrNumber: 2, URL: "https://x/2", CreatedAt: now}, {PrNumber: 3, CreatedAt: now}},
	}}
	m := newTestModel(s)
	refresh(t, m)

	assert.Equal(t, 2, s.calls)
	assert.Len(t, m.Entries[0], 1)
	assert.Len(t, m.Entries[1], 2)
	assert.Len(t, m.List.Items(), 1)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.CategoryIndex)
	assert.Len(t, m.List.Items(), 2)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.CategoryIndex)
}

func TestRefreshKeepsOtherCategoriesOnError(t *testing.T) {
	s := &fakeSearcher{
		results: map[pullrequest.FetchOption][]*model.GithubPullRequest{
			pullrequest.AuthorMe: {{PrNumber: 2, CreatedAt: now}},
		},
		fail: map[pullrequest.FetchOption]bool{pullrequest.ReviewRequestedMe: true},
	}
	m := newTestModel(s)
	refresh(t, m)

	assert.Empty(t, m.Entries[0])
	assert.Len(t, m.Entries[1], 1)
	assert.Contains(t, m.View(), "rate limited")
}

func TestEnterOpensURL(t *testing.T) {
	s := &fakeSearcher{results: map[pullrequest.FetchOption][]*model.GithubPullRequest{
		pullrequest.ReviewRequestedMe: {{PrNumber: 1, URL: "https://x/1", CreatedAt: now}},
	}}
	m := newTestModel(s)
	var opened []string
	m.openURL = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	refresh(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"https://x/1"}, opened)
}

func TestCheckoutSelectsAndQuits(t *testing.T) {
	s := &fakeSearcher{results: map[pullrequest.FetchOption][]*model.GithubPullRequest{
		pullrequest.ReviewRequestedMe: {{PrNumber: 9, RepositoryNameWithOwner: "o/r", CreatedAt: now}},
	}}
	m := newTestModel(s)
	refresh(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.NotNil(t, cmd)
	entry, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 9, entry.PrNumber)
	assert.False(t, m.IsQuit())
}

func TestCheckoutOnEmptyListDoesNothing(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	refresh(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Nil(t, cmd)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Nothing to see here")
}

func TestQuit(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.IsQuit())
}

func TestTickSchedulesRefresh(t *testing.T) {
	m := newTestModel(&fakeSearcher{})
	m.Init()
	assert.Equal(t, now.Add(time.Minute), m.NextRefresh())

	_, _ = m.Update(tickMsg(now.Add(30 * time.Second)))
	assert.Equal(t, now.Add(time.Minute), m.NextRefresh())

	_, _ = m.Update(tickMsg(now.Add(time.Minute)))
	assert.Equal(t, now.Add(2*time.Minute), m.NextRefresh())
}
