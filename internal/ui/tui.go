// Package ui is the interactive pull request browser.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/pullrequest"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

var logger = log.WithField("package", "ui")

const refreshInterval = time.Minute

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("240"))

	selectedTabStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("205")).
				Background(lipgloss.Color("236")).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type Searcher interface {
	Fetch(ctx context.Context, options ...pullrequest.FetchOption) ([]*model.GithubPullRequest, error)
}

// Category is one tab of the browser and the search that fills it.
type Category struct {
	Name    string
	Options []pullrequest.FetchOption
}

var DefaultCategories = []Category{
	{"Review requested", []pullrequest.FetchOption{pullrequest.StateOpen, pullrequest.ReviewRequestedMe, pullrequest.DraftFalse, pullrequest.ArchivedFalse, pullrequest.SortCreated}},
	{"My PRs", []pullrequest.FetchOption{pullrequest.StateOpen, pullrequest.AuthorMe, pullrequest.DraftFalse, pullrequest.ArchivedFalse, pullrequest.SortCreated}},
	{"Drafts", []pullrequest.FetchOption{pullrequest.StateOpen, pullrequest.DraftTrue, pullrequest.InvolvesMe, pullrequest.ArchivedFalse, pullrequest.SortCreated}},
	{"Involved", []pullrequest.FetchOption{pullrequest.StateOpen, pullrequest.InvolvesMe, pullrequest.DraftFalse, pullrequest.ArchivedFalse, pullrequest.SortCreated}},
}

type ListModel struct {
	Categories    []Category
	CategoryIndex int
	Entries       [][]Entry
	List          list.Model

	searcher    Searcher
	openURL     func(string) error
	now         func() time.Time
	selected    *Entry
	quit        bool
	status      string
	nextRefresh time.Time
}

func NewListModel(searcher Searcher, categories []Category) *ListModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.AdditionalShortHelpKeys = Keys.ShortHelp
	return &ListModel{
		Categories: categories,
		Entries:    make([][]Entry, len(categories)),
		List:       l,
		searcher:   searcher,
		openURL:    utils.OpenURL,
		now:        time.Now,
	}
}

type refreshedMsg struct {
	entries [][]Entry
	err     error
}

// tickMsg signals the passing of time for auto-refresh countdown.
type tickMsg time.Time

// tickCmd schedules the next tickMsg after one second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd searches every category concurrently. A failing search leaves
// its tab empty and is reported in the status line.
func (m *ListModel) refreshCmd() tea.Cmd {
	categories := m.Categories
	searcher := m.searcher
	now := m.now
	return func() tea.Msg {
		ctx := context.Background()
		results := make([][]*model.GithubPullRequest, len(categories))

		var g errgroup.Group
		for i, cat := range categories {
			i, cat := i, cat // per-iteration copies (go.mod targets go 1.21)
			g.Go(func() error {
				prs, err := searcher.Fetch(ctx, cat.Options...)
				if err != nil {
					logger.WithError(err).Warnf("refresh: %s", cat.Name)
					return errors.Wrap(err, cat.Name)
				}
				results[i] = prs
				return nil
			})
		}
		err := g.Wait()

		t := now()
		entries := make([][]Entry, len(categories))
		for i, prs := range results {
			entries[i] = BuildEntries(prs, t)
		}
		return refreshedMsg{entries: entries, err: err}
	}
}

func (m *ListModel) Init() tea.Cmd {
	m.nextRefresh = m.now().Add(refreshInterval)
	return tea.Batch(m.refreshCmd(), tickCmd())
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if !now.Before(m.nextRefresh) {
			m.nextRefresh = now.Add(refreshInterval)
			return m, tea.Batch(m.refreshCmd(), tickCmd())
		}
		return m, tickCmd()
	case refreshedMsg:
		m.Entries = msg.entries
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.List.SetItems(ItemsFromEntries(m.Entries[m.CategoryIndex]))
		return m, nil
	case tea.KeyMsg:
		if m.List.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, Keys.Left):
			m.CategoryIndex = (m.CategoryIndex + len(m.Categories) - 1) % len(m.Categories)
			m.List.SetItems(ItemsFromEntries(m.Entries[m.CategoryIndex]))
			return m, nil
		case key.Matches(msg, Keys.Right):
			m.CategoryIndex = (m.CategoryIndex + 1) % len(m.Categories)
			m.List.SetItems(ItemsFromEntries(m.Entries[m.CategoryIndex]))
			return m, nil
		case key.Matches(msg, Keys.Enter):
			if entry, ok := m.current(); ok {
				if err := m.openURL(entry.URL); err != nil {
					m.status = err.Error()
				}
			}
			return m, nil
		case key.Matches(msg, Keys.Checkout):
			if entry, ok := m.current(); ok {
				m.selected = &entry
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, Keys.Refresh):
			m.nextRefresh = m.now().Add(refreshInterval)
			return m, m.refreshCmd()
		case key.Matches(msg, Keys.Quit):
			m.quit = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.List.SetSize(msg.Width-h, msg.Height-v-3)
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)

	return m, cmd
}

func (m *ListModel) current() (Entry, bool) {
	entries := m.Entries[m.CategoryIndex]
	i := m.List.Index()
	if i < 0 || i >= len(entries) {
		return Entry{}, false
	}
	if item, ok := m.List.SelectedItem().(itemEntry); ok {
		return item.entry, true
	}
	return entries[i], true
}

func (m *ListModel) View() string {
	sb := strings.Builder{}

	var tabsView []string
	for i, cat := range m.Categories {
		if i == m.CategoryIndex {
			tabsView = append(tabsView, selectedTabStyle.Render(cat.Name))
		} else {
			tabsView = append(tabsView, tabStyle.Render(cat.Name))
		}
	}

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabsView...))
	sb.WriteString("\n\n")

	if len(m.Entries[m.CategoryIndex]) == 0 {
		emptyMsg := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Render("🥳 Nothing to see here 🎊")
		sb.WriteString(emptyMsg)
	} else {
		sb.WriteString(m.List.View())
	}
	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(m.status))
	}

	return docStyle.Render(sb.String())
}

func (m *ListModel) IsQuit() bool {
	return m.quit
}

// Selected returns the entry chosen for checkout, if any.
func (m *ListModel) Selected() (Entry, bool) {
	if m.selected == nil {
		return Entry{}, false
	}
	return *m.selected, true
}

// NextRefresh returns the scheduled time for the next automatic refresh.
func (m *ListModel) NextRefresh() time.Time {
	return m.nextRefresh
}
