// Package tui is the interactive terminal browser for the stash.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"stash/internal/core"
	"stash/internal/render"
	"stash/internal/store"
)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// Options configures the TUI session.
type Options struct {
	ShowAll  bool
	AutoRead bool
}

type model struct {
	store       *store.Store
	articles    []core.Article
	selectedIdx int
	showAll     bool
	autoRead    bool
	status      string
	width       int
	height      int
	quitting    bool
}

func initialModel(s *store.Store, opts Options) model {
	return model{
		store:    s,
		showAll:  opts.ShowAll,
		autoRead: opts.AutoRead,
	}
}

// Init loads the first listing.
func (m model) Init() tea.Cmd {
	return m.reload
}

type articlesLoadedMsg struct {
	articles []core.Article
	err      error
}

func (m model) reload() tea.Msg {
	articles, err := m.store.List(store.NoLimit, m.showAll)
	return articlesLoadedMsg{articles: articles, err: err}
}

// Update handles messages and updates the model accordingly.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case articlesLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("load failed: %v", msg.err)
			return m, nil
		}
		m.articles = msg.articles
		if m.selectedIdx >= len(m.articles) {
			m.selectedIdx = len(m.articles) - 1
		}
		if m.selectedIdx < 0 {
			m.selectedIdx = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.articles)-1 {
				m.selectedIdx++
			}
		case "o", "enter":
			return m.openSelected()
		case "r":
			return m.toggleFlag(store.FlagRead)
		case "u":
			return m.setFlag(store.FlagRead, false)
		case "s":
			return m.toggleFlag(store.FlagStarred)
		case "A":
			return m.setFlag(store.FlagArchived, true)
		case "a":
			m.showAll = !m.showAll
			m.status = ""
			return m, m.reload
		case "R":
			m.status = ""
			return m, m.reload
		}
	}

	return m, nil
}

func (m model) selected() (core.Article, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.articles) {
		return core.Article{}, false
	}
	return m.articles[m.selectedIdx], true
}

func (m model) openSelected() (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}

	if err := browser.OpenURL(a.URL); err != nil {
		m.status = fmt.Sprintf("open failed: %v", err)
		return m, nil
	}
	m.status = "opened " + a.URL

	if err := m.store.TouchOpened([]int64{a.ID}); err != nil {
		m.status = fmt.Sprintf("open failed: %v", err)
		return m, nil
	}
	if m.autoRead {
		if _, err := m.store.SetFlag([]int64{a.ID}, store.FlagRead, true); err != nil {
			m.status = fmt.Sprintf("mark read failed: %v", err)
			return m, nil
		}
	}

	return m, m.reload
}

func (m model) toggleFlag(flag store.Flag) (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}

	value := true
	switch flag {
	case store.FlagRead:
		value = !a.Read
	case store.FlagStarred:
		value = !a.Starred
	case store.FlagArchived:
		value = !a.Archived
	}

	return m.setFlag(flag, value)
}

func (m model) setFlag(flag store.Flag, value bool) (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}

	if _, err := m.store.SetFlag([]int64{a.ID}, flag, value); err != nil {
		m.status = fmt.Sprintf("update failed: %v", err)
		return m, nil
	}
	m.status = ""

	return m, m.reload
}

var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View renders the TUI.
func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	scope := "inbox"
	if m.showAll {
		scope = "everything"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("stash — %s (%d)", scope, len(m.articles))))
	b.WriteString("\n\n")

	if len(m.articles) == 0 {
		b.WriteString("Nothing here. Save something with: stash add <url>\n")
	} else {
		visible := m.visibleWindow()
		for i, a := range m.articles {
			if i < visible.start || i >= visible.end {
				continue
			}
			line := fmt.Sprintf("%s %s", articleIcons(a), articleTitle(a))
			if i == m.selectedIdx {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		if a, ok := m.selected(); ok {
			b.WriteString("\n")
			b.WriteString(detailStyle.Render(articleDetail(a)))
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("[j/k] move  [o/enter] open  [r] read  [u] unread  [s] star  [A] archive  [a] all  [R] refresh  [q] quit"))

	return docStyle.Render(b.String())
}

type window struct {
	start, end int
}

// visibleWindow keeps the cursor on screen when the list outgrows the
// terminal.
func (m model) visibleWindow() window {
	capacity := m.height - 12
	if capacity < 5 {
		capacity = 5
	}
	if len(m.articles) <= capacity {
		return window{start: 0, end: len(m.articles)}
	}

	start := m.selectedIdx - capacity/2
	if start < 0 {
		start = 0
	}
	end := start + capacity
	if end > len(m.articles) {
		end = len(m.articles)
		start = end - capacity
	}
	return window{start: start, end: end}
}

func articleIcons(a core.Article) string {
	icons := " "
	if a.Starred {
		icons = "★"
	}
	switch {
	case a.Archived:
		icons += "▣"
	case a.Read:
		icons += "✓"
	default:
		icons += " "
	}
	return icons
}

func articleTitle(a core.Article) string {
	title := a.Title
	if title == "" {
		title = a.URL
	}
	return title
}

func articleDetail(a core.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d  %s\n", a.ID, articleTitle(a))
	fmt.Fprintf(&b, "%s  saved %s", a.URL, render.RelativeTime(a.SavedAt, nowFunc()))
	if len(a.Tags) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(a.Tags, ", "))
	}
	if a.Note != "" {
		fmt.Fprintf(&b, "\nnote: %s", a.Note)
	}
	if a.Description != "" {
		fmt.Fprintf(&b, "\n%s", a.Description)
	}
	return b.String()
}

// Run starts the interactive session and blocks until the user quits.
func Run(s *store.Store, opts Options) error {
	p := tea.NewProgram(initialModel(s, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
