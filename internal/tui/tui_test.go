package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"stash/internal/core"
	"stash/internal/store"
)

func newTestModel(t *testing.T, urls ...string) model {
	t.Helper()

	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	for _, u := range urls {
		if _, err := s.Insert(core.NewArticle{Hash: core.HashURL(u), URL: u, CanonicalURL: u}); err != nil {
			t.Fatalf("failed to insert %s: %v", u, err)
		}
	}

	m := initialModel(s, Options{})
	loaded := m.reload()
	updated, _ := m.Update(loaded)
	return updated.(model)
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigationStaysInBounds(t *testing.T) {
	m := newTestModel(t, "https://example.com/1", "https://example.com/2")

	updated, _ := m.Update(keyMsg("k"))
	m = updated.(model)
	if m.selectedIdx != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.selectedIdx)
	}

	updated, _ = m.Update(keyMsg("j"))
	m = updated.(model)
	if m.selectedIdx != 1 {
		t.Errorf("expected cursor at 1, got %d", m.selectedIdx)
	}

	updated, _ = m.Update(keyMsg("j"))
	m = updated.(model)
	if m.selectedIdx != 1 {
		t.Errorf("expected cursor clamped at 1, got %d", m.selectedIdx)
	}
}

func TestToggleReadRemovesFromInbox(t *testing.T) {
	m := newTestModel(t, "https://example.com/1")

	updated, cmd := m.Update(keyMsg("r"))
	m = updated.(model)
	if cmd == nil {
		t.Fatal("expected a reload command after toggling read")
	}

	loaded := cmd()
	updated, _ = m.Update(loaded)
	m = updated.(model)
	if len(m.articles) != 0 {
		t.Errorf("expected read article out of the inbox, got %d articles", len(m.articles))
	}
}

func TestShowAllToggle(t *testing.T) {
	m := newTestModel(t, "https://example.com/1")

	if _, err := m.store.SetFlag([]int64{m.articles[0].ID}, store.FlagRead, true); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	updated, cmd := m.Update(keyMsg("a"))
	m = updated.(model)
	if !m.showAll {
		t.Error("expected showAll to be enabled")
	}

	loaded := cmd()
	updated, _ = m.Update(loaded)
	m = updated.(model)
	if len(m.articles) != 1 {
		t.Errorf("expected read article visible with showAll, got %d articles", len(m.articles))
	}
}

func TestStarToggle(t *testing.T) {
	m := newTestModel(t, "https://example.com/1")

	updated, cmd := m.Update(keyMsg("s"))
	m = updated.(model)
	loaded := cmd()
	updated, _ = m.Update(loaded)
	m = updated.(model)

	if len(m.articles) != 1 || !m.articles[0].Starred {
		t.Errorf("expected starred article, got %+v", m.articles)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)

	for _, key := range []string{"q"} {
		updated, cmd := m.Update(keyMsg(key))
		if !updated.(model).quitting {
			t.Errorf("expected %q to quit", key)
		}
		if cmd == nil {
			t.Errorf("expected quit command for %q", key)
		}
	}
}

func TestViewEmptyState(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if view == "" {
		t.Error("expected non-empty view")
	}
}
