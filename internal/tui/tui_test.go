package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/scan"
	"github.com/Zuo-Peng/wa-stats/internal/search"
	"github.com/Zuo-Peng/wa-stats/internal/stats"
	"github.com/Zuo-Peng/wa-stats/internal/watch"
)

func chats() []scan.FileInfo {
	return []scan.FileInfo{
		{Path: "/c/Bob.txt", Key: "Bob", Size: 2048},
		{Path: "/c/family/Eltern.txt", Key: "family/Eltern", Size: 100},
	}
}

func bobStore() *record.Store {
	ts := func(m int) time.Time { return time.Date(2023, 2, 1, 9, m, 0, 0, time.UTC) }
	return record.New("Bob", []parse.Message{
		parse.NewMessage(ts(0), "Alice", "Hallo", 2),
		parse.NewMessage(ts(5), "Bob", "Hi 😀", 3),
	}, parse.Diagnostics{})
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func browseModel(t *testing.T) model {
	m := newBrowseModel(nil, Options{ChatsDir: "/c", Report: stats.DefaultReportOptions()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestBrowseLoadsSelectedChat(t *testing.T) {
	m := browseModel(t)

	m, cmd := update(t, m, chatsLoadedMsg{chats: chats()})
	assert.NotNil(t, cmd, "selected chat must be loaded")
	assert.Len(t, m.visible, 2)
	assert.Empty(t, m.plainShown)

	m, _ = update(t, m, storeLoadedMsg{path: "/c/Bob.txt", store: bobStore()})
	assert.Contains(t, m.plainShown, "2 messages from 2 senders")
	assert.NotContains(t, m.plainShown, "\033[")
	assert.Contains(t, m.View(), "Bob")
}

func TestBrowseCyclesPerson(t *testing.T) {
	m := browseModel(t)
	m, _ = update(t, m, chatsLoadedMsg{chats: chats()})
	m, _ = update(t, m, storeLoadedMsg{path: "/c/Bob.txt", store: bobStore()})

	tab := tea.KeyMsg{Type: tea.KeyTab}
	m, _ = update(t, m, tab)
	assert.Contains(t, m.plainShown, "Bob / Alice")
	m, _ = update(t, m, tab)
	assert.Contains(t, m.plainShown, "Bob / Bob")
	m, _ = update(t, m, tab)
	assert.NotContains(t, m.plainShown, "Bob / ")
}

func TestBrowseFilter(t *testing.T) {
	m := browseModel(t)
	m, _ = update(t, m, chatsLoadedMsg{chats: chats()})

	for _, r := range "elt" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Len(t, m.visible, 1)
	assert.Equal(t, "family/Eltern", m.visible[0].Key)
	assert.Equal(t, "/c/family/Eltern.txt", m.selectedPath())
}

func TestBrowseWatchEventDropsCache(t *testing.T) {
	events := make(chan watch.Event)
	m := newBrowseModel(nil, Options{ChatsDir: "/c", Report: stats.DefaultReportOptions(), Events: events})
	m, _ = update(t, m, chatsLoadedMsg{chats: chats()})
	m, _ = update(t, m, storeLoadedMsg{path: "/c/Bob.txt", store: bobStore()})
	require.Contains(t, m.stores, "/c/Bob.txt")

	m, cmd := update(t, m, watchMsg{ev: watch.Event{Path: "/c/Bob.txt", Op: watch.OpWrite}, ok: true})
	assert.NotContains(t, m.stores, "/c/Bob.txt")
	assert.Equal(t, "write: Bob", m.status)
	assert.NotNil(t, cmd)

	// closed watcher stops re-arming
	_, cmd = update(t, m, watchMsg{})
	assert.Nil(t, cmd)
}

func TestBrowseLoadError(t *testing.T) {
	m := browseModel(t)
	m, _ = update(t, m, chatsLoadedMsg{chats: chats()})
	m, _ = update(t, m, storeLoadedMsg{path: "/c/Bob.txt", err: assert.AnError})
	assert.NotContains(t, m.stores, "/c/Bob.txt")
	assert.Equal(t, "nothing to copy", m.copyReport())
}

func TestSearchResultsStaleQueryIgnored(t *testing.T) {
	m := newSearchModel(nil, "kino", Options{})
	m, _ = update(t, m, searchResultMsg{query: "other", results: []search.Result{{ChatKey: "Bob"}}})
	assert.Empty(t, m.results)

	m, cmd := update(t, m, searchResultMsg{query: "kino", results: []search.Result{{ChatKey: "Bob", Seq: 3}}})
	require.Len(t, m.results, 1)
	assert.NotNil(t, cmd, "preview of the first hit is loaded")

	m, _ = update(t, m, previewRenderedMsg{chatKey: "Bob", seq: 3, content: "hello"})
	assert.Equal(t, "Bob:3", m.previewKey)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.openResult)
	assert.Equal(t, 3, m.openResult.Seq)
}

func TestKeyHintsPerMode(t *testing.T) {
	inSearch := keys.hints(modeSearch)
	assert.Contains(t, inSearch, "enter open in editor")
	assert.NotContains(t, inSearch, "tab person")

	browse := keys.hints(modeBrowse)
	assert.Contains(t, browse, "tab person")
	assert.Contains(t, browse, "enter copy report")
	assert.Equal(t, "esc quit", browse[len(browse)-1])
}

func TestRenderListBothModes(t *testing.T) {
	m := browseModel(t)
	assert.Contains(t, m.renderList(30, 4), "No chats")

	m, _ = update(t, m, chatsLoadedMsg{chats: chats()})
	out := m.renderList(30, 4)
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "family/Eltern")

	s := newSearchModel(nil, "", Options{})
	assert.Contains(t, s.renderList(30, 4), "No results")

	s.results = []search.Result{{ChatKey: "Bob", Seq: 1, Sender: "Alice", Snippet: "ins >>>Kino<<<"}}
	assert.Contains(t, s.renderList(40, 4), "Kino")
}
