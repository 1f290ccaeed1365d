package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/wa-stats/internal/index"
	"github.com/Zuo-Peng/wa-stats/internal/open"
	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/scan"
	"github.com/Zuo-Peng/wa-stats/internal/search"
	"github.com/Zuo-Peng/wa-stats/internal/stats"
	"github.com/Zuo-Peng/wa-stats/internal/watch"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeBrowse
)

// Options configure both modes.
type Options struct {
	ChatsDir string
	Parse    parse.Options
	Report   stats.ReportOptions
	Search   search.Options
	Log      *slog.Logger
	Events   <-chan watch.Event // nil disables live reload
}

// message types

type searchResultMsg struct {
	query   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	db          *index.DB
	opts        Options
	mode        tuiMode
	query       string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // "chatKey:seq" or "path:person" to avoid duplicate renders
	width       int
	height      int
	ready       bool
	quitting    bool
	status      string

	// search mode
	results    []search.Result
	openResult *search.Result

	// browse mode
	chats      []scan.FileInfo          // every chat file
	visible    []scan.FileInfo          // chats matching the filter
	stores     map[string]*record.Store // parsed chats by path, dropped on change
	persons    map[string]int           // person filter per path, 0 = everyone
	plainShown string                   // uncolored report for the clipboard
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.SetValue(value)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	return ti
}

func newSearchModel(db *index.DB, query string, opts Options) model {
	return model{
		db:          db,
		opts:        opts,
		mode:        modeSearch,
		query:       query,
		filterInput: newInput("Search...", query),
		preview:     viewport.New(0, 0),
	}
}

func newBrowseModel(db *index.DB, opts Options) model {
	return model{
		db:          db,
		opts:        opts,
		mode:        modeBrowse,
		filterInput: newInput("Filter chats...", ""),
		preview:     viewport.New(0, 0),
		stores:      make(map[string]*record.Store),
		persons:     make(map[string]int),
	}
}

// Run starts the search TUI and blocks until it exits. If the user selects
// a result, the chat is opened in $EDITOR at that message.
func Run(db *index.DB, query string, opts Options) error {
	m := newSearchModel(db, query, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.openResult != nil {
		return open.OpenChat(db, fm.openResult.ChatKey, fm.openResult.Seq)
	}
	return nil
}

// Browse starts the chat browser: pick a chat on the left, read its report
// on the right.
func Browse(db *index.DB, opts Options) error {
	m := newBrowseModel(db, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init triggers the initial search/list load.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.mode == modeBrowse {
		cmds = append(cmds, loadChatsCmd(m.opts.ChatsDir), waitForEvent(m.opts.Events))
	} else if m.query != "" {
		cmds = append(cmds, m.doSearch(m.query))
	}
	return tea.Batch(cmds...)
}

func (m model) itemCount() int {
	if m.mode == modeBrowse {
		return len(m.visible)
	}
	return len(m.results)
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPreview())
		if m.mode == modeBrowse {
			m = m.showReport()
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case m.mode == modeBrowse && key.Matches(msg, keys.Copy):
			m.status = m.copyReport()
			return m, nil

		case m.mode == modeSearch && key.Matches(msg, keys.Open):
			if len(m.results) > 0 && m.cursor < len(m.results) {
				r := m.results[m.cursor]
				m.openResult = &r
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Person):
			if m.mode == modeBrowse {
				m = m.cyclePerson()
				return m, nil
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				return m.selectionChanged()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < m.itemCount()-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				return m.selectionChanged()
			}
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			if m.mode == modeBrowse {
				// local filter, no need to debounce
				m.applyFilter()
				m.cursor = 0
				m.listOffset = 0
				var cmd tea.Cmd
				m, cmd = m.loadCurrentReport()
				cmds = append(cmds, cmd)
			} else {
				cmds = append(cmds, m.scheduleDebouncedSearch(newQuery))
			}
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || m.itemCount() == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := max(m.itemCount()-visibleItems, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < m.itemCount() && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				return m.selectionChanged()
			}
			return m, nil

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}

		return m, nil

	case debounceTickMsg:
		// only fire search if query hasn't changed since debounce was scheduled
		if msg.query == m.query {
			cmds = append(cmds, m.doSearch(msg.query))
		}
		return m, tea.Batch(cmds...)

	case searchResultMsg:
		// only apply if this result matches current query
		if msg.query != m.query {
			return m, nil
		}
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if msg.err != nil {
			m.results = nil
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.results = msg.results
		if len(m.results) == 0 {
			m.preview.SetContent("")
			return m, nil
		}
		return m, m.loadCurrentPreview()

	case previewRenderedMsg:
		key := previewCacheKey(msg.chatKey, msg.seq)
		if key == m.previewKey {
			// already showing this preview
			return m, nil
		}
		if len(m.results) > 0 && m.cursor < len(m.results) {
			r := m.results[m.cursor]
			if key != previewCacheKey(r.ChatKey, r.Seq) {
				return m, nil // stale preview
			}
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			if msg.hitLine > 0 {
				m.preview.SetYOffset(msg.hitLine)
			} else {
				m.preview.GotoTop()
			}
		}
		m.previewKey = key
		return m, nil

	case chatsLoadedMsg:
		if msg.err != nil {
			m.status = "scan: " + msg.err.Error()
			return m, nil
		}
		selected := m.selectedPath()
		m.chats = msg.chats
		m.applyFilter()
		m.cursor = 0
		for i, fi := range m.visible {
			if fi.Path == selected {
				m.cursor = i
			}
		}
		m.adjustListScroll(m.panelHeight())
		return m.loadCurrentReport()

	case storeLoadedMsg:
		if msg.err != nil {
			m.opts.logger().Warn("load chat", "path", msg.path, "err", msg.err)
			if msg.path == m.selectedPath() {
				m.preview.SetContent("Error: " + msg.err.Error())
				m.previewKey = ""
				m.plainShown = ""
			}
			return m, nil
		}
		m.stores[msg.path] = msg.store
		if msg.path == m.selectedPath() {
			m = m.showReport()
		}
		return m, nil

	case watchMsg:
		if !msg.ok {
			return m, nil // watcher closed
		}
		delete(m.stores, msg.ev.Path)
		if msg.ev.Path == m.selectedPath() {
			m.previewKey = ""
		}
		m.status = fmt.Sprintf("%s: %s", msg.ev.Op, scan.ChatKey(m.opts.ChatsDir, msg.ev.Path))
		return m, tea.Batch(loadChatsCmd(m.opts.ChatsDir), waitForEvent(m.opts.Events))
	}

	return m, tea.Batch(cmds...)
}

func (o Options) logger() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

func (m model) selectionChanged() (tea.Model, tea.Cmd) {
	if m.mode == modeBrowse {
		return m.loadCurrentReport()
	}
	return m, m.loadCurrentPreview()
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listContent := m.renderList(listW, panelH)
	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(listContent)

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	return max(m.width*40/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + (relY / linesPerItem)
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	if m.mode == modeBrowse {
		parts = append(parts, fmt.Sprintf("%d chats", len(m.visible)))
		if fi, ok := m.selected(); ok {
			if s, ok := m.stores[fi.Path]; ok {
				who := m.person(s, fi.Path)
				if who == "" {
					who = "everyone"
				}
				parts = append(parts, stylePerson.Render(who))
			}
		}
	} else {
		parts = append(parts, fmt.Sprintf("%d results", len(m.results)))
	}
	parts = append(parts, keys.hints(m.mode)...)
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) doSearch(query string) tea.Cmd {
	db := m.db
	opts := m.opts.Search
	opts.Query = query
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return searchResultMsg{query: query}
		}
		results, err := search.Search(db, opts)
		return searchResultMsg{query: query, results: results, err: err}
	}
}

func (m model) scheduleDebouncedSearch(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	if m.mode != modeSearch || len(m.results) == 0 || m.cursor >= len(m.results) {
		return nil
	}
	r := m.results[m.cursor]
	if previewCacheKey(r.ChatKey, r.Seq) == m.previewKey {
		return nil // already showing this preview
	}
	return loadPreviewCmd(m.db, r, m.query, m.previewWidth(), m.opts.Parse.Location)
}

func previewCacheKey(chatKey string, seq int) string {
	return fmt.Sprintf("%s:%d", chatKey, seq)
}

// browse mode

func (m *model) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.query))
	m.visible = m.visible[:0:0]
	for _, fi := range m.chats {
		if q == "" || strings.Contains(strings.ToLower(fi.Key), q) {
			m.visible = append(m.visible, fi)
		}
	}
}

func (m model) selected() (scan.FileInfo, bool) {
	if m.mode != modeBrowse || m.cursor >= len(m.visible) {
		return scan.FileInfo{}, false
	}
	return m.visible[m.cursor], true
}

func (m model) selectedPath() string {
	fi, _ := m.selected()
	return fi.Path
}

// loadCurrentReport shows the cached report of the selected chat or starts
// parsing it.
func (m model) loadCurrentReport() (model, tea.Cmd) {
	fi, ok := m.selected()
	if !ok {
		m.preview.SetContent("")
		m.previewKey = ""
		m.plainShown = ""
		return m, nil
	}
	if _, ok := m.stores[fi.Path]; ok {
		return m.showReport(), nil
	}
	m.preview.SetContent("Loading " + fi.Key + "...")
	m.previewKey = ""
	m.plainShown = ""
	return m, loadStoreCmd(m.db, fi, m.opts.Parse, m.opts.logger())
}

// person returns the active person filter of the selected chat.
func (m model) person(s *record.Store, path string) string {
	senders := s.Senders()
	idx := m.persons[path]
	if idx <= 0 || idx > len(senders) {
		return ""
	}
	return senders[idx-1]
}

func (m model) cyclePerson() model {
	fi, ok := m.selected()
	if !ok {
		return m
	}
	s, ok := m.stores[fi.Path]
	if !ok {
		return m
	}
	m.persons[fi.Path] = (m.persons[fi.Path] + 1) % (len(s.Senders()) + 1)
	return m.showReport()
}

func (m model) showReport() model {
	fi, ok := m.selected()
	if !ok {
		return m
	}
	s, ok := m.stores[fi.Path]
	if !ok {
		return m
	}

	opts := m.opts.Report
	opts.Person = m.person(s, fi.Path)
	key := fi.Path + ":" + opts.Person
	if key == m.previewKey {
		return m
	}

	r := stats.BuildReport(s, opts)
	m.preview.SetContent(renderReport(r, m.previewWidth(), true))
	m.preview.GotoTop()
	m.plainShown = renderReport(r, m.previewWidth(), false)
	m.previewKey = key
	return m
}

func (m model) copyReport() string {
	if m.plainShown == "" {
		return "nothing to copy"
	}
	if err := clipboard.WriteAll(m.plainShown); err != nil {
		return "copy failed: " + err.Error()
	}
	return "report copied"
}
