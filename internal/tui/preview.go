package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/wa-stats/internal/index"
	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/render"
	"github.com/Zuo-Peng/wa-stats/internal/scan"
	"github.com/Zuo-Peng/wa-stats/internal/search"
	"github.com/Zuo-Peng/wa-stats/internal/stats"
	"github.com/Zuo-Peng/wa-stats/internal/watch"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	chatKey string
	seq     int
	content string
	hitLine int
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders the conversation preview async.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int, loc *time.Location) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderConversation(db, r.ChatKey, render.Options{
			HitSeq:   r.Seq,
			Context:  -1,
			Width:    width,
			Query:    query,
			Location: loc,
		})
		return previewRenderedMsg{
			chatKey: r.ChatKey,
			seq:     r.Seq,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

type chatsLoadedMsg struct {
	chats []scan.FileInfo
	err   error
}

func loadChatsCmd(root string) tea.Cmd {
	return func() tea.Msg {
		chats, err := scan.ScanChats(root)
		return chatsLoadedMsg{chats: chats, err: err}
	}
}

type storeLoadedMsg struct {
	path  string
	store *record.Store
	err   error
}

// loadStoreCmd parses one chat (through the cache) off the UI goroutine.
func loadStoreCmd(db *index.DB, fi scan.FileInfo, opts parse.Options, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		s, err := index.LoadChat(db, fi, opts, log)
		return storeLoadedMsg{path: fi.Path, store: s, err: err}
	}
}

type watchMsg struct {
	ev watch.Event
	ok bool
}

// waitForEvent delivers the next watcher event. Update re-arms it.
func waitForEvent(events <-chan watch.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return watchMsg{ev: ev, ok: ok}
	}
}

func renderReport(r stats.Report, width int, color bool) string {
	return render.RenderReport(r, width, color)
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
