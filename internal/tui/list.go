package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/wa-stats/internal/scan"
	"github.com/Zuo-Peng/wa-stats/internal/search"
)

// linesPerItem is the number of terminal lines each list entry occupies.
const linesPerItem = 2

// renderList renders the left panel with scrolling: search results or chats.
func (m model) renderList(width, height int) string {
	if m.itemCount() == 0 {
		text := "No results"
		if m.mode == modeBrowse {
			text = "No chats"
		}
		return lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(text)
	}

	var lines []string
	for i := m.listOffset; i < m.itemCount(); i++ {
		if len(lines)+linesPerItem > height {
			break
		}
		if m.mode == modeBrowse {
			lines = append(lines, m.formatChatLine(m.visible[i], width, i == m.cursor)...)
		} else {
			lines = append(lines, formatResultLine(m.results[i], width, i == m.cursor)...)
		}
	}

	// pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

func selectPrefix(line string, selected bool) string {
	if selected {
		return styleListSelected.Render("> ") + line
	}
	return "  " + line
}

func fit(s string, w int) string {
	w = max(w, 0)
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, "")
	}
	return s
}

// formatResultLine formats a single search result as two lines:
//
//	line 1: [>] date time  chat  sender
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	when := r.Ts.Format("06-01-02 15:04")
	head := fit(r.ChatKey+" · "+r.Sender, width-2-len(when)-1)
	line1 := selectPrefix(styleDate.Render(when)+" "+styleSender.Render(head), selected)

	snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	line2 := "    " + lipgloss.NewStyle().Foreground(colorMuted).Render(fit(snippet, width-4))

	return []string{line1, line2}
}

// formatChatLine formats a chat file as two lines:
//
//	line 1: [>] chat key
//	line 2:    size, person filter, load state (dimmed)
func (m model) formatChatLine(fi scan.FileInfo, width int, selected bool) []string {
	line1 := selectPrefix(fit(fi.Key, width-2), selected)

	info := fmt.Sprintf("%.1f KB", float64(fi.Size)/1024)
	if s, ok := m.stores[fi.Path]; ok {
		info = fmt.Sprintf("%d messages", s.Len())
		if p := m.person(s, fi.Path); p != "" {
			info += " · " + p
		}
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorMuted).Render(fit(info, width-4))

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
