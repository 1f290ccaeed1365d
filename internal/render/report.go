package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/wa-stats/internal/stats"
)

const (
	labelWidth = 16
	maxEmojis  = 10
	barRune    = "█"
)

type bar struct {
	label string
	value float64
	text  string // printed after the bar
}

type reportWriter struct {
	b     strings.Builder
	width int
	color bool
}

func (w *reportWriter) paint(code, s string) string {
	if !w.color {
		return s
	}
	return code + s + colorReset
}

func (w *reportWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteString("\n")
}

func (w *reportWriter) section(title string) {
	w.b.WriteString("\n")
	w.line("%s", w.paint(colorBold, title))
}

// bars draws one horizontal bar per row, scaled to the largest value.
func (w *reportWriter) bars(rows []bar) {
	if len(rows) == 0 {
		w.line("  %s", w.paint(colorDim, "(none)"))
		return
	}
	peak := 0.0
	textW := 0
	for _, r := range rows {
		peak = max(peak, r.value)
		textW = max(textW, runewidth.StringWidth(r.text))
	}
	room := w.width - labelWidth - textW - 4
	if room < 1 {
		room = 1
	}
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.value / peak * float64(room))
		}
		if n == 0 && r.value > 0 {
			n = 1
		}
		label := runewidth.FillRight(runewidth.Truncate(r.label, labelWidth, "…"), labelWidth)
		w.line("  %s %s %s", label, w.paint(senderColors[0], strings.Repeat(barRune, n)), r.text)
	}
}

// RenderReport renders a text dashboard of r. Width bounds the bar length;
// color adds ANSI codes.
func RenderReport(r stats.Report, width int, color bool) string {
	if width <= 0 {
		width = 80
	}
	w := &reportWriter{width: width, color: color}

	title := r.ChatKey
	if r.Person != "" {
		title += " / " + r.Person
	}
	w.line("%s", w.paint(colorBold, title))
	w.line("%d messages from %d senders", r.Messages, len(r.Senders))
	if r.Messages > 0 {
		w.line("%s to %s", r.First.Format("2006-01-02 15:04"), r.Last.Format("2006-01-02 15:04"))
	}
	if d := r.Diagnostics; d.Skipped() > 0 || d.MediaOmitted > 0 {
		w.line("%s", w.paint(colorDim, "skipped: "+d.String()))
	}

	w.section("Messages per sender")
	var rows []bar
	for _, c := range r.PerSender {
		rows = append(rows, bar{c.Sender, float64(c.Count), fmt.Sprint(c.Count)})
	}
	w.bars(rows)

	w.section("Mean wait (minutes)")
	rows = rows[:0]
	for _, m := range r.MeanWait {
		if m.Samples == 0 {
			rows = append(rows, bar{m.Sender, 0, "-"})
			continue
		}
		rows = append(rows, bar{m.Sender, m.Mean, fmt.Sprintf("%.1f (n=%d)", m.Mean, m.Samples)})
	}
	w.bars(rows)

	w.section("Mean text length")
	rows = rows[:0]
	for _, m := range r.TextLength {
		rows = append(rows, bar{m.Sender, m.Mean, fmt.Sprintf("%.1f", m.Mean)})
	}
	w.bars(rows)

	w.section("Top emojis")
	rows = rows[:0]
	for _, e := range r.Emoji {
		if e.Count == 0 || len(rows) == maxEmojis {
			break
		}
		rows = append(rows, bar{e.Emoji + " " + e.Sender, float64(e.Count), fmt.Sprint(e.Count)})
	}
	w.bars(rows)
	if totals := stats.EmojiTotals(r.Emoji); len(totals) > 0 {
		parts := make([]string, len(totals))
		for i, t := range totals {
			parts[i] = fmt.Sprintf("%s %d", t.Sender, t.Count)
		}
		w.line("  %s", w.paint(colorDim, runewidth.Truncate("total: "+strings.Join(parts, ", "), w.width-2, "…")))
	}

	who := "all"
	if r.Person != "" {
		who = r.Person
	}

	w.section("Messages per hour (" + who + ")")
	rows = rows[:0]
	for _, h := range r.Hours {
		rows = append(rows, bar{fmt.Sprintf("%02d:00", h.Hour), h.Average, fmt.Sprintf("%.2f", h.Average)})
	}
	w.bars(rows)

	w.section("Messages per weekday (" + who + ")")
	rows = rows[:0]
	for _, d := range r.PerWeekday {
		rows = append(rows, bar{d.Weekday.String(), float64(d.Count), fmt.Sprint(d.Count)})
	}
	w.bars(rows)

	w.section("Messages per month")
	rows = rows[:0]
	for _, m := range r.PerMonth {
		rows = append(rows, bar{fmt.Sprintf("%d-%02d", m.Year, int(m.Month)), float64(m.Count), fmt.Sprint(m.Count)})
	}
	w.bars(rows)

	if r.Words != nil {
		w.section("Top words (" + who + ")")
		rows = rows[:0]
		for _, wc := range r.Words {
			label := wc.Word
			if r.Person == "" {
				label = wc.Sender + ": " + wc.Word
			}
			rows = append(rows, bar{label, float64(wc.Count), fmt.Sprint(wc.Count)})
		}
		w.bars(rows)
	}

	return w.b.String()
}
