package stats

import (
	"sort"

	"github.com/forPelevin/gomoji"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
)

// emojiDenylist holds code points that only modify a neighbouring emoji.
var emojiDenylist = map[rune]struct{}{
	0x1F3FB: {}, // light skin tone
	0x1F3FC: {}, // medium-light skin tone
	0x1F3FD: {}, // medium skin tone
	0x1F3FE: {}, // medium-dark skin tone
	0x1F3FF: {}, // dark skin tone
	0x2642:  {}, // male sign
	0x2640:  {}, // female sign
	0x200D:  {}, // zero width joiner
	0xFE0F:  {}, // variation selector-16
	0x20E3:  {}, // combining enclosing keycap
}

// IsEmoji reports whether r counts as a standalone emoji glyph.
func IsEmoji(r rune) bool {
	if r < 0x80 {
		return false
	}
	if _, denied := emojiDenylist[r]; denied {
		return false
	}
	return gomoji.ContainsEmoji(string(r))
}

// ExtractEmojis returns the emoji glyphs of body in order of appearance.
// Sequences are split into their code points; modifiers are dropped.
func ExtractEmojis(body string) []string {
	var out []string
	for _, r := range body {
		if IsEmoji(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// EmojiCount is one row of the emoji tally.
type EmojiCount struct {
	Sender string `json:"sender"`
	Emoji  string `json:"emoji"`
	Count  int    `json:"count"`
}

// EmojiTally counts emoji per sender. Every sender gets a row for every
// emoji seen in the chat, with zero when they never used it. Rows are
// ordered by count descending, then sender descending, then emoji.
func EmojiTally(msgs []parse.Message) []EmojiCount {
	var senders []string
	var glyphs []string
	counts := make(map[string]map[string]int)
	seenGlyph := make(map[string]struct{})

	for _, m := range msgs {
		perSender, ok := counts[m.Sender]
		if !ok {
			perSender = make(map[string]int)
			counts[m.Sender] = perSender
			senders = append(senders, m.Sender)
		}
		for _, e := range ExtractEmojis(m.Body) {
			perSender[e]++
			if _, ok := seenGlyph[e]; !ok {
				seenGlyph[e] = struct{}{}
				glyphs = append(glyphs, e)
			}
		}
	}

	rows := make([]EmojiCount, 0, len(senders)*len(glyphs))
	for _, s := range senders {
		for _, g := range glyphs {
			rows = append(rows, EmojiCount{Sender: s, Emoji: g, Count: counts[s][g]})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Sender != rows[j].Sender {
			return rows[i].Sender > rows[j].Sender
		}
		return rows[i].Emoji < rows[j].Emoji
	})
	return rows
}

// FilterEmojiCounts keeps rows whose count is at least min.
func FilterEmojiCounts(rows []EmojiCount, min int) []EmojiCount {
	var out []EmojiCount
	for _, r := range rows {
		if r.Count >= min {
			out = append(out, r)
		}
	}
	return out
}

// EmojiTotals sums the tally per sender, in order of first appearance.
func EmojiTotals(rows []EmojiCount) []SenderCount {
	var out []SenderCount
	idx := make(map[string]int)
	for _, r := range rows {
		i, ok := idx[r.Sender]
		if !ok {
			i = len(out)
			idx[r.Sender] = i
			out = append(out, SenderCount{Sender: r.Sender})
		}
		out[i].Count += r.Count
	}
	return out
}
