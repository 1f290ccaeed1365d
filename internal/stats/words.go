package stats

import (
	"sort"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/textnorm"
)

type WordCount struct {
	Sender string `json:"sender"`
	Word   string `json:"word"`
	Count  int    `json:"count"`
}

// TopWords returns up to limit most frequent normalized words per sender.
// Senders appear in order of first message; words by count, then
// alphabetically. limit <= 0 returns every word.
func TopWords(msgs []parse.Message, n *textnorm.Normalizer, limit int) []WordCount {
	var senders []string
	counts := make(map[string]map[string]int)
	for _, m := range msgs {
		perSender, ok := counts[m.Sender]
		if !ok {
			perSender = make(map[string]int)
			counts[m.Sender] = perSender
			senders = append(senders, m.Sender)
		}
		for _, w := range n.Tokens(m.Body) {
			perSender[w]++
		}
	}

	var out []WordCount
	for _, s := range senders {
		rows := make([]WordCount, 0, len(counts[s]))
		for w, c := range counts[s] {
			rows = append(rows, WordCount{Sender: s, Word: w, Count: c})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Count != rows[j].Count {
				return rows[i].Count > rows[j].Count
			}
			return rows[i].Word < rows[j].Word
		})
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		out = append(out, rows...)
	}
	return out
}
