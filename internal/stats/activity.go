// Package stats derives aggregate tables from parsed chat messages. All
// functions are pure and leave their input untouched.
package stats

import (
	"sort"
	"time"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
)

type SenderCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

// MessagesPerSender counts messages per sender, most active first.
func MessagesPerSender(msgs []parse.Message) []SenderCount {
	counts := make(map[string]int)
	for _, m := range msgs {
		counts[m.Sender]++
	}
	out := make([]SenderCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SenderCount{Sender: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sender < out[j].Sender
	})
	return out
}

type DateCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// MessagesPerDate counts messages per calendar day over the whole span of
// the chat. Days without messages are included with a zero count.
func MessagesPerDate(msgs []parse.Message) []DateCount {
	if len(msgs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	first, last := msgs[0].Timestamp, msgs[0].Timestamp
	for _, m := range msgs {
		counts[m.Date]++
		if m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}

	day := startOfDay(first)
	end := startOfDay(last)
	var out []DateCount
	for !day.After(end) {
		key := day.Format("2006-01-02")
		out = append(out, DateCount{Date: key, Count: counts[key]})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type HourAverage struct {
	Hour    int     `json:"hour"`
	Average float64 `json:"average"`
}

// AverageMessagesPerHour divides the message count of every active hour of
// the day by the number of active hours. Hours without messages are omitted.
func AverageMessagesPerHour(msgs []parse.Message) []HourAverage {
	var counts [24]int
	for _, m := range msgs {
		counts[m.Hour]++
	}

	active := 0
	for _, n := range counts {
		if n > 0 {
			active++
		}
	}

	var out []HourAverage
	for h, n := range counts {
		if n == 0 {
			continue
		}
		out = append(out, HourAverage{Hour: h, Average: float64(n) / float64(active)})
	}
	return out
}

type WeekdayCount struct {
	Weekday time.Weekday `json:"weekday"`
	Count   int          `json:"count"`
}

// MessagesPerWeekday counts messages per weekday, Monday first.
func MessagesPerWeekday(msgs []parse.Message) []WeekdayCount {
	var counts [7]int
	for _, m := range msgs {
		counts[m.Weekday]++
	}
	out := make([]WeekdayCount, 0, 7)
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		out = append(out, WeekdayCount{Weekday: wd, Count: counts[wd]})
	}
	return out
}

type MonthCount struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// MessagesPerMonth counts messages per calendar month in chronological order.
func MessagesPerMonth(msgs []parse.Message) []MonthCount {
	var out []MonthCount
	idx := make(map[[2]int]int)
	for _, m := range msgs {
		key := [2]int{m.Year, int(m.Month)}
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, MonthCount{Year: m.Year, Month: m.Month})
		}
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// DefaultMaxTextLength cuts off long outliers in text length tables.
const DefaultMaxTextLength = 200

type TextLength struct {
	Sender string `json:"sender"`
	Length int    `json:"length"`
}

// TextLengths lists the length of every message no longer than max.
// max <= 0 keeps all messages.
func TextLengths(msgs []parse.Message, max int) []TextLength {
	var out []TextLength
	for _, m := range msgs {
		if max > 0 && m.TextLength > max {
			continue
		}
		out = append(out, TextLength{Sender: m.Sender, Length: m.TextLength})
	}
	return out
}

// MeanTextLength averages message length per sender, sorted by sender.
func MeanTextLength(msgs []parse.Message) []SenderMean {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, m := range msgs {
		sums[m.Sender] += m.TextLength
		counts[m.Sender]++
	}
	out := make([]SenderMean, 0, len(counts))
	for s, n := range counts {
		out = append(out, SenderMean{Sender: s, Mean: float64(sums[s]) / float64(n), Samples: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sender < out[j].Sender })
	return out
}
