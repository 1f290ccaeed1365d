package stats

import (
	"sort"
	"time"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
)

// WaitOptions tune which gaps count as a reply delay.
type WaitOptions struct {
	// FirstIndex is the first message index that gets a row. 1 skips only
	// the opening message; 2 reproduces older reports that also skipped the
	// second one.
	FirstIndex int
	// SleepGap is the longest gap still treated as a reply delay.
	SleepGap time.Duration
	// WakeHour: a reply on a later calendar day after this hour is treated
	// as a new session rather than a delay.
	WakeHour int
}

// DefaultWaitOptions returns the standard policy: skip the first message,
// drop gaps over six hours and replies after 5 AM on a later day.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{FirstIndex: 1, SleepGap: 6 * time.Hour, WakeHour: 5}
}

// WaitInterval is the delay before a message that starts a new turn.
// Minutes is nil when the gap is a sleep gap.
type WaitInterval struct {
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Minutes   *int      `json:"minutes"`
}

// WaitTimes computes one interval per turn change. Consecutive messages
// from the same sender produce no row.
func WaitTimes(msgs []parse.Message, opts WaitOptions) []WaitInterval {
	first := opts.FirstIndex
	if first < 1 {
		first = 1
	}

	var out []WaitInterval
	for i := first; i < len(msgs); i++ {
		prev, cur := msgs[i-1], msgs[i]
		if cur.Sender == prev.Sender {
			continue
		}
		out = append(out, WaitInterval{
			Sender:    cur.Sender,
			Timestamp: cur.Timestamp,
			Minutes:   waitMinutes(prev.Timestamp, cur.Timestamp, opts),
		})
	}
	return out
}

func waitMinutes(prev, cur time.Time, opts WaitOptions) *int {
	gap := cur.Sub(prev)
	if gap < 0 {
		return nil
	}
	if laterDay(prev, cur) && cur.Hour() > opts.WakeHour {
		return nil
	}
	if opts.SleepGap > 0 && gap > opts.SleepGap {
		return nil
	}
	m := int(gap / time.Minute)
	return &m
}

func laterDay(prev, cur time.Time) bool {
	py, pm, pd := prev.Date()
	cy, cm, cd := cur.Date()
	if cy != py {
		return cy > py
	}
	if cm != pm {
		return cm > pm
	}
	return cd > pd
}

// SenderMean is an average per sender. Samples is the number of values
// that went into Mean.
type SenderMean struct {
	Sender  string  `json:"sender"`
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
}

// MeanWaitBySender averages the non-nil wait minutes per sender. Senders
// whose intervals are all nil are reported with zero samples. Rows are
// sorted by sender.
func MeanWaitBySender(waits []WaitInterval) []SenderMean {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, w := range waits {
		if _, ok := counts[w.Sender]; !ok {
			counts[w.Sender] = 0
		}
		if w.Minutes == nil {
			continue
		}
		sums[w.Sender] += *w.Minutes
		counts[w.Sender]++
	}

	out := make([]SenderMean, 0, len(counts))
	for s, n := range counts {
		row := SenderMean{Sender: s, Samples: n}
		if n > 0 {
			row.Mean = float64(sums[s]) / float64(n)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sender < out[j].Sender })
	return out
}
