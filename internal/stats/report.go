package stats

import (
	"time"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/textnorm"
)

// ReportOptions select the person filter and the knobs of each table.
type ReportOptions struct {
	Person        string // "" = whole chat for per-person tables
	Wait          WaitOptions
	MaxTextLength int
	EmojiMinCount int
	TopWords      int
	Normalizer    *textnorm.Normalizer // nil skips the word table
}

// DashboardEmojiMinCount hides rarely used emojis from the dashboard.
const DashboardEmojiMinCount = 5

// DefaultReportOptions keeps every table unfiltered. Dashboards raise
// EmojiMinCount to DashboardEmojiMinCount.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Wait:          DefaultWaitOptions(),
		MaxTextLength: DefaultMaxTextLength,
		EmojiMinCount: 1,
		TopWords:      10,
	}
}

// Report is every aggregate of one chat.
type Report struct {
	ChatKey     string            `json:"chatKey"`
	Person      string            `json:"person,omitempty"`
	Messages    int               `json:"messages"`
	Senders     []string          `json:"senders"`
	First       time.Time         `json:"first"`
	Last        time.Time         `json:"last"`
	Diagnostics parse.Diagnostics `json:"diagnostics"`

	PerSender  []SenderCount  `json:"perSender"`
	PerDate    []DateCount    `json:"perDate"`
	PerWeekday []WeekdayCount `json:"perWeekday"`
	PerMonth   []MonthCount   `json:"perMonth"`
	TextLength []SenderMean   `json:"textLength"`
	Emoji      []EmojiCount   `json:"emoji"`
	Waits      []WaitInterval `json:"waits"`
	MeanWait   []SenderMean   `json:"meanWait"`

	// per person when Person is set
	Hours   []HourAverage `json:"hours"`
	Lengths []TextLength  `json:"lengths"`
	Words   []WordCount   `json:"words,omitempty"`
}

// BuildReport computes the report for s.
func BuildReport(s *record.Store, opts ReportOptions) Report {
	all := s.Messages()
	mine := s.BySender(opts.Person)

	r := Report{
		ChatKey:     s.ChatKey(),
		Person:      opts.Person,
		Messages:    s.Len(),
		Senders:     s.Senders(),
		Diagnostics: s.Diagnostics(),
		PerSender:   MessagesPerSender(all),
		PerDate:     MessagesPerDate(all),
		PerWeekday:  MessagesPerWeekday(mine),
		PerMonth:    MessagesPerMonth(all),
		TextLength:  MeanTextLength(all),
		Emoji:       FilterEmojiCounts(EmojiTally(all), opts.EmojiMinCount),
		Hours:       AverageMessagesPerHour(mine),
		Lengths:     TextLengths(mine, opts.MaxTextLength),
	}
	if first, last, ok := s.Span(); ok {
		r.First, r.Last = first, last
	}

	r.Waits = WaitTimes(all, opts.Wait)
	r.MeanWait = MeanWaitBySender(r.Waits)

	if opts.Normalizer != nil {
		r.Words = TopWords(mine, opts.Normalizer, opts.TopWords)
	}
	return r
}
