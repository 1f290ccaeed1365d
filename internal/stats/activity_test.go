package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
	"github.com/Zuo-Peng/wa-stats/internal/record"
	"github.com/Zuo-Peng/wa-stats/internal/textnorm"
)

func TestMessagesPerSender(t *testing.T) {
	got := MessagesPerSender(conversation())
	assert.Equal(t, []SenderCount{{"B", 5}, {"A", 4}}, got)

	tie := MessagesPerSender([]parse.Message{msg(at(1, 1, 0), "Zoe", "x"), msg(at(1, 1, 1), "Ann", "y")})
	assert.Equal(t, []SenderCount{{"Ann", 1}, {"Zoe", 1}}, tie)
}

func TestMessagesPerDateFillsGaps(t *testing.T) {
	msgs := []parse.Message{
		msg(at(1, 9, 0), "A", "x"),
		msg(at(1, 10, 0), "B", "y"),
		msg(at(4, 8, 0), "A", "z"),
	}
	got := MessagesPerDate(msgs)
	assert.Equal(t, []DateCount{
		{"2023-02-01", 2},
		{"2023-02-02", 0},
		{"2023-02-03", 0},
		{"2023-02-04", 1},
	}, got)

	assert.Nil(t, MessagesPerDate(nil))
}

func TestAverageMessagesPerHour(t *testing.T) {
	msgs := []parse.Message{
		msg(at(1, 9, 0), "A", "x"),
		msg(at(1, 9, 5), "A", "x"),
		msg(at(2, 9, 0), "A", "x"),
		msg(at(1, 21, 0), "A", "x"),
	}
	got := AverageMessagesPerHour(msgs)
	assert.Equal(t, []HourAverage{{9, 1.5}, {21, 0.5}}, got)
	assert.Empty(t, AverageMessagesPerHour(nil))
}

func TestMessagesPerWeekday(t *testing.T) {
	// 2023-02-05 is a Sunday, 2023-02-06 a Monday
	got := MessagesPerWeekday([]parse.Message{
		msg(at(5, 9, 0), "A", "x"),
		msg(at(6, 9, 0), "A", "x"),
		msg(at(6, 10, 0), "A", "x"),
	})
	require.Len(t, got, 7)
	assert.Equal(t, WeekdayCount{time.Monday, 2}, got[0])
	assert.Equal(t, WeekdayCount{time.Sunday, 1}, got[6])
}

func TestMessagesPerMonth(t *testing.T) {
	got := MessagesPerMonth([]parse.Message{
		msg(time.Date(2022, 12, 31, 9, 0, 0, 0, time.UTC), "A", "x"),
		msg(time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC), "A", "x"),
		msg(time.Date(2023, 1, 9, 9, 0, 0, 0, time.UTC), "B", "x"),
	})
	assert.Equal(t, []MonthCount{{2022, time.December, 1}, {2023, time.January, 2}}, got)
}

func TestTextLengths(t *testing.T) {
	long := make([]rune, 250)
	for i := range long {
		long[i] = 'x'
	}
	msgs := []parse.Message{
		msg(at(1, 9, 0), "A", "hello"),
		msg(at(1, 9, 1), "B", string(long)),
	}

	assert.Equal(t, []TextLength{{"A", 5}}, TextLengths(msgs, DefaultMaxTextLength))
	assert.Len(t, TextLengths(msgs, 0), 2)

	means := MeanTextLength(msgs)
	assert.Equal(t, []SenderMean{{"A", 5, 1}, {"B", 250, 1}}, means)
}

func TestTopWords(t *testing.T) {
	lang, err := textnorm.German()
	require.NoError(t, err)
	n := textnorm.New(lang)

	msgs := []parse.Message{
		msg(at(1, 9, 0), "A", "Kino heute? Kino!"),
		msg(at(1, 9, 1), "B", "Ich gehe ins Kino"),
		msg(at(1, 9, 2), "A", "Pizza und Kino"),
	}

	got := TopWords(msgs, n, 2)
	assert.Equal(t, []WordCount{
		{"A", "kino", 3},
		{"A", "heute", 1},
		{"B", "gehen", 1},
		{"B", "kino", 1},
	}, got)
}

func TestBuildReport(t *testing.T) {
	s := record.New("chat", conversation(), parse.Diagnostics{Structure: 1})

	opts := DefaultReportOptions()
	opts.Person = "B"
	r := BuildReport(s, opts)

	assert.Equal(t, "chat", r.ChatKey)
	assert.Equal(t, 9, r.Messages)
	assert.Equal(t, []string{"A", "B"}, r.Senders)
	assert.Equal(t, at(1, 9, 0), r.First)
	assert.Equal(t, at(3, 0, 20), r.Last)
	assert.Equal(t, 1, r.Diagnostics.Structure)
	assert.Len(t, r.PerDate, 3)
	assert.Len(t, r.Waits, 7)
	assert.Len(t, r.MeanWait, 2)
	assert.Len(t, r.Lengths, 5, "lengths are per person")
	assert.Nil(t, r.Words, "no normalizer, no words")

	hours := make([]int, 0, len(r.Hours))
	for _, h := range r.Hours {
		hours = append(hours, h.Hour)
	}
	assert.Equal(t, []int{0, 7, 9, 16}, hours)
	assert.InDelta(t, 0.5, r.Hours[2].Average, 1e-9)
}

func TestBuildReportWords(t *testing.T) {
	lang, err := textnorm.German()
	require.NoError(t, err)

	s := record.New("chat", []parse.Message{
		msg(at(1, 9, 0), "A", "Kino?"),
		msg(at(1, 9, 1), "B", "Kino!"),
	}, parse.Diagnostics{})

	opts := DefaultReportOptions()
	opts.Normalizer = textnorm.New(lang)
	r := BuildReport(s, opts)
	assert.Equal(t, []WordCount{{"A", "kino", 1}, {"B", "kino", 1}}, r.Words)
}
