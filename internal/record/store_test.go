package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
)

func msgAt(minute int, sender, body string) parse.Message {
	return parse.NewMessage(time.Date(2023, 2, 1, 9, minute, 0, 0, time.UTC), sender, body, minute+1)
}

func TestStoreSendersFirstAppearance(t *testing.T) {
	s := New("chat", []parse.Message{
		msgAt(0, "Bob", "a"),
		msgAt(1, "Alice", "b"),
		msgAt(2, "Bob", "c"),
		msgAt(3, "Carol", "d"),
	}, parse.Diagnostics{})

	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, s.Senders())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "chat", s.ChatKey())
}

func TestStoreIsReadOnly(t *testing.T) {
	in := []parse.Message{msgAt(0, "Bob", "a")}
	s := New("chat", in, parse.Diagnostics{})

	in[0].Body = "changed"
	got := s.Messages()
	got[0].Body = "changed too"

	assert.Equal(t, "a", s.Messages()[0].Body)
}

func TestStoreBySender(t *testing.T) {
	s := New("chat", []parse.Message{
		msgAt(0, "Bob", "a"),
		msgAt(1, "Alice", "b"),
		msgAt(2, "Bob", "c"),
	}, parse.Diagnostics{})

	bob := s.BySender("Bob")
	require.Len(t, bob, 2)
	assert.Equal(t, "c", bob[1].Body)
	assert.Len(t, s.BySender(""), 3)
	assert.Empty(t, s.BySender("Nobody"))
}

func TestStoreSpan(t *testing.T) {
	_, _, ok := New("empty", nil, parse.Diagnostics{}).Span()
	assert.False(t, ok)

	s := New("chat", []parse.Message{msgAt(0, "A", "x"), msgAt(5, "B", "y")}, parse.Diagnostics{})
	first, last, ok := s.Span()
	require.True(t, ok)
	assert.Equal(t, 0, first.Minute())
	assert.Equal(t, 5, last.Minute())
}

func TestFromResult(t *testing.T) {
	r := &parse.ParseResult{
		Messages:    []parse.Message{msgAt(0, "A", "x")},
		Diagnostics: parse.Diagnostics{Structure: 2},
	}
	s := FromResult("k", r)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, s.Diagnostics().Skipped())
}
