// Package record holds the parsed messages of one chat export.
package record

import (
	"slices"
	"time"

	"github.com/Zuo-Peng/wa-stats/internal/parse"
)

// Store is the ordered, read-only message table of a single chat file.
type Store struct {
	chatKey  string
	messages []parse.Message
	senders  []string
	diag     parse.Diagnostics
}

// New builds a store from messages in export order. The slice is copied.
func New(chatKey string, messages []parse.Message, diag parse.Diagnostics) *Store {
	s := &Store{
		chatKey:  chatKey,
		messages: slices.Clone(messages),
		diag:     diag,
	}

	seen := make(map[string]struct{})
	for _, m := range s.messages {
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		s.senders = append(s.senders, m.Sender)
	}
	return s
}

// FromResult wraps a parse result.
func FromResult(chatKey string, r *parse.ParseResult) *Store {
	return New(chatKey, r.Messages, r.Diagnostics)
}

func (s *Store) ChatKey() string { return s.chatKey }

func (s *Store) Len() int { return len(s.messages) }

func (s *Store) Diagnostics() parse.Diagnostics { return s.diag }

// Messages returns a copy of the messages in export order.
func (s *Store) Messages() []parse.Message {
	return slices.Clone(s.messages)
}

// Senders returns sender names in order of first appearance.
func (s *Store) Senders() []string {
	return slices.Clone(s.senders)
}

// BySender returns the messages sent by name. An empty name returns all
// messages.
func (s *Store) BySender(name string) []parse.Message {
	if name == "" {
		return s.Messages()
	}
	var out []parse.Message
	for _, m := range s.messages {
		if m.Sender == name {
			out = append(out, m)
		}
	}
	return out
}

// Span returns the first and last message timestamps. ok is false for an
// empty store.
func (s *Store) Span() (first, last time.Time, ok bool) {
	if len(s.messages) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.messages[0].Timestamp, s.messages[len(s.messages)-1].Timestamp, true
}
