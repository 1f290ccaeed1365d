package parse

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Message is one parsed chat message. It is built by NewMessage and never
// modified afterwards.
type Message struct {
	Timestamp  time.Time
	Date       string // YYYY-MM-DD
	Clock      string // HH:MM
	Sender     string
	Body       string
	Weekday    time.Weekday
	Month      time.Month
	Year       int
	Hour       int
	TextLength int // runes in Body
	LineNumber int // line in the export file where the message starts
}

// NewMessage derives the calendar fields from ts.
func NewMessage(ts time.Time, sender, body string, lineNumber int) Message {
	return Message{
		Timestamp:  ts,
		Date:       ts.Format("2006-01-02"),
		Clock:      ts.Format("15:04"),
		Sender:     sender,
		Body:       body,
		Weekday:    ts.Weekday(),
		Month:      ts.Month(),
		Year:       ts.Year(),
		Hour:       ts.Hour(),
		TextLength: utf8.RuneCountInString(body),
		LineNumber: lineNumber,
	}
}

// LogicalLine is the full raw text of one message after continuation lines
// have been merged into it.
type LogicalLine struct {
	Text       string
	LineNumber int
}

// SkipReason says why a line did not become a message.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipOrphan
	SkipStructure
	SkipTimestamp
	SkipMedia
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipOrphan:
		return "orphan"
	case SkipStructure:
		return "structure"
	case SkipTimestamp:
		return "timestamp"
	case SkipMedia:
		return "media"
	default:
		return fmt.Sprintf("SkipReason(%d)", int(r))
	}
}

const maxSamples = 5

// SkippedLine is a sample of a line that was dropped.
type SkippedLine struct {
	LineNumber int
	Reason     SkipReason
	Text       string
}

// Diagnostics counts what the parser dropped. Media-omitted records are
// counted but are not considered parse problems.
type Diagnostics struct {
	OrphanLines  int
	Structure    int
	Timestamp    int
	MediaOmitted int
	Samples      []SkippedLine
}

// Skipped returns the number of lines dropped for being malformed.
func (d Diagnostics) Skipped() int {
	return d.OrphanLines + d.Structure + d.Timestamp
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("orphan=%d structure=%d timestamp=%d media=%d",
		d.OrphanLines, d.Structure, d.Timestamp, d.MediaOmitted)
}

func (d *Diagnostics) record(lineNumber int, reason SkipReason, text string) {
	switch reason {
	case SkipOrphan:
		d.OrphanLines++
	case SkipStructure:
		d.Structure++
	case SkipTimestamp:
		d.Timestamp++
	case SkipMedia:
		d.MediaOmitted++
		return
	default:
		return
	}
	if len(d.Samples) < maxSamples {
		if len(text) > 200 {
			text = strings.ToValidUTF8(text[:200], "")
		}
		d.Samples = append(d.Samples, SkippedLine{LineNumber: lineNumber, Reason: reason, Text: text})
	}
}

// ParseResult holds the messages of one export in file order.
type ParseResult struct {
	Messages    []Message
	Diagnostics Diagnostics
}
