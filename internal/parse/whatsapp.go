package parse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMediaPlaceholder is the body the German export writes in place of
// attachments.
const DefaultMediaPlaceholder = "<Medien ausgeschlossen>"

const timestampLayout = "02.01.06 15:04"

// ErrInvalidUTF8 is returned when the export is not UTF-8 text.
var ErrInvalidUTF8 = errors.New("export is not valid UTF-8")

// Options control how an export is parsed. The zero value is usable.
type Options struct {
	Location         *time.Location // defaults to UTC, i.e. the wall clock as written
	MediaPlaceholder string         // defaults to DefaultMediaPlaceholder
	Strict           bool           // fail with *SkipError when lines were dropped
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.MediaPlaceholder == "" {
		o.MediaPlaceholder = DefaultMediaPlaceholder
	}
	return o
}

// SkipError is returned in strict mode when malformed lines were dropped.
type SkipError struct {
	Diagnostics Diagnostics
}

func (e *SkipError) Error() string {
	msg := fmt.Sprintf("%d malformed lines skipped (%s)", e.Diagnostics.Skipped(), e.Diagnostics)
	if len(e.Diagnostics.Samples) > 0 {
		s := e.Diagnostics.Samples[0]
		msg += fmt.Sprintf("; first at line %d (%s): %q", s.LineNumber, s.Reason, s.Text)
	}
	return msg
}

// ParseLine splits a logical line into a Message. A non-zero SkipReason means
// the line does not hold a text message and the returned Message is empty.
func ParseLine(l LogicalLine, opts Options) (Message, SkipReason) {
	opts = opts.withDefaults()

	date, rest, ok := strings.Cut(l.Text, ", ")
	if !ok {
		return Message{}, SkipStructure
	}
	clock, rest, ok := strings.Cut(rest, " - ")
	if !ok {
		return Message{}, SkipStructure
	}
	sender, body, ok := strings.Cut(rest, ": ")
	if !ok {
		return Message{}, SkipStructure
	}

	ts, err := time.ParseInLocation(timestampLayout, date+" "+clock, opts.Location)
	if err != nil {
		return Message{}, SkipTimestamp
	}

	if body == opts.MediaPlaceholder {
		return Message{}, SkipMedia
	}

	return NewMessage(ts, sender, body, l.LineNumber), SkipNone
}

// ParseLines reassembles and parses export lines that follow the header.
// firstLine is the file line number of lines[0].
func ParseLines(lines []string, firstLine int, opts Options) (*ParseResult, error) {
	opts = opts.withDefaults()

	logical, diag := Reassemble(lines, firstLine)
	result := &ParseResult{Messages: make([]Message, 0, len(logical))}

	for _, l := range logical {
		msg, reason := ParseLine(l, opts)
		if reason != SkipNone {
			diag.record(l.LineNumber, reason, l.Text)
			continue
		}
		result.Messages = append(result.Messages, msg)
	}
	result.Diagnostics = diag

	if opts.Strict && diag.Skipped() > 0 {
		return nil, &SkipError{Diagnostics: diag}
	}
	return result, nil
}

// ParseBody parses export text that has no header line.
func ParseBody(text string, opts Options) (*ParseResult, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}
	return ParseLines(splitLines(text), 1, opts)
}

// Parse reads a complete export. The first line is the export header and
// is discarded.
func Parse(r io.Reader, opts Options) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	lines := splitLines(string(data))
	if len(lines) <= 1 {
		return &ParseResult{}, nil
	}
	return ParseLines(lines[1:], 2, opts)
}

// ParseFile parses the export at path.
func ParseFile(path string, opts Options) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return result, nil
}

// splitLines splits on '\n' without producing a trailing empty line for a
// final newline.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
