package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utcOpts = Options{Location: time.UTC}

func TestParseBodyMultiLineExample(t *testing.T) {
	result, err := ParseBody("01.02.23, 09:15 - Alice: Hello\nworld\n02.02.23, 10:00 - Bob: Hi", utcOpts)
	require.NoError(t, err)
	require.Len(t, result.Messages, 2)

	alice := result.Messages[0]
	assert.Equal(t, "Alice", alice.Sender)
	assert.Equal(t, "Hello world", alice.Body)
	assert.Equal(t, 9, alice.Hour)
	assert.Equal(t, "2023-02-01", alice.Date)
	assert.Equal(t, "09:15", alice.Clock)
	assert.Equal(t, time.Wednesday, alice.Weekday)
	assert.Equal(t, time.February, alice.Month)
	assert.Equal(t, 2023, alice.Year)
	assert.Equal(t, 11, alice.TextLength)
	assert.Equal(t, 1, alice.LineNumber)

	bob := result.Messages[1]
	assert.Equal(t, "Bob", bob.Sender)
	assert.Equal(t, "Hi", bob.Body)
	assert.Equal(t, 10, bob.Hour)
	assert.Equal(t, 3, bob.LineNumber)
}

func TestParseLineSplitsOnFirstSeparators(t *testing.T) {
	msg, reason := ParseLine(LogicalLine{Text: "05.06.22, 18:30 - Carol: note: a, b - c", LineNumber: 7}, utcOpts)

	require.Equal(t, SkipNone, reason)
	assert.Equal(t, "Carol", msg.Sender)
	assert.Equal(t, "note: a, b - c", msg.Body)
	assert.Equal(t, time.Date(2022, 6, 5, 18, 30, 0, 0, time.UTC), msg.Timestamp)
	assert.Equal(t, 7, msg.LineNumber)
}

func TestParseLineSkipReasons(t *testing.T) {
	tests := []struct {
		name string
		text string
		want SkipReason
	}{
		{"missing colon", "01.02.23, 09:15 - Alice joined the group", SkipStructure},
		{"missing dash", "01.02.23, 09:15 Alice: hi", SkipStructure},
		{"missing comma", "01.02.23 09:15 - Alice: hi", SkipStructure},
		{"bad month", "01.13.23, 09:15 - Alice: hi", SkipTimestamp},
		{"wildcard date", "ab.cd.ef, 09:15 - Alice: hi", SkipTimestamp},
		{"media", "01.02.23, 09:15 - Alice: <Medien ausgeschlossen>", SkipMedia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, reason := ParseLine(LogicalLine{Text: tt.text}, utcOpts)
			assert.Equal(t, tt.want, reason)
			assert.Empty(t, msg.Sender)
		})
	}
}

func TestParseLineMediaPlaceholderIsExactMatch(t *testing.T) {
	msg, reason := ParseLine(LogicalLine{Text: "01.02.23, 09:15 - Alice: <Medien ausgeschlossen> lol"}, utcOpts)
	require.Equal(t, SkipNone, reason)
	assert.Equal(t, "<Medien ausgeschlossen> lol", msg.Body)
}

func TestParseLineCustomPlaceholder(t *testing.T) {
	opts := Options{Location: time.UTC, MediaPlaceholder: "<Media omitted>"}

	_, reason := ParseLine(LogicalLine{Text: "01.02.23, 09:15 - Alice: <Media omitted>"}, opts)
	assert.Equal(t, SkipMedia, reason)

	_, reason = ParseLine(LogicalLine{Text: "01.02.23, 09:15 - Alice: <Medien ausgeschlossen>"}, opts)
	assert.Equal(t, SkipNone, reason)
}

func TestParseBodyNeverReturnsPlaceholder(t *testing.T) {
	body := strings.Join([]string{
		"01.02.23, 09:15 - Alice: <Medien ausgeschlossen>",
		"01.02.23, 09:16 - Bob: <Medien ausgeschlossen>",
		"01.02.23, 09:17 - Alice: text",
		"01.02.23, 09:18 - Bob: <Medien ausgeschlossen>",
	}, "\n")

	result, err := ParseBody(body, utcOpts)
	require.NoError(t, err)

	for _, m := range result.Messages {
		assert.NotEqual(t, DefaultMediaPlaceholder, m.Body)
	}
	assert.Len(t, result.Messages, 1)
	assert.Equal(t, 3, result.Diagnostics.MediaOmitted)
	assert.Zero(t, result.Diagnostics.Skipped())
}

func TestParseBodyMalformedLinesDoNotAffectNeighbours(t *testing.T) {
	body := strings.Join([]string{
		"01.02.23, 09:15 - Alice: first",
		"01.02.23, 09:16 - Bob changed the group name",
		"01.02.23, 09:17 - garbage without sender separator",
		"01.02.23, 09:18 - Bob: second",
	}, "\n")

	result, err := ParseBody(body, utcOpts)
	require.NoError(t, err)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, "first", result.Messages[0].Body)
	assert.Equal(t, "second", result.Messages[1].Body)
	assert.Equal(t, "Bob", result.Messages[1].Sender)
	assert.Equal(t, 2, result.Diagnostics.Structure)
}

func TestParseDropsHeader(t *testing.T) {
	export := "Nachrichten und Anrufe sind Ende-zu-Ende-verschlüsselt.\n" +
		"01.02.23, 09:15 - Alice: Hello\n" +
		"02.02.23, 10:00 - Bob: Hi\n"

	result, err := Parse(strings.NewReader(export), utcOpts)
	require.NoError(t, err)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, 2, result.Messages[0].LineNumber)
	assert.Equal(t, "Hi", result.Messages[1].Body)
}

func TestParseHeaderOnlyAndEmpty(t *testing.T) {
	result, err := Parse(strings.NewReader(""), utcOpts)
	require.NoError(t, err)
	assert.Empty(t, result.Messages)

	result, err = Parse(strings.NewReader("header only\n"), utcOpts)
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := Parse(strings.NewReader("header\n01.02.23, 09:15 - Alice: \xff\xfe"), utcOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
}

func TestParseStrictMode(t *testing.T) {
	export := "header\n" +
		"01.02.23, 09:15 - Alice: ok\n" +
		"01.02.23, 09:16 - Bob left\n"

	result, err := Parse(strings.NewReader(export), utcOpts)
	require.NoError(t, err, "lenient by default")
	assert.Len(t, result.Messages, 1)
	assert.Equal(t, 1, result.Diagnostics.Skipped())

	strict := utcOpts
	strict.Strict = true
	result, err = Parse(strings.NewReader(export), strict)
	require.Error(t, err)
	assert.Nil(t, result)

	var skipErr *SkipError
	require.True(t, errors.As(err, &skipErr))
	assert.Equal(t, 1, skipErr.Diagnostics.Structure)
	require.Len(t, skipErr.Diagnostics.Samples, 1)
	assert.Equal(t, 3, skipErr.Diagnostics.Samples[0].LineNumber)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseStrictIgnoresMedia(t *testing.T) {
	export := "header\n01.02.23, 09:15 - Alice: <Medien ausgeschlossen>\n"
	result, err := Parse(strings.NewReader(export), Options{Location: time.UTC, Strict: true})
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("header\n01.02.23, 09:15 - Alice: Hi\n"), 0o644))

	result, err := ParseFile(path, utcOpts)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	_, err = ParseFile(filepath.Join(dir, "missing.txt"), utcOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseTextLengthCountsRunes(t *testing.T) {
	result, err := ParseBody("01.02.23, 09:15 - Jörg: Grüße 😀", utcOpts)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "Jörg", result.Messages[0].Sender)
	assert.Equal(t, 7, result.Messages[0].TextLength)
}

func TestSkipReasonString(t *testing.T) {
	assert.Equal(t, "structure", SkipStructure.String())
	assert.Equal(t, "SkipReason(42)", SkipReason(42).String())
}

func TestParseDefaultsToWallClock(t *testing.T) {
	// 02:30 on 26.03.23 does not exist in Europe/Berlin; the export still writes it.
	body := "26.03.23, 01:50 - Alice: hi\n" +
		"26.03.23, 02:30 - Bob: yo\n" +
		"26.03.23, 03:10 - Alice: late"

	result, err := ParseBody(body, Options{})
	require.NoError(t, err)
	require.Len(t, result.Messages, 3)

	bob := result.Messages[1]
	assert.Equal(t, "02:30", bob.Clock)
	assert.Equal(t, 2, bob.Hour)
	assert.Equal(t, time.UTC, bob.Timestamp.Location())

	for i := 1; i < len(result.Messages); i++ {
		assert.False(t, result.Messages[i].Timestamp.Before(result.Messages[i-1].Timestamp),
			"message %d goes back in time", i)
	}
}
