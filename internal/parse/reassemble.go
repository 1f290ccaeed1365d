package parse

import (
	"regexp"
	"strings"
)

// messageStartRe matches the "DD.MM.YY, HH:MM - " prefix of a new message.
// Digit and separator positions accept any character; malformed dates are
// rejected later when the timestamp is parsed.
var messageStartRe = regexp.MustCompile(`^.{2}.{1}.{2}.{1}.{2}, .{2}:.{2} - `)

// IsMessageStart reports whether line begins a new message.
func IsMessageStart(line string) bool {
	return messageStartRe.MatchString(line)
}

// Reassemble merges continuation lines into the message they belong to.
// firstLine is the 1-based file line number of lines[0]. Lines that appear
// before any message start have nothing to attach to and are dropped.
func Reassemble(lines []string, firstLine int) ([]LogicalLine, Diagnostics) {
	var out []LogicalLine
	var diag Diagnostics

	for i, raw := range lines {
		line := trimEOL(raw)
		lineNum := firstLine + i

		if IsMessageStart(line) {
			out = append(out, LogicalLine{Text: line, LineNumber: lineNum})
			continue
		}

		if len(out) == 0 {
			diag.record(lineNum, SkipOrphan, line)
			continue
		}

		last := &out[len(out)-1]
		last.Text = last.Text + " " + line
	}

	return out, diag
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
