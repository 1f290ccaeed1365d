package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/wa-stats/internal/stats"
)

// TableNames lists the report tables in "all" order.
var TableNames = []string{
	"senders", "emoji", "wait", "intervals", "hours",
	"weekdays", "dates", "months", "lengths", "words",
}

// ReportTables converts the named tables of r. "all" expands to TableNames.
func ReportTables(r stats.Report, names []string) ([]Table, error) {
	var expanded []string
	for _, n := range names {
		if n == "all" {
			expanded = append(expanded, TableNames...)
			continue
		}
		expanded = append(expanded, n)
	}

	tables := make([]Table, 0, len(expanded))
	for _, n := range expanded {
		t, err := reportTable(r, n)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func reportTable(r stats.Report, name string) (Table, error) {
	switch name {
	case "senders":
		means := make(map[string]float64, len(r.TextLength))
		for _, m := range r.TextLength {
			means[m.Sender] = m.Mean
		}
		t := Table{Title: "Messages per sender", Headers: []string{"Sender", "Messages", "Mean length"}, Numeric: []bool{false, true, true}, Data: r.PerSender}
		for _, c := range r.PerSender {
			t.Rows = append(t.Rows, []string{c.Sender, strconv.Itoa(c.Count), fmt.Sprintf("%.1f", means[c.Sender])})
		}
		return t, nil

	case "emoji":
		t := Table{Title: "Emoji", Headers: []string{"Sender", "Emoji", "Count"}, Numeric: []bool{false, false, true}, Data: r.Emoji}
		for _, e := range r.Emoji {
			t.Rows = append(t.Rows, []string{e.Sender, e.Emoji, strconv.Itoa(e.Count)})
		}
		return t, nil

	case "wait":
		t := Table{Title: "Mean wait (minutes)", Headers: []string{"Sender", "Mean", "Samples"}, Numeric: []bool{false, true, true}, Data: r.MeanWait}
		for _, m := range r.MeanWait {
			mean := ""
			if m.Samples > 0 {
				mean = fmt.Sprintf("%.1f", m.Mean)
			}
			t.Rows = append(t.Rows, []string{m.Sender, mean, strconv.Itoa(m.Samples)})
		}
		return t, nil

	case "intervals":
		t := Table{Title: "Wait intervals", Headers: []string{"Sender", "Time", "Minutes"}, Numeric: []bool{false, false, true}, Data: r.Waits}
		for _, w := range r.Waits {
			minutes := ""
			if w.Minutes != nil {
				minutes = strconv.Itoa(*w.Minutes)
			}
			t.Rows = append(t.Rows, []string{w.Sender, w.Timestamp.Format("2006-01-02 15:04"), minutes})
		}
		return t, nil

	case "hours":
		t := Table{Title: "Average messages per hour" + personSuffix(r), Headers: []string{"Hour", "Average"}, Numeric: []bool{true, true}, Data: r.Hours}
		for _, h := range r.Hours {
			t.Rows = append(t.Rows, []string{strconv.Itoa(h.Hour), fmt.Sprintf("%.2f", h.Average)})
		}
		return t, nil

	case "weekdays":
		t := Table{Title: "Messages per weekday" + personSuffix(r), Headers: []string{"Weekday", "Messages"}, Numeric: []bool{false, true}, Data: r.PerWeekday}
		for _, d := range r.PerWeekday {
			t.Rows = append(t.Rows, []string{d.Weekday.String(), strconv.Itoa(d.Count)})
		}
		return t, nil

	case "dates":
		t := Table{Title: "Messages per date", Headers: []string{"Date", "Messages"}, Numeric: []bool{false, true}, Data: r.PerDate}
		for _, d := range r.PerDate {
			t.Rows = append(t.Rows, []string{d.Date, strconv.Itoa(d.Count)})
		}
		return t, nil

	case "months":
		t := Table{Title: "Messages per month", Headers: []string{"Month", "Messages"}, Numeric: []bool{false, true}, Data: r.PerMonth}
		for _, m := range r.PerMonth {
			t.Rows = append(t.Rows, []string{fmt.Sprintf("%d-%02d", m.Year, int(m.Month)), strconv.Itoa(m.Count)})
		}
		return t, nil

	case "lengths":
		t := Table{Title: "Text lengths" + personSuffix(r), Headers: []string{"Sender", "Length"}, Numeric: []bool{false, true}, Data: r.Lengths}
		for _, l := range r.Lengths {
			t.Rows = append(t.Rows, []string{l.Sender, strconv.Itoa(l.Length)})
		}
		return t, nil

	case "words":
		t := Table{Title: "Top words" + personSuffix(r), Headers: []string{"Sender", "Word", "Count"}, Numeric: []bool{false, false, true}, Data: r.Words}
		for _, w := range r.Words {
			t.Rows = append(t.Rows, []string{w.Sender, w.Word, strconv.Itoa(w.Count)})
		}
		return t, nil

	default:
		return Table{}, fmt.Errorf("unknown table %q (want one of %s, all)", name, strings.Join(TableNames, ", "))
	}
}

func personSuffix(r stats.Report) string {
	if r.Person == "" {
		return ""
	}
	return " (" + r.Person + ")"
}
