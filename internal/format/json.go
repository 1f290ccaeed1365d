package format

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonTable struct {
	Title string `json:"title"`
	Rows  any    `json:"rows"`
}

// Format writes a single table as its rows and several tables as an array
// of {title, rows}. Tables without Data are written as header keyed objects.
func (f *JSONFormatter) Format(w io.Writer, tables []Table) error {
	var v any
	if len(tables) == 1 {
		v = rowsOf(tables[0])
	} else {
		out := make([]jsonTable, len(tables))
		for i, t := range tables {
			out[i] = jsonTable{Title: t.Title, Rows: rowsOf(t)}
		}
		v = out
	}

	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func rowsOf(t Table) any {
	if t.Data != nil {
		return t.Data
	}
	rows := make([]map[string]string, len(t.Rows))
	for i, r := range t.Rows {
		m := make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(r) {
				m[h] = r[j]
			}
		}
		rows[i] = m
	}
	return rows
}
