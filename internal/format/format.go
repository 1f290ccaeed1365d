// Package format writes tabular statistics as text tables, CSV or JSON.
package format

import (
	"fmt"
	"io"
	"strings"
)

// Table is one titled result table. Data, when set, is the typed form of
// Rows and is what the JSON formatter writes.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Numeric []bool // per column, right-aligned in text output
	Data    any
}

type Formatter interface {
	Format(w io.Writer, tables []Table) error
}

// Names lists the accepted formatter names.
var Names = []string{"table", "csv", "json"}

func New(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}
