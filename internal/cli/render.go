package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

type renderer struct {
	w      io.Writer
	format string
}

func (r *renderer) json() bool { return r.format == "json" }

func (r *renderer) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) writeTable(title string, header table.Row, rows []table.Row, footer table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(header)
	t.AppendRows(rows)
	if footer != nil {
		t.AppendFooter(footer)
	}
	t.Render()
}

// num formats a value with up to 6 significant digits, switching to
// exponent form for very large or small magnitudes.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func km(m float64) string {
	return fmt.Sprintf("%.3f", m/1000)
}
