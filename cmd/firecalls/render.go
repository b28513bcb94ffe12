package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"firecalls/internal/query"
)

// Output formats accepted by -format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// render writes outcomes to w in the given format.
func render(w io.Writer, format string, outcomes []query.Outcome) error {
	switch format {
	case formatTable, "":
		return renderTable(w, outcomes)
	case formatJSON:
		return renderJSON(w, outcomes)
	case formatCSV:
		return renderCSV(w, outcomes)
	default:
		return fmt.Errorf("unknown format %q; want table, json or csv", format)
	}
}

// cell formats one result value. NULL is spelled out so it cannot be
// confused with an empty string.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cell(v)
	}
	return out
}

func renderTable(w io.Writer, outcomes []query.Outcome) error {
	var b strings.Builder
	for i, o := range outcomes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", o.Spec.Name, o.Spec.Question)))
		b.WriteString("\n")
		if o.Err != nil {
			b.WriteString(errorStyle.Render("error: " + o.Err.Error()))
			b.WriteString("\n")
			continue
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers(o.Set.Columns...)
		for _, row := range o.Set.Rows {
			t.Row(cells(row)...)
		}
		b.WriteString(t.Render())
		fmt.Fprintf(&b, "\n(%d rows, %s)\n", o.Set.Len(), o.Elapsed.Round(time.Millisecond))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// jsonResult is the JSON shape of one outcome.
type jsonResult struct {
	Name      string   `json:"name"`
	Question  string   `json:"question"`
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Error     string   `json:"error,omitempty"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

func renderJSON(w io.Writer, outcomes []query.Outcome) error {
	out := make([]jsonResult, len(outcomes))
	for i, o := range outcomes {
		r := jsonResult{
			Name:      o.Spec.Name,
			Question:  o.Spec.Question,
			Columns:   o.Set.Columns,
			Rows:      o.Set.Rows,
			ElapsedMS: o.Elapsed.Milliseconds(),
		}
		if r.Columns == nil {
			r.Columns = []string{}
		}
		if r.Rows == nil {
			r.Rows = [][]any{}
		}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		out[i] = r
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderCSV writes one block per query: a "# name" comment line, the header
// and the rows, with a blank line between blocks. NULL is an empty field.
func renderCSV(w io.Writer, outcomes []query.Outcome) error {
	cw := csv.NewWriter(w)
	for i, o := range outcomes {
		cw.Flush()
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "# %s\n", o.Spec.Name); err != nil {
			return err
		}
		if o.Err != nil {
			if _, err := fmt.Fprintf(w, "# error: %v\n", o.Err); err != nil {
				return err
			}
			continue
		}
		if err := cw.Write(o.Set.Columns); err != nil {
			return err
		}
		for _, row := range o.Set.Rows {
			rec := cells(row)
			for j, v := range row {
				if v == nil {
					rec[j] = ""
				}
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
