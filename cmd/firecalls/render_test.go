package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"firecalls/internal/query"
	"firecalls/internal/resultset"
)

func outcomes() []query.Outcome {
	return []query.Outcome{
		{
			Spec: query.Spec{Name: "top", Question: "Most common?"},
			Set: resultset.Set{
				Name:    "top",
				Columns: []string{"CallType", "count"},
				Rows:    [][]any{{"Medical Incident", int64(3)}, {nil, int64(1)}},
			},
			Elapsed: 2 * time.Millisecond,
		},
		{
			Spec: query.Spec{Name: "broken", Question: "Fails?"},
			Err:  &query.Error{Query: "broken", Kind: query.KindExec, Err: errors.New("no such column")},
		},
	}
}

func TestCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"x", "x"},
		{int64(-4), "-4"},
		{7.5, "7.5"},
		{5.0, "5"},
		{true, "true"},
		{[]int{1}, "[1]"},
	}
	for _, tt := range tests {
		if got := cell(tt.in); got != tt.want {
			t.Fatalf("cell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := render(&buf, formatTable, outcomes()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"top: Most common?", "CallType", "Medical Incident", "NULL", "(2 rows, 2ms)", "broken: Fails?", "error: query broken: exec: no such column"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := render(&buf, formatJSON, outcomes()); err != nil {
		t.Fatalf("render: %v", err)
	}
	var got []jsonResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Rows[1][0] != nil || got[0].ElapsedMS != 2 {
		t.Fatalf("json = %+v", got)
	}
	if got[1].Error == "" || len(got[1].Rows) != 0 || got[1].Columns == nil {
		t.Fatalf("failed outcome = %+v", got[1])
	}
}

func TestRender_CSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := render(&buf, formatCSV, outcomes()); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "# top\nCallType,count\nMedical Incident,3\n,1\n\n# broken\n# error: query broken: exec: no such column\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := render(&bytes.Buffer{}, "yaml", nil); err == nil {
		t.Fatalf("render(yaml) error = nil")
	}
}
