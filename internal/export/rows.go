package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// Format selects the row stream encoding
type Format int

const (
	FormatText Format = iota
	FormatJSONLines
	FormatMessagePack
)

// ParseFormat maps a command-line name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "text", "txt":
		return FormatText, nil
	case "json", "jsonl", "ndjson":
		return FormatJSONLines, nil
	case "msgpack", "messagepack":
		return FormatMessagePack, nil
	}
	return FormatText, fmt.Errorf("unknown export format %q", name)
}

// Record is one exported row. Values line up with the header fields.
type Record struct {
	Index  int      `json:"idx" msgpack:"idx"`
	Fields []string `json:"fld,omitempty" msgpack:"fld,omitempty"`
	Values []any    `json:"val" msgpack:"val"`
}

// RowWriter streams rows in one encoding
type RowWriter struct {
	out    io.Writer
	format Format
	cols   []models.ColumnDef
	tw     *tabwriter.Writer
	count  int
}

// NewRowWriter prepares a writer for the exportable subset of cols
func NewRowWriter(w io.Writer, format Format, cols []models.ColumnDef) *RowWriter {
	rw := &RowWriter{out: w, format: format, cols: Columns(cols)}
	if format == FormatText {
		rw.tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		rw.out = rw.tw
	}
	return rw
}

// Count returns the number of rows written
func (rw *RowWriter) Count() int {
	return rw.count
}

func (rw *RowWriter) fields() []string {
	out := make([]string, len(rw.cols))
	for i, c := range rw.cols {
		out[i] = c.Field
	}
	return out
}

// Write emits one row. The first JSON or msgpack record also carries the
// field names.
func (rw *RowWriter) Write(row models.Row) error {
	vals := make([]any, len(rw.cols))
	for i, c := range rw.cols {
		vals[i] = values.Cell(row, c)
	}
	rec := Record{Index: rw.count, Values: vals}
	if rw.count == 0 {
		rec.Fields = rw.fields()
	}

	switch rw.format {
	case FormatText:
		if rw.count == 0 {
			titles := make([]string, len(rw.cols))
			for i, c := range rw.cols {
				titles[i] = c.Title()
			}
			if _, err := fmt.Fprintf(rw.out, "%s\t\n", strings.Join(titles, "\t")); err != nil {
				return err
			}
		}
		cells := make([]string, len(rw.cols))
		for i, c := range rw.cols {
			cells[i] = values.Format(c, values.Cell(row, c))
		}
		if _, err := fmt.Fprintf(rw.out, "%s\t\n", strings.Join(cells, "\t")); err != nil {
			return err
		}
	case FormatJSONLines:
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(rw.out, "%s\n", data); err != nil {
			return err
		}
	case FormatMessagePack:
		data, err := msgpack.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := rw.out.Write(data); err != nil {
			return err
		}
	}
	rw.count++
	return nil
}

// Flush finishes text output. Other formats are unbuffered.
func (rw *RowWriter) Flush() error {
	if rw.tw != nil {
		return rw.tw.Flush()
	}
	return nil
}

// WriteRows streams every row and flushes
func WriteRows(w io.Writer, format Format, rows []models.Row, cols []models.ColumnDef) error {
	rw := NewRowWriter(w, format, cols)
	for _, r := range rows {
		if err := rw.Write(r); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rw.Count(), err)
		}
	}
	return rw.Flush()
}
