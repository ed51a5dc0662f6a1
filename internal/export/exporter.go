// Package export writes grid rows as CSV or as row streams for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// Columns returns the exportable columns: everything except actions and
// checkbox columns.
func Columns(cols []models.ColumnDef) []models.ColumnDef {
	out := make([]models.ColumnDef, 0, len(cols))
	for _, c := range cols {
		if c.Field == "actions" || c.Type == models.TypeActions || c.IsCheckbox() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// WriteCSV writes a header line and one line per row. Every field is quoted.
// An empty row set writes nothing.
func WriteCSV(w io.Writer, rows []models.Row, cols []models.ColumnDef) error {
	if len(rows) == 0 {
		return nil
	}
	cols = Columns(cols)

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(c.Title()))
	}

	for _, row := range rows {
		b.WriteByte('\n')
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(CellText(values.Cell(row, c))))
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ExportToCSV writes rows to a CSV file at path
func ExportToCSV(rows []models.Row, cols []models.ColumnDef, path string) error {
	return WriteFile(path, func(w io.Writer) error { return WriteCSV(w, rows, cols) })
}

// WriteFile creates path and hands it to write. The close error is returned
// when write itself succeeded, so a short write to disk is never silent.
func WriteFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	return writeAndClose(file, write)
}

func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()
	return write(wc)
}

// CellText is the raw export form of a value. Objects and lists are JSON.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}

	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
