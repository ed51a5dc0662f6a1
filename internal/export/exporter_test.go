package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xuri/excelize/v2"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func exportColumns() []models.ColumnDef {
	return []models.ColumnDef{
		{Field: "select", Type: models.TypeCheckbox},
		{Field: "name", HeaderName: "Name"},
		{Field: "address.city", HeaderName: "City"},
		{Field: "tags"},
		{Field: "score", Type: models.TypeNumber, ValueGetter: func(r models.Row) any { return r["raw"] }},
		{Field: "actions", Type: models.TypeActions},
	}
}

func exportRows() []models.Row {
	return []models.Row{
		{"name": `Ada "the first"`, "address": map[string]any{"city": "London"}, "tags": []any{"a", "b"}, "raw": 1.5},
		{"name": "Bob, Jr", "address": nil, "raw": 2},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportRows(), exportColumns()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != `"Name","City","tags","score"` {
		t.Errorf("Header mismatch, got %s", lines[0])
	}
	if lines[1] != `"Ada ""the first""","London","[""a"",""b""]","1.5"` {
		t.Errorf("Row 1 mismatch, got %s", lines[1])
	}
	if lines[2] != `"Bob, Jr","","","2"` {
		t.Errorf("Row 2 mismatch, got %s", lines[2])
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV back: %v", err)
	}
	if records[1][0] != `Ada "the first"` {
		t.Errorf("Expected unquoted name, got %q", records[1][0])
	}
}

func TestWriteCSV_EmptyRowsWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, exportColumns()); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestExportToCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := ExportToCSV(exportRows(), exportColumns(), path); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if !strings.HasPrefix(string(data), `"Name"`) {
		t.Errorf("Unexpected file content %q", data)
	}
}

func TestExportToCSV_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "rows.csv")
	if err := ExportToCSV(exportRows(), exportColumns(), path); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

type closeFailer struct {
	bytes.Buffer
	closed bool
}

func (c *closeFailer) Close() error {
	c.closed = true
	return errors.New("disk full")
}

func TestWriteAndClose_ReportsCloseError(t *testing.T) {
	out := &closeFailer{}
	err := writeAndClose(out, func(w io.Writer) error { return WriteCSV(w, exportRows(), exportColumns()) })
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected close error, got %v", err)
	}
	if !out.closed || out.Len() == 0 {
		t.Errorf("expected rows written and file closed, got %d bytes closed=%v", out.Len(), out.closed)
	}
}

func TestWriteAndClose_WriteErrorWins(t *testing.T) {
	out := &closeFailer{}
	err := writeAndClose(out, func(io.Writer) error { return errors.New("bad row") })
	if err == nil || err.Error() != "bad row" {
		t.Errorf("expected write error, got %v", err)
	}
	if !out.closed {
		t.Error("expected file closed after a failed write")
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{2.0, "2"},
		{map[string]any{"k": 1}, `{"k":1}`},
	}
	for _, tt := range tests {
		if got := CellText(tt.in); got != tt.want {
			t.Errorf("CellText(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestWriteRows_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, FormatJSONLines, exportRows(), exportColumns()); err != nil {
		t.Fatal(err)
	}

	sc := bufio.NewScanner(&buf)
	var recs []Record
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("invalid JSON line %q: %v", sc.Text(), err)
		}
		recs = append(recs, r)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if strings.Join(recs[0].Fields, ",") != "name,address.city,tags,score" {
		t.Errorf("Expected field names on first record, got %v", recs[0].Fields)
	}
	if recs[1].Fields != nil || recs[1].Index != 1 {
		t.Errorf("Expected bare second record, got %+v", recs[1])
	}
	if recs[0].Values[1] != "London" {
		t.Errorf("Expected nested value, got %v", recs[0].Values[1])
	}
}

func TestWriteRows_MessagePack(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, FormatMessagePack, exportRows(), exportColumns()); err != nil {
		t.Fatal(err)
	}

	dec := msgpack.NewDecoder(&buf)
	var first, second Record
	if err := dec.Decode(&first); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatal(err)
	}
	if first.Values[0] != `Ada "the first"` || second.Index != 1 {
		t.Errorf("Unexpected records %+v %+v", first, second)
	}
}

func TestWriteRows_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, FormatText, exportRows(), exportColumns()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "Name") || !strings.Contains(lines[1], "London") {
		t.Errorf("Unexpected text output %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("msgpack"); err != nil || f != FormatMessagePack {
		t.Errorf("Expected msgpack, got %v (%v)", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestWriteXLSX(t *testing.T) {
	cols := []models.ColumnDef{
		{Field: "name", HeaderName: "Name"},
		{Field: "score"},
		{Field: "active"},
		{Field: "actions", Type: models.TypeActions},
	}
	rows := []models.Row{
		{"name": "Ada", "score": 3, "active": true},
		{"name": "Linus", "active": false},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows, cols); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header and 2 rows, got %v", got)
	}
	if strings.Join(got[0], ",") != "Name,score,active" {
		t.Errorf("expected header without actions, got %v", got[0])
	}
	if got[1][0] != "Ada" || got[1][1] != "3" || !isTrue(got[1][2]) {
		t.Errorf("unexpected first row %v", got[1])
	}
	if got[2][0] != "Linus" || len(got[2]) != 3 || isTrue(got[2][2]) {
		t.Errorf("unexpected second row %v", got[2])
	}
}

func isTrue(s string) bool {
	return s == "TRUE" || s == "1"
}
