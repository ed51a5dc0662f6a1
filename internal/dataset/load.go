// Package dataset loads rows and column definitions from local files.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ErrNotRows is returned when a document is not a list of objects
var ErrNotRows = errors.New("document must be a list of objects")

// LoadRows reads rows from a .json, .jsonl, .ndjson, .yaml, .yml or .csv file.
// A .json file may hold an array or one object per line.
func LoadRows(path string) ([]models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rows file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f, Format(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// Format guesses the format name from a file extension
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".csv":
		return "csv"
	case ".jsonl", ".ndjson":
		return "jsonl"
	default:
		return "json"
	}
}

// ReadRows decodes rows in the given format
func ReadRows(r io.Reader, format string) ([]models.Row, error) {
	switch format {
	case "yaml":
		var doc any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return toRows(doc)
	case "csv":
		return readCSV(r)
	case "jsonl":
		return readJSONLines(r)
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return []models.Row{}, nil
		}
		if trimmed[0] != '[' {
			return readJSONLines(bytes.NewReader(trimmed))
		}
		doc, err := oj.Parse(trimmed)
		if err != nil {
			return nil, err
		}
		return toRows(doc)
	}
}

func readJSONLines(r io.Reader) ([]models.Row, error) {
	rows := []models.Row{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		doc, err := oj.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("line %d: %w", line, ErrNotRows)
		}
		rows = append(rows, models.Row(obj))
	}
	return rows, scanner.Err()
}

func readCSV(r io.Reader) ([]models.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := []models.Row{}
	if len(records) == 0 {
		return rows, nil
	}
	header := records[0]
	for _, rec := range records[1:] {
		row := make(models.Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRows(doc any) ([]models.Row, error) {
	if doc == nil {
		return []models.Row{}, nil
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, ErrNotRows
	}
	rows := make([]models.Row, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, ErrNotRows
		}
		rows = append(rows, models.Row(obj))
	}
	return rows, nil
}

// LoadColumns reads column definitions from a JSON or YAML file and compiles
// their expressions
func LoadColumns(path string) ([]models.ColumnDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns file: %w", err)
	}

	var cols []models.ColumnDef
	if Format(path) == "yaml" {
		err = yaml.Unmarshal(data, &cols)
	} else {
		err = json.Unmarshal(data, &cols)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse columns file: %w", err)
	}
	return CompileExpressions(cols)
}
