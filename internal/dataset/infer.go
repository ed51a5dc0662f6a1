package dataset

import (
	"sort"
	"strings"

	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

const (
	// DefaultSample is how many rows InferColumns inspects
	DefaultSample = 200
	// maxSelectOptions caps the distinct values of a status-like column
	maxSelectOptions = 8
	longTextLen      = 80
)

// Path is a dot path to a leaf value of a row
type Path struct {
	Parts []string
}

// String joins the path with dots, the form column fields use
func (p Path) String() string {
	return strings.Join(p.Parts, ".")
}

// ExtractPaths lists the leaf paths of a value. Objects are walked with
// sorted keys; arrays and scalars are leaves.
func ExtractPaths(value any) []Path {
	var paths []Path
	extractPathsRecursive(value, nil, &paths)
	return paths
}

func extractPathsRecursive(value any, currentPath []string, paths *[]Path) {
	obj, ok := asObject(value)
	if !ok || len(obj) == 0 {
		if len(currentPath) > 0 {
			*paths = append(*paths, Path{Parts: currentPath})
		}
		return
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		newPath := append(append([]string{}, currentPath...), key)
		extractPathsRecursive(obj[key], newPath, paths)
	}
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case models.Row:
		return x, true
	}
	return nil, false
}

// InferColumns derives column definitions from the first sample rows.
// Nested objects become dot-path columns; "id" comes first when present.
func InferColumns(rows []models.Row, sample int) []models.ColumnDef {
	if sample <= 0 {
		sample = DefaultSample
	}
	if len(rows) > sample {
		rows = rows[:sample]
	}

	var fields []string
	seen := map[string]bool{}
	for _, r := range rows {
		for _, p := range ExtractPaths(r) {
			f := p.String()
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i] == "id" && fields[j] != "id"
	})

	cols := make([]models.ColumnDef, 0, len(fields))
	for _, f := range fields {
		sampled := make([]any, 0, len(rows))
		for _, r := range rows {
			if v := values.Get(r, f); !values.IsEmpty(v) {
				sampled = append(sampled, v)
			}
		}
		cols = append(cols, inferColumn(f, sampled, len(rows)))
	}
	return cols
}

func inferColumn(field string, sampled []any, total int) models.ColumnDef {
	col := models.ColumnDef{Field: field, Type: DetectType(sampled)}
	if field == "id" || field == "_id" {
		col.Type = models.TypeID
	}
	if col.Type == models.TypeText && isCategorical(sampled, total) {
		col.Type = models.TypeStatus
		col.EnableColumnFilter = true
		col.FilterType = models.FilterSelect
	}
	if col.Type == models.TypeBoolean {
		col.EnableColumnFilter = true
	}
	return col
}

// DetectType picks the column type every sampled value agrees on
func DetectType(sampled []any) models.ColumnType {
	if len(sampled) == 0 {
		return models.TypeText
	}
	allBool, allNum, allTags, allDate, allDateTime, long := true, true, true, true, true, false
	for _, v := range sampled {
		if _, ok := v.(bool); !ok {
			allBool = false
		}
		if _, ok := values.Number(v); !ok {
			allNum = false
		}
		if _, ok := v.([]any); !ok {
			allTags = false
		}
		s, isString := v.(string)
		if !isString || !looksLikeDate(s) {
			allDate = false
		}
		if !isString || !looksLikeDateTime(s) {
			allDateTime = false
		}
		if isString && len(s) > longTextLen {
			long = true
		}
	}
	switch {
	case allBool:
		return models.TypeBoolean
	case allNum:
		return models.TypeNumber
	case allTags:
		return models.TypeTags
	case allDate:
		return models.TypeDate
	case allDateTime:
		return models.TypeDateTime
	case long:
		return models.TypeLongText
	default:
		return models.TypeText
	}
}

// isCategorical reports a short string column whose values repeat
func isCategorical(sampled []any, total int) bool {
	if total < 2*maxSelectOptions || len(sampled) == 0 {
		return false
	}
	distinct := map[string]bool{}
	for _, v := range sampled {
		distinct[values.Normalize(v)] = true
		if len(distinct) > maxSelectOptions {
			return false
		}
	}
	return len(distinct) < len(sampled)
}

func looksLikeDate(s string) bool {
	if len(s) != len("2006-01-02") {
		return false
	}
	_, ok := values.Time(s)
	return ok
}

func looksLikeDateTime(s string) bool {
	if len(s) <= len("2006-01-02") || !strings.ContainsAny(s, "T ") {
		return false
	}
	_, ok := values.Time(s)
	return ok
}
