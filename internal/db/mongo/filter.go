// Package mongo serves grid pages from a MongoDB collection.
package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

// BuildFilter translates a filter model and a search into a query
// document. Items on unknown or checkbox fields are skipped.
func BuildFilter(model models.FilterModel, search, searchField string, cols []models.ColumnDef) bson.M {
	var clauses []bson.M

	if search != "" {
		if clause, ok := searchClause(search, searchField, cols); ok {
			clauses = append(clauses, clause)
		}
	}
	for _, item := range model.Items {
		if clause, ok := condition(item, cols); ok {
			clauses = append(clauses, clause)
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		all := make(bson.A, len(clauses))
		for i, c := range clauses {
			all[i] = c
		}
		return bson.M{"$and": all}
	}
}

func searchClause(search, searchField string, cols []models.ColumnDef) (bson.M, bool) {
	pattern := ci(regexp.QuoteMeta(search))
	var or bson.A
	for _, c := range cols {
		if c.IsCheckbox() || c.Type == models.TypeActions {
			continue
		}
		if searchField != "" && searchField != models.SearchAllFields && c.Field != searchField {
			continue
		}
		or = append(or, bson.M{c.Field: pattern})
	}
	if len(or) == 0 {
		return nil, false
	}
	return bson.M{"$or": or}, true
}

func condition(item models.FilterItem, cols []models.ColumnDef) (bson.M, bool) {
	col, ok := models.FindColumn(cols, item.Field)
	if !ok || col.IsCheckbox() {
		return nil, false
	}
	field := col.Field

	switch item.Operator {
	case models.OpIsEmpty:
		return bson.M{field: bson.M{"$in": bson.A{nil, ""}}}, true
	case models.OpIsNotEmpty:
		return bson.M{field: bson.M{"$nin": bson.A{nil, ""}}}, true
	}
	if !filter.HasValue(item.Value) {
		return nil, false
	}

	text := regexp.QuoteMeta(values.String(item.Value))
	switch item.Operator {
	case models.OpContains:
		return bson.M{field: ci(text)}, true
	case models.OpStartsWith:
		return bson.M{field: ci("^" + text)}, true
	case models.OpEndsWith:
		return bson.M{field: ci(text + "$")}, true
	case models.OpEquals:
		return bson.M{field: ci("^" + text + "$")}, true
	case models.OpIsAnyOf:
		list, isList := filter.AsList(item.Value)
		if !isList {
			return bson.M{field: ci("^" + text + "$")}, true
		}
		options := bson.A{}
		for _, v := range list {
			options = append(options, ci("^"+regexp.QuoteMeta(values.String(v))+"$"))
		}
		return bson.M{field: bson.M{"$in": options}}, true
	default:
		return nil, false
	}
}

// ci builds a case-insensitive regular expression
func ci(pattern string) primitive.Regex {
	return primitive.Regex{Pattern: pattern, Options: "i"}
}

// FindOptions returns sort, skip and limit for one page
func FindOptions(params models.FetchParams, cols []models.ColumnDef) *options.FindOptions {
	size := params.Pagination.PageSize
	if size < 1 {
		size = models.DefaultPageSize
	}
	page := max(params.Pagination.Page, 1)

	findOptions := options.Find()
	findOptions.SetLimit(int64(size))
	findOptions.SetSkip(int64((page - 1) * size))

	if s := params.Sort; s != nil && s.Direction != "" {
		if col, ok := models.FindColumn(cols, s.Field); ok && col.IsSortable() {
			dir := 1
			if s.Direction == models.SortDesc {
				dir = -1
			}
			findOptions.SetSort(bson.D{{Key: col.Field, Value: dir}})
		}
	}
	return findOptions
}
