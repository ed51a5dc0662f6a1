package filter

import (
	"reflect"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

var builderColumns = []models.ColumnDef{
	{Field: "sel", Type: models.TypeCheckbox},
	{Field: "name"},
	{Field: "status"},
	{Field: "customer.city"},
}

func TestBuildWhere_Empty(t *testing.T) {
	b := NewBuilder(builderColumns)
	clause, args := b.BuildWhere(models.NewFilterModel(), "", "all", 1)
	if clause != "" || args != nil {
		t.Errorf("expected empty clause, got %q %v", clause, args)
	}
}

func TestBuildWhere_Operators(t *testing.T) {
	b := NewBuilder(builderColumns)
	model := models.FilterModel{Items: []models.FilterItem{
		{ID: "1", Field: "name", Operator: models.OpContains, Value: "50%_off"},
		{ID: "2", Field: "status", Operator: models.OpIsAnyOf, Value: []any{"Active", "New"}},
		{ID: "3", Field: "customer.city", Operator: models.OpIsEmpty},
		{ID: "4", Field: "name", Operator: models.OpEquals, Value: "Ann"},
	}}

	clause, args := b.BuildWhere(model, "", "all", 1)

	want := `WHERE "name"::text ILIKE $1 AND LOWER("status"::text) = ANY($2) AND ("customer"."city" IS NULL OR "customer"."city"::text = '') AND LOWER("name"::text) = $3`
	if clause != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, clause)
	}
	wantArgs := []any{`%50\%\_off%`, []string{"active", "new"}, "ann"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("expected args %v, got %v", wantArgs, args)
	}
}

func TestBuildWhere_SkipsUnknownAndCheckbox(t *testing.T) {
	b := NewBuilder(builderColumns)
	model := models.FilterModel{Items: []models.FilterItem{
		{ID: "1", Field: "dropped", Operator: models.OpEquals, Value: "x"},
		{ID: "2", Field: "sel", Operator: models.OpEquals, Value: "x"},
		{ID: "3", Field: "name", Operator: "between", Value: "x"},
		{ID: "4", Field: "name", Operator: models.OpStartsWith, Value: "a"},
	}}

	clause, args := b.BuildWhere(model, "", "all", 1)
	if clause != `WHERE "name"::text ILIKE $1` {
		t.Errorf("unexpected clause %q", clause)
	}
	if !reflect.DeepEqual(args, []any{"a%"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildWhere_Search(t *testing.T) {
	b := NewBuilder(builderColumns)
	model := models.FilterModel{Items: []models.FilterItem{{ID: "1", Field: "status", Operator: models.OpEndsWith, Value: "ing"}}}

	clause, args := b.BuildWhere(model, "lis", "all", 1)
	want := `WHERE ("name"::text ILIKE $1 OR "status"::text ILIKE $1 OR "customer"."city"::text ILIKE $1) AND "status"::text ILIKE $2`
	if clause != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, clause)
	}
	if !reflect.DeepEqual(args, []any{"%lis%", "%ing"}) {
		t.Errorf("unexpected args %v", args)
	}

	clause, _ = b.BuildWhere(models.NewFilterModel(), "lis", "name", 3)
	if clause != `WHERE ("name"::text ILIKE $3)` {
		t.Errorf("unexpected single-field search clause %q", clause)
	}
}

func TestBuildOrderBy(t *testing.T) {
	b := NewBuilder(builderColumns)
	if got := b.BuildOrderBy(&models.SortModel{Field: "name", Direction: models.SortDesc}); got != `ORDER BY "name" DESC NULLS LAST` {
		t.Errorf("unexpected order by %q", got)
	}
	if got := b.BuildOrderBy(&models.SortModel{Field: "sel", Direction: models.SortAsc}); got != "" {
		t.Errorf("expected checkbox sort to be ignored, got %q", got)
	}
	if got := b.BuildOrderBy(nil); got != "" {
		t.Errorf("expected empty order by, got %q", got)
	}
}
