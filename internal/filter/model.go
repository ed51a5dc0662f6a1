package filter

import (
	"github.com/google/uuid"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Merge combines advanced and fast filter items into one AND model. The
// advanced model's logic operator is kept as is.
func Merge(advanced, fast models.FilterModel) models.FilterModel {
	out := advanced.Clone()
	out.Items = append(out.Items, fast.Items...)
	return out
}

// Add appends an item, assigning an id when it has none
func Add(m models.FilterModel, item models.FilterItem) models.FilterModel {
	if item.ID == "" {
		item.ID = "filter-" + uuid.NewString()
	}
	out := m.Clone()
	out.Items = append(out.Items, item)
	return out
}

// Remove drops the item with the given id
func Remove(m models.FilterModel, id string) models.FilterModel {
	return keep(m, func(it models.FilterItem) bool { return it.ID != id })
}

// RemoveField drops every item on a field
func RemoveField(m models.FilterModel, field string) models.FilterModel {
	return keep(m, func(it models.FilterItem) bool { return it.Field != field })
}

// Update replaces the item with the same id. Unknown ids are ignored.
func Update(m models.FilterModel, item models.FilterItem) models.FilterModel {
	out := m.Clone()
	for i, it := range out.Items {
		if it.ID == item.ID {
			out.Items[i] = item
		}
	}
	return out
}

// Clear removes all items and keeps the logic operator
func Clear(m models.FilterModel) models.FilterModel {
	return models.FilterModel{Items: []models.FilterItem{}, LogicOperator: m.Clone().LogicOperator}
}

// HasField reports whether any item targets field
func HasField(m models.FilterModel, field string) bool {
	for _, it := range m.Items {
		if it.Field == field {
			return true
		}
	}
	return false
}

// ActiveCount counts items that actually restrict rows
func ActiveCount(m models.FilterModel) int {
	n := 0
	for _, it := range m.Items {
		if it.Operator == models.OpIsEmpty || it.Operator == models.OpIsNotEmpty || HasValue(it.Value) {
			n++
		}
	}
	return n
}

func keep(m models.FilterModel, pred func(models.FilterItem) bool) models.FilterModel {
	out := models.FilterModel{Items: make([]models.FilterItem, 0, len(m.Items)), LogicOperator: m.LogicOperator}
	if out.LogicOperator == "" {
		out.LogicOperator = models.LogicAnd
	}
	for _, it := range m.Items {
		if pred(it) {
			out.Items = append(out.Items, it)
		}
	}
	return out
}
