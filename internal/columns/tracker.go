package columns

import (
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Tracker keeps the user-adjustable column state: order, visibility,
// pinning and manual widths. It is not safe for concurrent use.
type Tracker struct {
	order  []string
	hidden map[string]bool
	pinned map[string]models.PinSide
	manual map[string]int
	seeded bool
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		order:  []string{},
		hidden: map[string]bool{},
		pinned: map[string]models.PinSide{},
		manual: map[string]int{},
	}
}

// Sync reconciles the order with the current definitions: known fields keep
// their position, removed fields are dropped and new fields are appended.
// Pins declared on the definitions seed the pin state once.
func (t *Tracker) Sync(cols []models.ColumnDef) {
	fields := make(map[string]bool, len(cols))
	for _, c := range cols {
		fields[c.Field] = true
	}
	order := make([]string, 0, len(cols))
	present := make(map[string]bool, len(cols))
	for _, f := range t.order {
		if fields[f] && !present[f] {
			order = append(order, f)
			present[f] = true
		}
	}
	for _, c := range cols {
		if !present[c.Field] {
			order = append(order, c.Field)
			present[c.Field] = true
		}
	}
	t.order = order

	if !t.seeded && len(t.pinned) == 0 {
		for _, c := range cols {
			if c.Pinned != models.PinNone {
				t.pinned[c.Field] = c.Pinned
			}
		}
	}
	t.seeded = true
}

// Order returns a copy of the field order
func (t *Tracker) Order() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Reorder replaces the field order
func (t *Tracker) Reorder(order []string) {
	t.order = make([]string, len(order))
	copy(t.order, order)
}

// Move shifts a field by delta positions within the order
func (t *Tracker) Move(field string, delta int) bool {
	from := -1
	for i, f := range t.order {
		if f == field {
			from = i
			break
		}
	}
	if from < 0 {
		return false
	}
	to := min(max(from+delta, 0), len(t.order)-1)
	if to == from {
		return false
	}
	t.order = append(t.order[:from], t.order[from+1:]...)
	t.order = append(t.order[:to], append([]string{field}, t.order[to:]...)...)
	return true
}

// Hide hides a column
func (t *Tracker) Hide(field string) {
	t.hidden[field] = true
}

// Show makes a hidden column visible
func (t *Tracker) Show(field string) {
	if _, ok := t.hidden[field]; ok {
		t.hidden[field] = false
	}
}

// IsHidden reports whether a field is hidden
func (t *Tracker) IsHidden(field string) bool {
	return t.hidden[field]
}

// Hidden returns a copy of the visibility map (true means hidden)
func (t *Tracker) Hidden() map[string]bool {
	out := make(map[string]bool, len(t.hidden))
	for k, v := range t.hidden {
		out[k] = v
	}
	return out
}

// SetHidden replaces the visibility map
func (t *Tracker) SetHidden(hidden map[string]bool) {
	t.hidden = make(map[string]bool, len(hidden))
	for k, v := range hidden {
		t.hidden[k] = v
	}
}

// Pin pins a field; PinNone explicitly unpins it
func (t *Tracker) Pin(field string, side models.PinSide) {
	t.pinned[field] = side
}

// Pinned returns a copy of the pin map
func (t *Tracker) Pinned() map[string]models.PinSide {
	out := make(map[string]models.PinSide, len(t.pinned))
	for k, v := range t.pinned {
		out[k] = v
	}
	return out
}

// SetPinned replaces the pin map
func (t *Tracker) SetPinned(pinned map[string]models.PinSide) {
	t.pinned = make(map[string]models.PinSide, len(pinned))
	for k, v := range pinned {
		t.pinned[k] = v
	}
	t.seeded = true
}

// Resize sets a manual width, never below MinResizeWidth. Manually resized
// columns are excluded from measurement and surplus distribution.
func (t *Tracker) Resize(field string, width int) int {
	width = max(width, MinResizeWidth)
	t.manual[field] = width
	return width
}

// ManualWidths returns a copy of the manual widths
func (t *Tracker) ManualWidths() map[string]int {
	out := make(map[string]int, len(t.manual))
	for k, v := range t.manual {
		out[k] = v
	}
	return out
}

// Layout resolves in using the tracked order, visibility, pins and widths
func (t *Tracker) Layout(in LayoutInput) Layout {
	in.Order = t.order
	in.Hidden = t.hidden
	in.Pinned = t.pinned
	in.ManualWidths = t.manual
	return ResolveLayout(in)
}
