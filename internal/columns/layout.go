package columns

import (
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

const (
	// MinResizeWidth is the smallest width a column can be resized to
	MinResizeWidth = 50
	// DefaultPadding is added to measured header and cell text
	DefaultPadding = 32
	// DefaultSampleSize is how many rows are measured
	DefaultSampleSize = 20
)

// LayoutInput is everything the layout depends on
type LayoutInput struct {
	Columns []models.ColumnDef
	Order   []string
	Hidden  map[string]bool
	// Pinned overrides a column's own pin when the field is present, even with PinNone
	Pinned map[string]models.PinSide
	// ManualWidths are user resizes; they count as explicit widths
	ManualWidths   map[string]int
	SampleRows     []models.Row
	ContainerWidth int
	AutoFit        bool
	Measurer       Measurer
	Padding        int
	SampleSize     int
}

// Layout is the resolved, visible column arrangement
type Layout struct {
	// Columns are visible, normalized, with Pinned set to the effective side
	Columns []models.ColumnDef
	Widths  map[string]int
	// Offsets is the sticky distance of a pinned column from its edge
	Offsets    map[string]int
	TotalWidth int
}

// Width returns the resolved width of a field
func (l Layout) Width(field string) int {
	return l.Widths[field]
}

// ResolveLayout orders, pins, hides and sizes the columns
func ResolveLayout(in LayoutInput) Layout {
	visible := Arrange(in.Columns, in.Order, in.Hidden, in.Pinned)
	widths := computeWidths(visible, in)
	total := 0
	for _, c := range visible {
		total += widths[c.Field]
	}
	return Layout{
		Columns:    visible,
		Widths:     widths,
		Offsets:    StickyOffsets(visible, widths),
		TotalWidth: total,
	}
}

// Arrange applies the stored order, then groups left, center and right
// pinned columns, then drops hidden ones. Fields in order that no longer
// exist are ignored; columns missing from order keep their definition order
// after the ordered ones.
func Arrange(cols []models.ColumnDef, order []string, hidden map[string]bool, pinned map[string]models.PinSide) []models.ColumnDef {
	byField := make(map[string]models.ColumnDef, len(cols))
	for _, c := range cols {
		byField[c.Field] = Normalize(c)
	}

	ordered := make([]models.ColumnDef, 0, len(cols))
	used := make(map[string]bool, len(cols))
	for _, f := range order {
		if c, ok := byField[f]; ok && !used[f] {
			ordered = append(ordered, c)
			used[f] = true
		}
	}
	for _, c := range cols {
		if !used[c.Field] {
			ordered = append(ordered, byField[c.Field])
			used[c.Field] = true
		}
	}

	var left, center, right []models.ColumnDef
	for _, c := range ordered {
		if side, ok := pinned[c.Field]; ok {
			c.Pinned = side
		}
		if hidden[c.Field] {
			continue
		}
		switch c.Pinned {
		case models.PinLeft:
			left = append(left, c)
		case models.PinRight:
			right = append(right, c)
		default:
			center = append(center, c)
		}
	}

	out := make([]models.ColumnDef, 0, len(left)+len(center)+len(right))
	out = append(out, left...)
	out = append(out, center...)
	return append(out, right...)
}

func computeWidths(cols []models.ColumnDef, in LayoutInput) map[string]int {
	padding := in.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	sampleSize := in.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	sample := in.SampleRows
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	widths := make(map[string]int, len(cols))
	var flexible []string
	for _, c := range cols {
		cfg := ConfigFor(c.Type)
		if w, ok := in.ManualWidths[c.Field]; ok && w > 0 {
			widths[c.Field] = max(w, MinResizeWidth)
			continue
		}
		if c.Width > 0 {
			widths[c.Field] = c.Width
			continue
		}

		w := cfg.Width
		if !cfg.FixedWidth && (cfg.AutoWidth || in.AutoFit) && in.Measurer != nil {
			if m := measureColumn(c, sample, in.Measurer, padding); m > w {
				w = m
			}
		}
		widths[c.Field] = clamp(w, c.MinWidth, c.MaxWidth)
		// FixedWidth only stops measuring; without an explicit width the column still grows
		flexible = append(flexible, c.Field)
	}

	targets := flexible
	if len(targets) == 0 && in.AutoFit {
		for _, c := range cols {
			if w, ok := in.ManualWidths[c.Field]; ok && w > 0 {
				continue
			}
			targets = append(targets, c.Field)
		}
	}
	distributeSurplus(widths, targets, in.ContainerWidth)
	return widths
}

func measureColumn(c models.ColumnDef, rows []models.Row, m Measurer, padding int) int {
	w := m.Measure(c.Title()) + padding
	format := values.TypeFormatter(c.Type)
	for _, r := range rows {
		if cw := m.Measure(format(values.Cell(r, c))) + padding; cw > w {
			w = cw
		}
	}
	return w
}

func clamp(w, lo, hi int) int {
	if lo > 0 && w < lo {
		w = lo
	}
	if hi > 0 && w > hi {
		w = hi
	}
	return w
}

// distributeSurplus splits the free container width evenly across targets;
// the last target also takes the remainder.
func distributeSurplus(widths map[string]int, targets []string, container int) {
	if container <= 0 || len(targets) == 0 {
		return
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	surplus := container - total
	if surplus <= 0 {
		return
	}
	share := surplus / len(targets)
	for _, f := range targets {
		widths[f] += share
	}
	widths[targets[len(targets)-1]] += surplus - share*len(targets)
}

// StickyOffsets accumulates left pinned widths from the left edge and right
// pinned widths from the right edge.
func StickyOffsets(cols []models.ColumnDef, widths map[string]int) map[string]int {
	offsets := make(map[string]int)
	left := 0
	for _, c := range cols {
		if c.Pinned == models.PinLeft {
			offsets[c.Field] = left
			left += widths[c.Field]
		}
	}
	right := 0
	for i := len(cols) - 1; i >= 0; i-- {
		c := cols[i]
		if c.Pinned == models.PinRight {
			offsets[c.Field] = right
			right += widths[c.Field]
		}
	}
	return offsets
}
