package columns

import "github.com/mattn/go-runewidth"

// Measurer reports the rendered width of a text in pixels
type Measurer interface {
	Measure(text string) int
}

// MeasureFunc adapts a function to Measurer
type MeasureFunc func(string) int

// Measure calls f
func (f MeasureFunc) Measure(text string) int {
	return f(text)
}

// DefaultPxPerCell approximates a 14px proportional font in terminal cells
const DefaultPxPerCell = 8

// CellMeasurer measures by display cells, so wide runes count twice
type CellMeasurer struct {
	PxPerCell int
}

// Measure implements Measurer
func (m CellMeasurer) Measure(text string) int {
	px := m.PxPerCell
	if px <= 0 {
		px = DefaultPxPerCell
	}
	return runewidth.StringWidth(text) * px
}

// Cells converts pixels back to terminal cells, rounding down
func (m CellMeasurer) Cells(px int) int {
	per := m.PxPerCell
	if per <= 0 {
		per = DefaultPxPerCell
	}
	return px / per
}
