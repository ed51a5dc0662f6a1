package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazygrid/internal/columns"
	"github.com/rebeliceyang/lazygrid/internal/grid"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
	"github.com/rebeliceyang/lazygrid/internal/values"
)

const minCellWidth = 3

// GridView renders a grid page with virtual scrolling and sticky pinned columns
type GridView struct {
	Theme  theme.Theme
	Width  int
	Height int
	Cells  columns.CellMeasurer

	// Cursor is the row index within the current page
	Cursor int
	// ColCursor is the index into the visible layout columns
	ColCursor int

	top         int
	scroll      int
	visibleRows int
}

// NewGridView creates a new grid view
func NewGridView(th theme.Theme, pxPerCell int) *GridView {
	return &GridView{Theme: th, Cells: columns.CellMeasurer{PxPerCell: pxPerCell}}
}

// CellWidth converts a resolved layout width to terminal cells
func (gv *GridView) CellWidth(px int) int {
	return max(gv.Cells.Cells(px), minCellWidth)
}

// MoveCursor moves the row cursor within count rows
func (gv *GridView) MoveCursor(delta, count int) {
	gv.Cursor = clamp(gv.Cursor+delta, 0, count-1)
}

// MoveColumn moves the column cursor within count columns
func (gv *GridView) MoveColumn(delta, count int) {
	gv.ColCursor = clamp(gv.ColCursor+delta, 0, count-1)
}

// CurrentColumn returns the column under the cursor
func (gv *GridView) CurrentColumn(v grid.View) (models.ColumnDef, bool) {
	cols := v.Layout.Columns
	if gv.ColCursor < 0 || gv.ColCursor >= len(cols) {
		return models.ColumnDef{}, false
	}
	return cols[gv.ColCursor], true
}

// CurrentRow returns the row under the cursor
func (gv *GridView) CurrentRow(v grid.View) (models.Row, bool) {
	if gv.Cursor < 0 || gv.Cursor >= len(v.Rows) {
		return nil, false
	}
	return v.Rows[gv.Cursor], true
}

// Render draws the header, the visible rows and a status line.
// selected reports the selection state of a row.
func (gv *GridView) Render(v grid.View, selected func(models.Row) bool) string {
	gv.Cursor = clamp(gv.Cursor, 0, len(v.Rows)-1)
	gv.ColCursor = clamp(gv.ColCursor, 0, len(v.Layout.Columns)-1)

	if len(v.Layout.Columns) == 0 {
		return gv.frame(gv.muted("No columns"))
	}

	cols := gv.visibleColumns(v.Layout)

	var b strings.Builder
	b.WriteString(gv.renderHeader(v, cols))
	b.WriteString("\n")
	if v.Density != models.DensityCompact {
		b.WriteString(gv.renderSeparator(v.Layout, cols))
		b.WriteString("\n")
	}

	switch {
	case v.Err != nil && len(v.Rows) == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(gv.Theme.Error).Render("Error: " + v.Err.Error()))
		b.WriteString("\n")
	case v.Loading && len(v.Rows) == 0:
		b.WriteString(gv.muted("Loading..."))
		b.WriteString("\n")
	case v.NoResults:
		b.WriteString(gv.muted("No results match the current search and filters"))
		b.WriteString("\n")
	case v.Empty:
		b.WriteString(gv.muted("No rows"))
		b.WriteString("\n")
	default:
		b.WriteString(gv.renderRows(v, cols, selected))
	}

	b.WriteString(gv.renderStatus(v))
	return gv.frame(b.String())
}

func (gv *GridView) frame(s string) string {
	style := lipgloss.NewStyle()
	if gv.Width > 0 {
		style = style.Width(gv.Width)
	}
	if gv.Height > 0 {
		style = style.Height(gv.Height)
	}
	return style.Render(s)
}

// visibleColumns keeps pinned columns and scrolls the center ones so the
// column cursor stays on screen.
func (gv *GridView) visibleColumns(layout columns.Layout) []int {
	var left, center, right []int
	for i, c := range layout.Columns {
		switch c.Pinned {
		case models.PinLeft:
			left = append(left, i)
		case models.PinRight:
			right = append(right, i)
		default:
			center = append(center, i)
		}
	}

	fixed := 0
	for _, i := range append(append([]int{}, left...), right...) {
		fixed += gv.CellWidth(layout.Width(layout.Columns[i].Field)) + 3
	}

	cursorAt := -1
	for pos, i := range center {
		if i == gv.ColCursor {
			cursorAt = pos
		}
	}
	gv.scroll = clamp(gv.scroll, 0, len(center)-1)
	if cursorAt >= 0 {
		if cursorAt < gv.scroll {
			gv.scroll = cursorAt
		}
		for gv.scroll < cursorAt && fixed+gv.spanWidth(layout, center[gv.scroll:cursorAt+1]) > gv.Width && gv.Width > 0 {
			gv.scroll++
		}
	}

	out := append([]int{}, left...)
	used := fixed
	for pos := gv.scroll; pos >= 0 && pos < len(center); pos++ {
		w := gv.CellWidth(layout.Width(layout.Columns[center[pos]].Field)) + 3
		if gv.Width > 0 && used+w > gv.Width && pos > gv.scroll {
			break
		}
		used += w
		out = append(out, center[pos])
	}
	return append(out, right...)
}

func (gv *GridView) spanWidth(layout columns.Layout, idx []int) int {
	total := 0
	for _, i := range idx {
		total += gv.CellWidth(layout.Width(layout.Columns[i].Field)) + 3
	}
	return total
}

func (gv *GridView) renderHeader(v grid.View, cols []int) string {
	filtered := map[string]bool{}
	for _, item := range v.Filters.Items {
		filtered[item.Field] = true
	}
	for field := range v.FastFilters {
		filtered[field] = true
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(gv.Theme.Header)
	sortedStyle := headerStyle.Foreground(gv.Theme.HeaderSorted)
	cursorStyle := headerStyle.Underline(true)

	cells := make([]string, len(cols))
	for n, i := range cols {
		col := v.Layout.Columns[i]
		title := col.Title()
		style := headerStyle
		if col.IsCheckbox() {
			title = checkbox(v.PageSelected)
		}
		if v.Sort != nil && v.Sort.Field == col.Field {
			style = sortedStyle
			if v.Sort.Direction == models.SortAsc {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		if filtered[col.Field] {
			title += " •"
		}
		if i == gv.ColCursor {
			style = cursorStyle.Foreground(style.GetForeground())
		}
		cells[n] = style.Render(fit(title, gv.CellWidth(v.Layout.Width(col.Field))))
	}
	return gv.join(v.Layout, cols, cells)
}

func (gv *GridView) renderSeparator(layout columns.Layout, cols []int) string {
	parts := make([]string, len(cols))
	for n, i := range cols {
		parts[n] = strings.Repeat("─", gv.CellWidth(layout.Width(layout.Columns[i].Field)))
	}
	return lipgloss.NewStyle().Foreground(gv.Theme.Border).Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (gv *GridView) renderRows(v grid.View, cols []int, selected func(models.Row) bool) string {
	rowHeight := 1
	if v.Density == models.DensityComfortable {
		rowHeight = 2
	}
	chrome := 3
	if v.Density == models.DensityCompact {
		chrome = 2
	}
	gv.visibleRows = len(v.Rows)
	if gv.Height > 0 {
		gv.visibleRows = max((gv.Height-chrome)/rowHeight, 1)
	}
	if gv.Cursor < gv.top {
		gv.top = gv.Cursor
	}
	if gv.Cursor >= gv.top+gv.visibleRows {
		gv.top = gv.Cursor - gv.visibleRows + 1
	}
	gv.top = clamp(gv.top, 0, max(len(v.Rows)-gv.visibleRows, 0))

	end := min(gv.top+gv.visibleRows, len(v.Rows))
	var b strings.Builder
	for r := gv.top; r < end; r++ {
		row := v.Rows[r]
		isSelected := selected != nil && selected(row)

		cells := make([]string, len(cols))
		for n, i := range cols {
			col := v.Layout.Columns[i]
			text := checkbox(isSelected)
			if !col.IsCheckbox() {
				text = CellText(col, row)
			}
			cells[n] = fit(text, gv.CellWidth(v.Layout.Width(col.Field)))
		}
		line := gv.join(v.Layout, cols, cells)

		style := lipgloss.NewStyle()
		if r%2 == 1 {
			style = style.Background(gv.Theme.RowOdd)
		}
		if isSelected {
			style = style.Background(gv.Theme.RowSelected)
		}
		if r == gv.Cursor {
			style = style.Background(gv.Theme.Cursor).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
		if rowHeight > 1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (gv *GridView) renderStatus(v grid.View) string {
	size := v.Pagination.PageSize
	first, last := 0, 0
	if len(v.Rows) > 0 {
		first = (v.Pagination.Page-1)*size + 1
		last = first + len(v.Rows) - 1
	}

	parts := []string{
		fmt.Sprintf("%d-%d of %d rows", first, last, v.Total),
		fmt.Sprintf("page %d/%d", v.Pagination.Page, max(v.PageCount, 1)),
	}
	if v.SelectedCount > 0 {
		sel := fmt.Sprintf("%d selected", v.SelectedCount)
		if v.GlobalSelection {
			sel += " (all)"
		}
		parts = append(parts, sel)
	}
	if v.ActiveFilters > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", v.ActiveFilters))
	}
	if v.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q in %s", v.Search, v.SearchField))
	}
	if v.Loading {
		parts = append(parts, "loading")
	}
	if v.Err != nil && len(v.Rows) > 0 {
		parts = append(parts, "error: "+v.Err.Error())
	}
	return gv.muted(" " + strings.Join(parts, " · "))
}

// join puts cells together, with a heavier edge next to pinned groups
func (gv *GridView) join(layout columns.Layout, cols []int, cells []string) string {
	edge := lipgloss.NewStyle().Foreground(gv.Theme.PinnedEdge).Render(" ┃ ")
	var b strings.Builder
	b.WriteString(" ")
	for n := range cells {
		if n > 0 {
			prev := layout.Columns[cols[n-1]].Pinned
			cur := layout.Columns[cols[n]].Pinned
			if prev != cur {
				b.WriteString(edge)
			} else {
				b.WriteString(" │ ")
			}
		}
		b.WriteString(cells[n])
	}
	b.WriteString(" ")
	return b.String()
}

func (gv *GridView) muted(s string) string {
	return lipgloss.NewStyle().Foreground(gv.Theme.Muted).Italic(true).Render(s)
}

// CellText is the display text of a cell on a single line
func CellText(col models.ColumnDef, row models.Row) string {
	text := values.Format(col, values.Cell(row, col))
	return strings.Join(strings.Fields(text), " ")
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// fit truncates or pads s to exactly width display cells
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(n, lo), hi)
}
