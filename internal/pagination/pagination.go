// Package pagination tracks the current page and slices client-side rows.
package pagination

import (
	"github.com/rebeliceyang/lazygrid/internal/controlled"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

// Controller holds page and page size, either internally or through a
// caller-owned model.
type Controller struct {
	mode  models.Mode
	model *controlled.Value[models.PaginationModel]
}

// New creates an uncontrolled controller starting on page 1
func New(mode models.Mode, pageSize int, onChange func(models.PaginationModel)) *Controller {
	return &Controller{
		mode:  mode,
		model: controlled.New(models.NewPaginationModel(pageSize), onChange),
	}
}

// NewControlled creates a controller reading the caller's model
func NewControlled(mode models.Mode, get func() models.PaginationModel, onChange func(models.PaginationModel)) *Controller {
	return &Controller{mode: mode, model: controlled.Controlled(get, onChange)}
}

// Settle hands reads back to the caller-owned model
func (c *Controller) Settle() { c.model.Settle() }

// Model returns the current model with page and size at least 1
func (c *Controller) Model() models.PaginationModel {
	m := c.model.Get()
	if m.PageSize < 1 {
		m.PageSize = models.DefaultPageSize
	}
	if m.Page < 1 {
		m.Page = 1
	}
	return m
}

// Mode reports whether rows are paged locally or remotely
func (c *Controller) Mode() models.Mode {
	return c.mode
}

// SetPage moves to a page; pages below 1 become 1
func (c *Controller) SetPage(page int) {
	m := c.Model()
	m.Page = max(page, 1)
	c.model.Set(m)
}

// SetPageSize changes the page size and returns to page 1
func (c *Controller) SetPageSize(size int) {
	if size < 1 {
		return
	}
	c.model.Set(models.PaginationModel{Page: 1, PageSize: size})
}

// SetModel replaces page and size together
func (c *Controller) SetModel(m models.PaginationModel) {
	if m.PageSize < 1 {
		m.PageSize = c.Model().PageSize
	}
	m.Page = max(m.Page, 1)
	c.model.Set(m)
}

// Clamp moves to the last page when the current one is past the end.
// It reports whether the page changed. Only client mode clamps.
func (c *Controller) Clamp(total int) bool {
	if c.mode != models.ModeClient {
		return false
	}
	m := c.Model()
	pages := PageCount(total, m.PageSize)
	if pages > 0 && m.Page > pages {
		m.Page = pages
		c.model.Set(m)
		return true
	}
	return false
}

// Page returns the visible rows. Server mode rows are already one page.
func (c *Controller) Page(rows []models.Row) []models.Row {
	if c.mode != models.ModeClient {
		return rows
	}
	m := c.Model()
	return Slice(rows, m.Page, m.PageSize)
}

// Slice returns items[(page-1)*size : page*size], bounded to the slice
func Slice[T any](items []T, page, size int) []T {
	if size < 1 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// PageCount is ceil(total/size)
func PageCount(total, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
