// Package views manages named, user-created snapshots of grid state.
package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

const (
	// FileName is the views file inside the config directory
	FileName = "saved_views.yaml"

	DefaultCreatedBy = "Usuário Demo"
	DefaultArea      = "Geral"
)

var (
	ErrNotFound  = errors.New("saved view not found")
	ErrEmptyName = errors.New("saved view name cannot be empty")
)

// Meta is optional authorship information for a new view
type Meta struct {
	CreatedBy string
	Area      string
}

// viewDoc is the on-disk form. State is kept as the same JSON shape the
// persistence layer uses so both documents stay interchangeable.
type viewDoc struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	CreatedAt string         `yaml:"created_at"`
	CreatedBy string         `yaml:"created_by"`
	Area      string         `yaml:"area"`
	State     map[string]any `yaml:"state"`
}

// Manager stores saved views in a YAML file
type Manager struct {
	mu    sync.Mutex
	path  string
	views []models.SavedView
	now   func() time.Time
}

// NewManager loads the views file from configDir if it exists
func NewManager(configDir string) (*Manager, error) {
	return Open(filepath.Join(configDir, FileName))
}

// Open loads the views file at path if it exists
func Open(path string) (*Manager, error) {
	m := &Manager{
		path:  path,
		views: []models.SavedView{},
		now:   time.Now,
	}

	if _, err := os.Stat(m.path); err == nil {
		if err := m.load(); err != nil {
			return nil, fmt.Errorf("failed to load saved views: %w", err)
		}
	}

	return m, nil
}

// Path returns the views file location
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read saved views file: %w", err)
	}

	var docs []viewDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse saved views: %w", err)
	}

	views := make([]models.SavedView, 0, len(docs))
	for _, d := range docs {
		v, err := fromDoc(d)
		if err != nil {
			return fmt.Errorf("saved view %q: %w", d.ID, err)
		}
		views = append(views, v)
	}
	m.views = views
	return nil
}

func (m *Manager) save() error {
	docs := make([]viewDoc, 0, len(m.views))
	for _, v := range m.views {
		d, err := toDoc(v)
		if err != nil {
			return err
		}
		docs = append(docs, d)
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal saved views: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved views file: %w", err)
	}

	return nil
}

// List returns every view in the order they were saved
func (m *Manager) List() []models.SavedView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SavedView, len(m.views))
	copy(out, m.views)
	return out
}

// Save stores a new view of state
func (m *Manager) Save(name string, state models.GridState, meta Meta) (models.SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.SavedView{}, ErrEmptyName
	}
	if meta.CreatedBy == "" {
		meta.CreatedBy = DefaultCreatedBy
	}
	if meta.Area == "" {
		meta.Area = DefaultArea
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	view := models.SavedView{
		ID:        uuid.New().String(),
		Name:      name,
		State:     state,
		CreatedAt: m.now().UTC().Truncate(time.Second),
		CreatedBy: meta.CreatedBy,
		Area:      meta.Area,
	}
	m.views = append(m.views, view)

	if err := m.save(); err != nil {
		m.views = m.views[:len(m.views)-1]
		return models.SavedView{}, fmt.Errorf("failed to save view: %w", err)
	}
	return view, nil
}

// Get returns a view by id
func (m *Manager) Get(id string) (models.SavedView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.views {
		if v.ID == id {
			return v, nil
		}
	}
	return models.SavedView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Rename changes the display name of a view
func (m *Manager) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.views {
		if v.ID == id {
			prev := v.Name
			m.views[i].Name = name
			if err := m.save(); err != nil {
				m.views[i].Name = prev
				return fmt.Errorf("failed to save view: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes a view by id
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.views {
		if v.ID == id {
			prev := m.views
			m.views = append(append([]models.SavedView{}, m.views[:i]...), m.views[i+1:]...)
			if err := m.save(); err != nil {
				m.views = prev
				return fmt.Errorf("failed to save views after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Apply returns the state of a view for restoring
func (m *Manager) Apply(id string) (models.GridState, error) {
	v, err := m.Get(id)
	if err != nil {
		return models.GridState{}, err
	}
	return v.State, nil
}

// Search filters views by name or area, case-insensitively. Substring
// matches come first, then names within a few typos of query.
func (m *Manager) Search(query string) []models.SavedView {
	all := m.List()
	if query == "" {
		return all
	}

	query = strings.ToLower(query)
	var results []models.SavedView
	type near struct {
		view models.SavedView
		dist int
	}
	var fuzzy []near
	for _, v := range all {
		name := strings.ToLower(v.Name)
		if strings.Contains(name, query) || strings.Contains(strings.ToLower(v.Area), query) {
			results = append(results, v)
			continue
		}
		if d := levenshtein.ComputeDistance(query, name); d <= maxTypos(query) {
			fuzzy = append(fuzzy, near{v, d})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].dist < fuzzy[j].dist })
	for _, n := range fuzzy {
		results = append(results, n.view)
	}
	return results
}

// maxTypos allows one edit per three characters of the query
func maxTypos(query string) int {
	return utf8.RuneCountInString(query) / 3
}

func toDoc(v models.SavedView) (viewDoc, error) {
	raw, err := json.Marshal(v.State)
	if err != nil {
		return viewDoc{}, fmt.Errorf("failed to encode view state: %w", err)
	}
	state := map[string]any{}
	if err := json.Unmarshal(raw, &state); err != nil {
		return viewDoc{}, fmt.Errorf("failed to encode view state: %w", err)
	}
	return viewDoc{
		ID:        v.ID,
		Name:      v.Name,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		CreatedBy: v.CreatedBy,
		Area:      v.Area,
		State:     state,
	}, nil
}

func fromDoc(d viewDoc) (models.SavedView, error) {
	created, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return models.SavedView{}, fmt.Errorf("invalid created_at: %w", err)
	}

	var state models.GridState
	if d.State != nil {
		raw, err := json.Marshal(d.State)
		if err != nil {
			return models.SavedView{}, fmt.Errorf("invalid state: %w", err)
		}
		if err := json.Unmarshal(raw, &state); err != nil {
			return models.SavedView{}, fmt.Errorf("invalid state: %w", err)
		}
	}

	return models.SavedView{
		ID:        d.ID,
		Name:      d.Name,
		State:     state,
		CreatedAt: created,
		CreatedBy: d.CreatedBy,
		Area:      d.Area,
	}, nil
}
