package help

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

func TestSections_UniqueKeys(t *testing.T) {
	seen := map[string]string{}
	for _, s := range Sections() {
		for _, kb := range s.Keys {
			if prev, ok := seen[kb.Key]; ok {
				t.Errorf("key %q listed in both %s and %s", kb.Key, prev, s.Title)
			}
			seen[kb.Key] = s.Title
		}
	}
}

func TestRender_ListsEverySection(t *testing.T) {
	out := Render(100, 60, theme.DefaultTheme())
	for _, s := range Sections() {
		if !strings.Contains(out, s.Title) {
			t.Errorf("expected section %q in help", s.Title)
		}
	}
}
