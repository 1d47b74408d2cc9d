package components

import (
	"strings"
	"testing"

	"github.com/kerbaras/anistream/pkg/data"
)

func threeShows() []ShowListItem {
	return []ShowListItem{
		{Show: &data.Show{ID: "1", Name: "Show 1"}},
		{Show: &data.Show{ID: "2", Name: "Show 2"}},
		{Show: &data.Show{ID: "3", Name: "Show 3"}},
	}
}

func TestNewShowList(t *testing.T) {
	list := NewShowList()

	if list == nil {
		t.Fatal("Expected show list to be created")
	}

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}

	if len(list.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(list.Items))
	}
}

func TestSetItemsClampsSelection(t *testing.T) {
	list := NewShowList()
	list.SetItems(threeShows())
	list.SelectedIndex = 2

	list.SetItems(threeShows()[:1])

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to be clamped to 0, got %d", list.SelectedIndex)
	}

	list.SetItems(nil)
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0 for empty list, got %d", list.SelectedIndex)
	}
}

func TestNextWraps(t *testing.T) {
	list := NewShowList()
	list.SetItems(threeShows())

	for _, want := range []int{1, 2, 0} {
		list.Next()
		if list.SelectedIndex != want {
			t.Errorf("Expected SelectedIndex %d, got %d", want, list.SelectedIndex)
		}
	}
}

func TestPrevWraps(t *testing.T) {
	list := NewShowList()
	list.SetItems(threeShows())

	for _, want := range []int{2, 1, 0} {
		list.Prev()
		if list.SelectedIndex != want {
			t.Errorf("Expected SelectedIndex %d, got %d", want, list.SelectedIndex)
		}
	}
}

func TestNextPrevEmptyList(t *testing.T) {
	list := NewShowList()

	// Should not panic with empty list
	list.Next()
	list.Prev()

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to remain 0, got %d", list.SelectedIndex)
	}
}

func TestSelected(t *testing.T) {
	list := NewShowList()

	if list.Selected() != nil {
		t.Error("Expected nil for empty list")
	}

	list.SetItems(threeShows())
	list.Next()

	selected := list.Selected()
	if selected == nil {
		t.Fatal("Expected selected item")
	}
	if selected.Show.ID != "2" {
		t.Errorf("Expected selected show ID '2', got '%s'", selected.Show.ID)
	}
}

func TestViewEmptyList(t *testing.T) {
	list := NewShowList()
	list.EmptyText = "Nothing followed yet"

	if !strings.Contains(list.View(), "Nothing followed yet") {
		t.Error("Expected empty text in view")
	}
}

func TestViewWithItems(t *testing.T) {
	list := NewShowList()
	list.SetItems([]ShowListItem{{
		Show:     &data.Show{ID: "a1", Name: "Test Show", Track: data.TrackDub, Status: "completed"},
		Episodes: 12,
		Watched:  5,
	}})

	view := list.View()

	for _, want := range []string{"Test Show", "5 / 12 watched", "Status: completed", "Track: dub"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}
