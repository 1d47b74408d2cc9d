package screens

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/anistream/pkg/app/components"
	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/services"
)

type LibraryScreen struct {
	controller *services.AnimeController
	showList   *components.ShowList
	width      int
	height     int
	err        error
}

func NewLibraryScreen(controller *services.AnimeController) *LibraryScreen {
	return &LibraryScreen{
		controller: controller,
		showList:   components.NewShowList(),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadLibrary
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.showList.Width = msg.Width - 4
		s.showList.Height = msg.Height - 10

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.showList.Prev()
		case "down", "j":
			s.showList.Next()
		case "r":
			return s, s.loadLibrary
		case "d":
			if selected := s.showList.Selected(); selected != nil {
				return s, s.unfollow(selected.Show.ID)
			}
		case "enter":
			if selected := s.showList.Selected(); selected != nil {
				show := *selected.Show
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "episodes", Data: show}
				}
			}
		}

	case libraryLoadedMsg:
		s.showList.SetItems(msg.items)
		s.err = msg.err
		if errors.Is(msg.err, services.ErrNoLibrary) {
			s.showList.EmptyText = "Library is disabled"
			s.err = nil
		}

	case unfollowedMsg:
		if msg.err != nil {
			s.err = msg.err
		}
		return s, s.loadLibrary
	}

	return s, nil
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📺 Anime Library")

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • enter: episodes • d: remove • r: refresh • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, errorLine(s.err), s.showList.View(), help)
}

// Messages
type libraryLoadedMsg struct {
	items []components.ShowListItem
	err   error
}

type unfollowedMsg struct {
	err error
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	entries, err := s.controller.Library()
	if err != nil {
		return libraryLoadedMsg{err: err}
	}

	items := make([]components.ShowListItem, len(entries))
	for i, e := range entries {
		items[i] = components.ShowListItem{
			Show:     e.Show,
			Episodes: e.Episodes,
			Watched:  e.Watched,
		}
	}

	return libraryLoadedMsg{items: items}
}

func (s *LibraryScreen) unfollow(showID string) tea.Cmd {
	return func() tea.Msg {
		return unfollowedMsg{err: s.controller.Unfollow(showID)}
	}
}
