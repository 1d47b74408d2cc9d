package screens

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/services"
	"github.com/kerbaras/anistream/pkg/utils"
)

type screenType int

const (
	libraryView screenType = iota
	searchView
	episodesView
	streamsView
)

// SwitchScreenMsg asks the root screen to change views. Data depends on
// Screen: a data.Show for "episodes", a StreamRequest for "streams".
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// StreamRequest names the episode the streams screen resolves.
type StreamRequest struct {
	Show    data.Show
	Episode string
}

type RootScreen struct {
	controller *services.AnimeController
	track      data.Track
	pref       data.Preference

	currentView screenType
	origin      screenType // view the episodes screen returns to
	library     *LibraryScreen
	search      *SearchScreen
	episodes    *EpisodesScreen
	streams     *StreamsScreen

	width  int
	height int
}

func NewRootScreen(controller *services.AnimeController, track data.Track, pref data.Preference) *RootScreen {
	return &RootScreen{
		controller:  controller,
		track:       track,
		pref:        pref,
		currentView: libraryView,
		library:     NewLibraryScreen(controller),
		search:      NewSearchScreen(controller, track),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.library.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.library.Update(msg)
		r.search.Update(msg)
		if r.episodes != nil {
			r.episodes.Update(msg)
		}
		if r.streams != nil {
			r.streams.Update(msg)
		}
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "q":
			if !r.typing() {
				return r, tea.Quit
			}
		case "tab":
			// Cycle between library and search
			if r.currentView != libraryView && r.currentView != searchView {
				break
			}
			r.currentView = (r.currentView + 1) % 2
			if r.currentView == searchView {
				cmd = r.search.Init()
			} else {
				cmd = r.library.Init()
			}
			return r, cmd
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case "library":
			r.currentView = libraryView
			cmd = r.library.Init()
		case "search":
			r.currentView = searchView
			cmd = r.search.Init()
		case "back":
			r.currentView = r.origin
		case "episodes":
			if show, ok := msg.Data.(data.Show); ok {
				if r.currentView == libraryView || r.currentView == searchView {
					r.origin = r.currentView
				}
				r.episodes = NewEpisodesScreen(r.controller, show, r.trackOf(show))
				r.episodes.Update(tea.WindowSizeMsg{Width: r.width, Height: r.height})
				r.currentView = episodesView
				cmd = r.episodes.Init()
			} else if r.episodes != nil {
				r.currentView = episodesView
				cmd = r.episodes.Init()
			}
		case "streams":
			if req, ok := msg.Data.(StreamRequest); ok {
				r.streams = NewStreamsScreen(r.controller, req, r.trackOf(req.Show), r.pref)
				r.streams.Update(tea.WindowSizeMsg{Width: r.width, Height: r.height})
				r.currentView = streamsView
				cmd = r.streams.Init()
			}
		}
		return r, cmd
	}

	// Forward message to active screen
	switch r.currentView {
	case libraryView:
		newModel, newCmd := r.library.Update(msg)
		r.library = newModel.(*LibraryScreen)
		return r, newCmd
	case searchView:
		newModel, newCmd := r.search.Update(msg)
		r.search = newModel.(*SearchScreen)
		return r, newCmd
	case episodesView:
		if r.episodes != nil {
			newModel, newCmd := r.episodes.Update(msg)
			r.episodes = newModel.(*EpisodesScreen)
			return r, newCmd
		}
	case streamsView:
		if r.streams != nil {
			newModel, newCmd := r.streams.Update(msg)
			r.streams = newModel.(*StreamsScreen)
			return r, newCmd
		}
	}

	return r, cmd
}

// typing reports whether keys go to the search input.
func (r *RootScreen) typing() bool {
	return r.currentView == searchView && r.search.input.Focused()
}

// trackOf prefers the track a show was found or followed under.
func (r *RootScreen) trackOf(show data.Show) data.Track {
	if show.Track != "" {
		return show.Track
	}
	if r.currentView == searchView {
		return r.search.track
	}
	return r.track
}

func (r *RootScreen) View() string {
	tabs := r.renderTabs()

	var content string
	switch r.currentView {
	case libraryView:
		content = r.library.View()
	case searchView:
		content = r.search.View()
	case episodesView:
		if r.episodes != nil {
			content = r.episodes.View()
		}
	case streamsView:
		if r.streams != nil {
			content = r.streams.View()
		}
	}

	if tabs == "" {
		return content
	}
	return fmt.Sprintf("%s\n\n%s", tabs, content)
}

func (r *RootScreen) renderTabs() string {
	if r.currentView != libraryView && r.currentView != searchView {
		// No tabs below the top-level views
		return ""
	}

	libraryTab := "Library"
	searchTab := "Search"

	if r.currentView == libraryView {
		libraryTab = styles.ActiveTabStyle.Render(libraryTab)
		searchTab = styles.InactiveTabStyle.Render(searchTab)
	} else {
		libraryTab = styles.InactiveTabStyle.Render(libraryTab)
		searchTab = styles.ActiveTabStyle.Render(searchTab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, libraryTab, searchTab)
}

// errorLine renders err for the bottom of a screen, with catalog failures
// spelled out for the user.
func errorLine(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case utils.IsTransportError(err):
		msg = "could not reach catalog, try again"
	case errors.Is(err, services.ErrNoLibrary):
		msg = "library is disabled"
	}
	return styles.StatusError.Render(fmt.Sprintf("Error: %s", msg)) + "\n\n"
}
