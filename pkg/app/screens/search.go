package screens

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/services"
)

type SearchScreen struct {
	controller *services.AnimeController
	input      textinput.Model
	track      data.Track
	results    []data.Show
	selected   int
	searching  bool
	searched   bool
	notice     string
	width      int
	height     int
	err        error
}

func NewSearchScreen(controller *services.AnimeController, track data.Track) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Search anime..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return &SearchScreen{
		controller: controller,
		input:      ti,
		track:      track,
		results:    []data.Show{},
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		// If searching, don't process keys
		if s.searching {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				if query := s.input.Value(); query != "" {
					s.searching = true
					return s, s.performSearch(query)
				}
			} else if len(s.results) > 0 {
				show := s.results[s.selected]
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "episodes", Data: show}
				}
			}
			return s, nil

		case "ctrl+d":
			// Toggle sub/dub and refresh the results
			if s.track == data.TrackDub {
				s.track = data.TrackSub
			} else {
				s.track = data.TrackDub
			}
			if query := s.input.Value(); query != "" && s.searched {
				s.searching = true
				return s, s.performSearch(query)
			}
			return s, nil

		case "esc":
			// Switch focus between input and results
			if s.input.Focused() {
				s.input.Blur()
			} else {
				s.input.Focus()
				cmd = textinput.Blink
			}
			return s, cmd
		}

		if !s.input.Focused() {
			switch msg.String() {
			case "up", "k":
				if len(s.results) > 0 {
					s.selected--
					if s.selected < 0 {
						s.selected = len(s.results) - 1
					}
				}
			case "down", "j":
				if len(s.results) > 0 {
					s.selected++
					if s.selected >= len(s.results) {
						s.selected = 0
					}
				}
			case "a":
				if len(s.results) > 0 {
					return s, s.follow(s.results[s.selected])
				}
			}
			return s, nil
		}

	case searchResultMsg:
		s.searching = false
		s.searched = true
		s.results = msg.results
		s.selected = 0
		s.err = msg.err
		s.notice = ""
		if len(s.results) > 0 {
			s.input.Blur()
		}

	case followedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.notice = fmt.Sprintf("Added %s to library", msg.name)
		}
	}

	// Update text input
	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}

	return s, cmd
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("🔍 Search Anime (%s)", s.track))

	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var notice string
	if s.notice != "" {
		notice = styles.StatusCompleted.Render(s.notice) + "\n\n"
	}

	var resultsView string
	if s.searching {
		resultsView = styles.StatusActive.Render("Searching...")
	} else if len(s.results) > 0 {
		resultsView = s.renderResults()
	} else if s.searched && s.err == nil {
		resultsView = styles.MutedStyle.Render("No results found")
	}

	help := styles.HelpStyle.Render(
		"enter: search/open • esc: switch focus • ctrl+d: sub/dub • a: add to library • ↑/k ↓/j: navigate • tab: switch view",
	)

	return fmt.Sprintf("%s\n\n%s\n\n%s%s%s\n\n%s",
		header,
		inputView,
		errorLine(s.err),
		notice,
		resultsView,
		help,
	)
}

func (s *SearchScreen) renderResults() string {
	var result string
	result += styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results:", len(s.results)))
	result += "\n\n"

	for i, show := range s.results {
		cardStyle := styles.CardStyle
		if i == s.selected && !s.input.Focused() {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(show.Name)
		episodes := styles.TextStyle.Render(fmt.Sprintf(
			"%d sub • %d dub",
			show.EpisodeCount(data.TrackSub),
			show.EpisodeCount(data.TrackDub),
		))
		id := styles.MutedStyle.Render(fmt.Sprintf("ID: %s", show.ID))

		cardContent := lipgloss.JoinVertical(lipgloss.Left, title, episodes, id)

		result += cardStyle.Width(s.width-6).Render(cardContent) + "\n"
	}

	return result
}

// Messages
type searchResultMsg struct {
	results []data.Show
	err     error
}

type followedMsg struct {
	name string
	err  error
}

// Commands
func (s *SearchScreen) performSearch(query string) tea.Cmd {
	track := s.track
	return func() tea.Msg {
		results, err := s.controller.Search(query, track)
		return searchResultMsg{results: results, err: err}
	}
}

func (s *SearchScreen) follow(show data.Show) tea.Cmd {
	return func() tea.Msg {
		return followedMsg{name: show.Name, err: s.controller.Follow(show)}
	}
}
