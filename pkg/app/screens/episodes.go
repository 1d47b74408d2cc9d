package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/services"
)

const episodeWindow = 10

type EpisodesScreen struct {
	controller *services.AnimeController
	show       data.Show
	track      data.Track
	episodes   []string
	watched    map[string]bool
	selected   int
	loading    bool
	notice     string
	width      int
	height     int
	err        error
}

func NewEpisodesScreen(controller *services.AnimeController, show data.Show, track data.Track) *EpisodesScreen {
	return &EpisodesScreen{
		controller: controller,
		show:       show,
		track:      track,
		watched:    map[string]bool{},
		loading:    true,
	}
}

func (s *EpisodesScreen) Init() tea.Cmd {
	return s.loadEpisodes
}

func (s *EpisodesScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.episodes)-1 {
				s.selected++
			}
		case "g":
			s.selected = 0
		case "G":
			if len(s.episodes) > 0 {
				s.selected = len(s.episodes) - 1
			}
		case "r":
			s.loading = true
			return s, s.loadEpisodes
		case "a":
			return s, s.follow
		case "w":
			if ep, ok := s.current(); ok {
				return s, s.markWatched(ep)
			}
		case "enter":
			if ep, ok := s.current(); ok {
				req := StreamRequest{Show: s.show, Episode: ep}
				req.Show.Track = s.track
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "streams", Data: req}
				}
			}
		case "esc", "backspace":
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "back"}
			}
		}

	case episodesLoadedMsg:
		s.loading = false
		s.episodes = msg.episodes
		s.watched = msg.watched
		s.err = msg.err
		if s.selected >= len(s.episodes) {
			s.selected = 0
		}

	case watchedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.watched[msg.episode] = true
		}

	case followedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.notice = fmt.Sprintf("Added %s to library", msg.name)
		}
	}

	return s, nil
}

func (s *EpisodesScreen) current() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.episodes) {
		return "", false
	}
	return s.episodes[s.selected], true
}

func (s *EpisodesScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("🎬 %s (%s)", s.show.Name, s.track))

	var notice string
	if s.notice != "" {
		notice = styles.StatusCompleted.Render(s.notice) + "\n\n"
	}

	var list string
	if s.loading {
		list = styles.StatusActive.Render("Loading episodes...")
	} else {
		list = s.renderEpisodes()
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • g/G: first/last • enter: streams • w: mark watched • a: add to library • esc: back • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s%s\n%s", header, errorLine(s.err), notice, list, help)
}

func (s *EpisodesScreen) renderEpisodes() string {
	if len(s.episodes) == 0 {
		return styles.MutedStyle.Render("No episodes available")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Episodes (%d total):", len(s.episodes))))
	b.WriteString("\n\n")

	start, end := window(s.selected, len(s.episodes), episodeWindow)
	for i := start; i < end; i++ {
		ep := s.episodes[i]

		icon := "○"
		style := styles.MutedStyle
		if s.watched[ep] {
			icon = "●"
			style = styles.WatchedStyle
		}

		line := fmt.Sprintf("%s Episode %s", icon, ep)
		if i == s.selected {
			line = styles.SelectedStyle.Render("> " + line)
		} else {
			line = style.Render("  " + line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(s.episodes) > episodeWindow {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d episodes", start+1, end, len(s.episodes)),
		))
		b.WriteString("\n")
	}

	return b.String()
}

// window returns the bounds of a size-long slice of n items kept around selected.
func window(selected, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := max(selected-size/2, 0)
	end := start + size
	if end > n {
		end = n
		start = n - size
	}
	return start, end
}

// Messages
type episodesLoadedMsg struct {
	episodes []string
	watched  map[string]bool
	err      error
}

type watchedMsg struct {
	episode string
	err     error
}

// Commands
func (s *EpisodesScreen) loadEpisodes() tea.Msg {
	episodes, err := s.controller.ListEpisodes(s.show.ID, s.track)
	if err != nil {
		return episodesLoadedMsg{watched: map[string]bool{}, err: err}
	}
	return episodesLoadedMsg{
		episodes: episodes,
		watched:  s.controller.Watched(s.show.ID, s.track),
	}
}

func (s *EpisodesScreen) markWatched(episode string) tea.Cmd {
	return func() tea.Msg {
		return watchedMsg{episode: episode, err: s.controller.MarkWatched(s.show.ID, s.track, episode)}
	}
}

func (s *EpisodesScreen) follow() tea.Msg {
	show := s.show
	show.Track = s.track
	return followedMsg{name: show.Name, err: s.controller.Follow(show)}
}
