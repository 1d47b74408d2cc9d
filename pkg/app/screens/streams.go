package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/anistream/pkg/app/components"
	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/quality"
	"github.com/kerbaras/anistream/pkg/services"
)

type StreamsScreen struct {
	controller      *services.AnimeController
	request         StreamRequest
	track           data.Track
	pref            data.Preference
	streams         []data.Stream // ranked best first
	selected        int
	chosen          *data.Stream
	resolving       bool
	progressTracker *components.ProgressTracker
	done            chan struct{} // closed when the current resolution ends
	notice          string
	width           int
	height          int
	err             error
}

func NewStreamsScreen(controller *services.AnimeController, req StreamRequest, track data.Track, pref data.Preference) *StreamsScreen {
	return &StreamsScreen{
		controller:      controller,
		request:         req,
		track:           track,
		pref:            pref,
		resolving:       true,
		progressTracker: components.NewProgressTracker(80),
	}
}

func (s *StreamsScreen) Init() tea.Cmd {
	s.done = make(chan struct{})
	return tea.Batch(
		s.resolve,
		s.listenForProgress(s.done),
	)
}

func (s *StreamsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progressTracker = components.NewProgressTracker(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.streams)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.streams) {
				stream := s.streams[s.selected]
				s.chosen = &stream
			}
		case "w":
			return s, s.markWatched
		case "r":
			if !s.resolving {
				s.resolving = true
				s.progressTracker.Clear()
				return s, s.Init()
			}
		case "esc", "backspace":
			s.stopListening()
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "episodes"}
			}
		}

	case streamsResolvedMsg:
		s.stopListening()
		s.resolving = false
		s.err = msg.err
		s.streams = quality.Rank(msg.streams)
		s.selected = 0
		s.chosen = nil
		if best, ok := s.controller.Select(msg.streams, s.pref); ok {
			for i, st := range s.streams {
				if st == best {
					s.selected = i
					s.chosen = &best
					break
				}
			}
		}

	case services.ResolveProgress:
		s.progressTracker.Update(msg)
		if s.resolving && s.done != nil {
			return s, s.listenForProgress(s.done)
		}

	case watchedMsg:
		s.err = msg.err
		if msg.err == nil {
			s.notice = fmt.Sprintf("Episode %s marked as watched", msg.episode)
		}
	}

	return s, nil
}

func (s *StreamsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf(
		"▶ %s • Episode %s (%s)", s.request.Show.Name, s.request.Episode, s.track,
	))

	var notice string
	if s.notice != "" {
		notice = styles.StatusCompleted.Render(s.notice) + "\n\n"
	}

	var body string
	if s.resolving {
		body = s.progressTracker.View()
		if body == "" {
			body = styles.StatusActive.Render("Fetching sources...")
		}
	} else {
		body = s.renderStreams()
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • enter: choose • w: mark watched • r: resolve again • esc: back • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s%s\n%s", header, errorLine(s.err), notice, body, help)
}

func (s *StreamsScreen) renderStreams() string {
	if len(s.streams) == 0 {
		return styles.MutedStyle.Render("No streams found")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Streams (%d, preference: %s):", len(s.streams), s.pref)))
	b.WriteString("\n\n")

	for i, st := range s.streams {
		line := fmt.Sprintf("%-6s %-10s %-4s %s", st.Quality, st.Provider, st.Format, truncate(st.URL, s.width-30))
		if i == s.selected {
			line = styles.SelectedStyle.Render("> " + line)
		} else {
			line = styles.TextStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if s.chosen != nil {
		b.WriteString("\n")
		b.WriteString(styles.CardStyle.Width(s.width - 4).Render(renderChosen(*s.chosen)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderChosen(st data.Stream) string {
	lines := []string{
		styles.TitleStyle.Render(fmt.Sprintf("%s from %s", st.Quality, st.Provider)),
		styles.TextStyle.Render(st.URL),
	}
	if st.Referer != "" {
		lines = append(lines, styles.MutedStyle.Render("Referer: "+st.Referer))
	}
	if st.Subtitle != "" {
		lines = append(lines, styles.MutedStyle.Render("Subtitles: "+st.Subtitle))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// Messages
type streamsResolvedMsg struct {
	streams []data.Stream
	err     error
}

type progressStoppedMsg struct{}

// Commands
func (s *StreamsScreen) resolve() tea.Msg {
	streams, err := s.controller.GetStreamsForEpisode(s.request.Show.ID, s.request.Episode, s.track)
	return streamsResolvedMsg{streams: streams, err: err}
}

// listenForProgress waits for the next resolution event, or for done.
func (s *StreamsScreen) listenForProgress(done <-chan struct{}) tea.Cmd {
	progress := s.controller.GetProgressChannel()
	return func() tea.Msg {
		select {
		case p := <-progress:
			return p
		case <-done:
			return progressStoppedMsg{}
		}
	}
}

func (s *StreamsScreen) stopListening() {
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *StreamsScreen) markWatched() tea.Msg {
	episode := s.request.Episode
	return watchedMsg{episode: episode, err: s.controller.MarkWatched(s.request.Show.ID, s.track, episode)}
}
