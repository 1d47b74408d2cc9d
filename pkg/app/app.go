package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/anistream/pkg/app/screens"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/services"
)

type App struct {
	controller *services.AnimeController
	track      data.Track
	pref       data.Preference
}

func NewApp(controller *services.AnimeController, track data.Track, pref data.Preference) *App {
	return &App{controller: controller, track: track, pref: pref}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.controller, a.track, a.pref)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
