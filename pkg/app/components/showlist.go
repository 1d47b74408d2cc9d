package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/data"
)

type ShowListItem struct {
	Show     *data.Show
	Episodes int
	Watched  int
}

type ShowList struct {
	Items         []ShowListItem
	SelectedIndex int
	Width         int
	Height        int
	EmptyText     string
}

func NewShowList() *ShowList {
	return &ShowList{
		Items:         []ShowListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
		EmptyText:     "No anime in library",
	}
}

func (m *ShowList) SetItems(items []ShowListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *ShowList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *ShowList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *ShowList) Selected() *ShowListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

func (m *ShowList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(m.EmptyText)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder

	for i, item := range m.Items {
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(item.Show.Name)

		statusText := fmt.Sprintf("Status: %s", item.Show.Status)
		if item.Show.Status == "" {
			statusText = "Status: watching"
		}
		status := styles.StatusStyle(item.Show.Status).Render(statusText)

		episodeInfo := styles.MutedStyle.Render(
			fmt.Sprintf("Episodes: %d / %d watched", item.Watched, item.Episodes),
		)

		track := styles.MutedStyle.Render(fmt.Sprintf("Track: %s • ID: %s", item.Show.Track, item.Show.ID))

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			episodeInfo,
			status,
			track,
		)

		card := cardStyle.Width(m.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}
