package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all anime in your library",
	Long:  "Display all followed anime and your watch progress in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := controller.Library()
		if err != nil {
			cobra.CheckErr(friendly(err))
		}

		if len(entries) == 0 {
			fmt.Println("📺 No anime in library. Use 'anistream add' to follow a show.")
			return
		}

		// Create table columns
		columns := []table.Column{
			{Title: "Name", Width: 40},
			{Title: "ID", Width: 20},
			{Title: "Track", Width: 6},
			{Title: "Status", Width: 12},
			{Title: "Episodes", Width: 10},
			{Title: "Watched", Width: 10},
		}

		rows := []table.Row{}
		for _, e := range entries {
			status := e.Show.Status
			if status == "" {
				status = "watching"
			}

			rows = append(rows, table.Row{
				truncateString(e.Show.Name, 38),
				truncateString(e.Show.ID, 18),
				e.Show.Track.String(),
				status,
				fmt.Sprintf("%d", e.Episodes),
				fmt.Sprintf("%d", e.Watched),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📺 Library (%d anime)\n\n", len(entries))
		fmt.Println(t.View())
	},
}
