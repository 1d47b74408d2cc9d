package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	purple = lipgloss.Color("99")

	headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns the borderless table used by the listing commands.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for anime",
	Long:  "Search the AllAnime catalog and display the shows that have episodes on the selected track",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		results, err := controller.Search(query, track())
		if err != nil {
			cobra.CheckErr(friendly(err))
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}

		t := newTable("#", "Name", "Episodes", "ID")
		for i, show := range results {
			t.Row(
				fmt.Sprintf("%d", i+1),
				truncateString(show.Name, 58),
				fmt.Sprintf("%d", show.EpisodeCount(track())),
				show.ID,
			)
		}

		fmt.Println(t)
	},
}
