package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes [show-id]",
	Short: "List the episodes of a show",
	Long:  "List the available episodes of a show in playback order, marking the ones already watched",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showID := args[0]

		episodes, err := controller.ListEpisodes(showID, track())
		if err != nil {
			cobra.CheckErr(friendly(err))
		}

		if len(episodes) == 0 {
			fmt.Printf("No %s episodes found.\n", track())
			return
		}

		watched := controller.Watched(showID, track())
		marked := make([]string, len(episodes))
		for i, ep := range episodes {
			if watched[ep] {
				marked[i] = ep + "*"
			} else {
				marked[i] = ep
			}
		}

		fmt.Printf("%d %s episodes:\n", len(episodes), track())
		fmt.Println(strings.Join(marked, " "))
	},
}
