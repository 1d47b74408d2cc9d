package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [anime-name]",
	Short: "Add an anime to your library",
	Long:  "Search for an anime and follow the first match in your library",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		fmt.Printf("🔍 Searching for '%s'...\n", query)

		show, err := controller.AddFirst(query, track())
		if err != nil {
			cobra.CheckErr(friendly(err))
		}
		if show == nil {
			fmt.Println("❌ No results found.")
			return
		}

		fmt.Printf("✅ Added '%s' to library with %d %s episodes\n", show.Name, show.EpisodeCount(track()), track())
		fmt.Printf("💡 To list episodes, use: anistream episodes %s\n", show.ID)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [show-id]",
	Short: "Remove an anime from your library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := controller.Unfollow(args[0]); err != nil {
			cobra.CheckErr(friendly(err))
		}
		fmt.Printf("🗑  Removed %s from library\n", args[0])
	},
}

var watchedCmd = &cobra.Command{
	Use:   "watched [show-id] [episode...]",
	Short: "Mark episodes as watched",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		showID := args[0]
		for _, ep := range args[1:] {
			if err := controller.MarkWatched(showID, track(), ep); err != nil {
				cobra.CheckErr(friendly(err))
			}
		}
		fmt.Printf("✅ Marked %d episode(s) as watched\n", len(args)-1)
	},
}
