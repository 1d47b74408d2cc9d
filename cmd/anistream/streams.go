package cmd

import (
	"fmt"
	"os"

	"github.com/kerbaras/anistream/pkg/quality"
	"github.com/kerbaras/anistream/pkg/services"
	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams [show-id] [episode]",
	Short: "Resolve playable streams for an episode",
	Long:  "Decode every source of an episode, query its provider and print the stream matching --quality",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		showID, episode := args[0], args[1]
		all, _ := cmd.Flags().GetBool("all")
		markWatched, _ := cmd.Flags().GetBool("mark")

		// Listen for progress
		go func() {
			for progress := range controller.GetProgressChannel() {
				reportProgress(progress)
			}
		}()

		streams, err := controller.GetStreamsForEpisode(showID, episode, track())
		if err != nil {
			cobra.CheckErr(friendly(err))
		}

		if len(streams) == 0 {
			fmt.Println("No streams found.")
			return
		}

		if all {
			t := newTable("Quality", "Provider", "Format", "URL")
			for _, s := range quality.Rank(streams) {
				t.Row(s.Quality, string(s.Provider), string(s.Format), s.URL)
			}
			fmt.Println(t)
			return
		}

		stream, _ := controller.Select(streams, preference())
		fmt.Println(stream.URL)
		if stream.Referer != "" {
			fmt.Fprintf(os.Stderr, "referer: %s\n", stream.Referer)
		}
		if stream.Subtitle != "" {
			fmt.Fprintf(os.Stderr, "subtitle: %s\n", stream.Subtitle)
		}

		if markWatched {
			if err := controller.MarkWatched(showID, track(), episode); err != nil {
				fmt.Fprintf(os.Stderr, "could not mark episode as watched: %v\n", friendly(err))
			}
		}
	},
}

// reportProgress prints per-source resolution events in verbose mode.
func reportProgress(p services.ResolveProgress) {
	if !cfg.Verbose {
		return
	}
	switch p.Status {
	case "complete":
		fmt.Fprintf(os.Stderr, "  [%d/%d] %s: %d streams\n", p.Index+1, p.Total, p.Source, p.Streams)
	case "error":
		fmt.Fprintf(os.Stderr, "  [%d/%d] %s: %v\n", p.Index+1, p.Total, p.Source, p.Error)
	}
}

func init() {
	streamsCmd.Flags().Bool("all", false, "List every stream instead of picking one")
	streamsCmd.Flags().Bool("mark", false, "Mark the episode as watched in the library")
}
