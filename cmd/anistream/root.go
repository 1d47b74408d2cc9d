package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kerbaras/anistream/pkg/app"
	"github.com/kerbaras/anistream/pkg/config"
	"github.com/kerbaras/anistream/pkg/data"
	"github.com/kerbaras/anistream/pkg/metrics"
	"github.com/kerbaras/anistream/pkg/services"
	"github.com/spf13/cobra"
)

var (
	cfg        config.Config
	controller *services.AnimeController
)

var rootCmd = &cobra.Command{
	Use:   "anistream",
	Short: "Find and resolve anime streams from the terminal",
	Long:  "Search AllAnime, list episodes and resolve playable stream URLs with a TUI and CLI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		a := app.NewApp(controller, track(), preference())
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env", "Load settings from this file if it exists")
	flags.Bool("dub", false, "Use the dubbed track instead of subtitles")
	flags.StringP("quality", "q", "", "Stream quality: best, worst or a label such as 720")
	flags.String("db", "", "Library database path (empty string keeps the default)")
	flags.Bool("no-library", false, "Run without the local library")
	flags.Int("concurrency", 0, "Sources resolved at once")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	flags.BoolP("verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(streamsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(watchedCmd)
}

// setup loads the configuration, applies flag overrides and builds the controller.
func setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")

	c, err := config.Load(envFile)
	if err != nil {
		return err
	}

	if dub, _ := flags.GetBool("dub"); dub {
		c.Track = data.TrackDub.String()
	}
	if q, _ := flags.GetString("quality"); q != "" {
		c.Quality = q
	}
	if db, _ := flags.GetString("db"); db != "" {
		c.DBPath = db
	}
	if off, _ := flags.GetBool("no-library"); off {
		c.DBPath = ""
	}
	if n, _ := flags.GetInt("concurrency"); n > 0 {
		c.Concurrency = n
	}
	if addr, _ := flags.GetString("metrics-addr"); addr != "" {
		c.MetricsAddr = addr
	}
	if v, _ := flags.GetBool("verbose"); v {
		c.Verbose = true
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	metrics.Serve(cfg.MetricsAddr)

	controller, err = services.NewAnimeController(cfg)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
