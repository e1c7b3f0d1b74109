/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/config"
	"github.com/jfmyers9/scrobbler/internal/logging"
	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Global flags
var (
	logLevel   string
	logFile    string
	width      int
	noColor    bool
	artistInfo bool
	albumInfo  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scrobbler",
	Short: "Last.fm catalog browser and scrobbler",
	Long: `scrobbler is a command line client for Last.fm.

It browses the Last.fm catalog (artists, albums, tracks, tags, users,
events and locations) and keeps an offline queue of plays that are
scrobbled to your account with 'scrobbler scrobble flush'.

Run 'scrobbler auth' once to connect your Last.fm account.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "Write JSON logs to this file instead of stderr")
	flags.IntVarP(&width, "width", "w", 0, "Output width in columns (overrides config)")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured output")
	flags.BoolVar(&artistInfo, "artist-info", true, "Hydrate nested artists fully")
	flags.BoolVar(&albumInfo, "album-info", true, "Hydrate nested albums fully")
}

// app is the per-invocation state shared by commands.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    *render.Renderer
	closer io.Closer

	client *lastfm.Client
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer := logging.New(logLevel, logFile)

	w := cfg.OutputWidth
	if width > 0 {
		w = width
	}
	out := render.New(cmd.OutOrStdout(), w)
	if noColor {
		out.DisableColor()
	}

	return &app{cfg: cfg, logger: logger, out: out, closer: closer}, nil
}

// Close releases the log file.
func (a *app) Close() {
	_ = a.closer.Close()
}

// api returns the Last.fm client, creating it on first use.
func (a *app) api() (*lastfm.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	cfg, err := a.cfg.ClientConfig(logging.NewAdapter(a.logger))
	if err != nil {
		return nil, fmt.Errorf("invalid Last.fm config: %w", err)
	}
	client, err := lastfm.NewClient(cfg)
	if errors.Is(err, lastfm.ErrInvalidConfig) {
		return nil, fmt.Errorf("%w (set lastfm.api_key in %s/config.yaml or SCROBBLER_LASTFM_API_KEY)", err, config.GetConfigDir())
	}
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// options returns hydration options from the global flags.
func (a *app) options() *lastfm.Options {
	opts := lastfm.DefaultOptions()
	opts.IncludeArtistInfo = artistInfo
	opts.IncludeAlbumInfo = albumInfo
	return &opts
}

type runFunc func(ctx context.Context, a *app, args []string) error

// withApp builds the app for a command run and tears it down afterwards.
func withApp(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, a, args)
	}
}

// withAPI is withApp for commands that talk to Last.fm.
func withAPI(fn func(ctx context.Context, a *app, c *lastfm.Client, args []string) error) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, a *app, args []string) error {
		c, err := a.api()
		if err != nil {
			return err
		}
		return fn(ctx, a, c, args)
	})
}
