package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/daemon"
	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/internal/scrobbler"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var (
	playArtist      string
	playTrack       string
	playAlbum       string
	playAlbumArtist string
	playDuration    time.Duration
	playPlayed      time.Duration
	playAgo         time.Duration

	statusList bool
	pruneAge   time.Duration

	watchInterval time.Duration
	watchPruneAge time.Duration
)

var scrobbleCmd = &cobra.Command{
	Use:   "scrobble",
	Short: "Queue plays and submit them to Last.fm",
	Long: `Plays are stored in a local queue (queue_path in the config) and
submitted in batches with 'scrobbler scrobble flush'. Plays that Last.fm
would not count are rejected when queued: tracks shorter than 30 seconds,
plays under half the track (or four minutes), and plays older than two
weeks.`,
}

var scrobbleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Queue a play",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		queue, err := openQueue(a)
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		play := playFromFlags(time.Now())
		id, err := queue.Add(ctx, play)
		if err != nil {
			return err
		}

		a.logger.Debug().Int64("id", id).Str("artist", play.Artist).Str("track", play.Track).Msg("play queued")
		a.out.Line(fmt.Sprintf("Queued %s - %s (#%d)", play.Artist, play.Track, id))
		return nil
	}),
}

var scrobbleNowCmd = &cobra.Command{
	Use:   "now-playing",
	Short: "Tell Last.fm what is playing now",
	Args:  cobra.NoArgs,
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		resp, err := scrobbler.New(c, a.logger).NowPlaying(ctx, playFromFlags(time.Now()))
		if err != nil {
			return err
		}
		if resp.IgnoredMessage.Code != 0 {
			return fmt.Errorf("now playing ignored: %s", resp.IgnoredMessage.Text)
		}
		a.out.Line(fmt.Sprintf("Now playing %s - %s", resp.Artist, resp.Track))
		return nil
	}),
}

var scrobbleFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Submit queued plays to Last.fm",
	Args:  cobra.NoArgs,
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		client := scrobbler.New(c, a.logger)
		if !client.IsAuthenticated() {
			return fmt.Errorf("%w: run 'scrobbler auth' first", lastfm.ErrNoSessionKey)
		}

		queue, err := openQueue(a)
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		result, err := client.Flush(ctx, queue)
		a.out.Line(fmt.Sprintf("Submitted %d batches: %d accepted, %d ignored",
			result.Batches, result.Accepted, result.Ignored))
		return err
	}),
}

var scrobbleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the queue",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		queue, err := openQueue(a)
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		stats, err := queue.Stats(ctx)
		if err != nil {
			return err
		}
		a.out.Heading("Scrobble queue")
		a.out.Field("Pending", strconv.Itoa(stats.Pending))
		a.out.Field("Failed", strconv.Itoa(stats.Failed))
		a.out.Field("Total", strconv.Itoa(stats.Total))

		// The record is only written by 'scrobble watch'
		if state, err := daemon.NewState(flushStatePath(a)); err == nil {
			if last := state.Get(); !last.LastFlush.IsZero() {
				a.out.Field("Last flush", last.LastFlush.Local().Format("2006-01-02 15:04"))
				a.out.Field("Last error", last.LastError)
			}
		}

		if !statusList || stats.Pending == 0 {
			return nil
		}
		pending, err := queue.Pending(ctx, 0)
		if err != nil {
			return err
		}
		a.out.Line("")
		a.out.Rows(queueRows(pending))
		return nil
	}),
}

var scrobblePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old submitted plays and expired pending ones",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		queue, err := openQueue(a)
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		deleted, err := queue.Prune(ctx, pruneAge)
		if err != nil {
			return err
		}
		a.out.Line(fmt.Sprintf("Deleted %d plays", deleted))
		return nil
	}),
}

var scrobbleWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Flush the queue periodically until interrupted",
	Long: `Flushes the queue immediately and then every --interval. On interrupt a
final flush is made and old plays are pruned. Totals are kept in
flush_state.json next to the queue and shown by 'scrobbler scrobble status'.`,
	Args: cobra.NoArgs,
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		client := scrobbler.New(c, a.logger)
		if !client.IsAuthenticated() {
			return fmt.Errorf("%w: run 'scrobbler auth' first", lastfm.ErrNoSessionKey)
		}

		queue, err := openQueue(a)
		if err != nil {
			return err
		}
		defer func() { _ = queue.Close() }()

		d, err := daemon.New(daemon.Config{
			FlushInterval: watchInterval,
			PruneAge:      watchPruneAge,
			StateFile:     flushStatePath(a),
		}, client, queue, a.logger)
		if err != nil {
			return err
		}

		a.out.Line(fmt.Sprintf("Flushing every %s, press Ctrl+C to stop", watchInterval))
		if err := d.Run(ctx); err != nil {
			return err
		}

		state := d.State()
		a.out.Line(fmt.Sprintf("Stopped after %d flushes: %d accepted, %d ignored",
			state.Flushes, state.Accepted, state.Ignored))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(scrobbleCmd)

	for _, cmd := range []*cobra.Command{scrobbleAddCmd, scrobbleNowCmd} {
		cmd.Flags().StringVarP(&playArtist, "artist", "a", "", "Artist name")
		cmd.Flags().StringVarP(&playTrack, "track", "t", "", "Track name")
		cmd.Flags().StringVar(&playAlbum, "album", "", "Album name")
		cmd.Flags().StringVar(&playAlbumArtist, "album-artist", "", "Album artist, if different")
		cmd.Flags().DurationVarP(&playDuration, "duration", "d", 0, "Track length (e.g. 3m45s)")
		_ = cmd.MarkFlagRequired("artist")
		_ = cmd.MarkFlagRequired("track")
	}
	scrobbleAddCmd.Flags().DurationVar(&playPlayed, "played", 0, "How much was played (default: the whole track)")
	scrobbleAddCmd.Flags().DurationVar(&playAgo, "ago", 0, "When playback started, relative to now (default: --played ago)")
	_ = scrobbleAddCmd.MarkFlagRequired("duration")

	scrobbleStatusCmd.Flags().BoolVarP(&statusList, "list", "l", false, "List pending plays")
	scrobblePruneCmd.Flags().DurationVar(&pruneAge, "max-age", 30*24*time.Hour, "Keep submitted plays newer than this")

	scrobbleWatchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Minute, "Time between flushes")
	scrobbleWatchCmd.Flags().DurationVar(&watchPruneAge, "prune-age", 30*24*time.Hour, "Prune submitted plays older than this on exit (0 disables)")

	scrobbleCmd.AddCommand(scrobbleAddCmd, scrobbleNowCmd, scrobbleFlushCmd, scrobbleStatusCmd, scrobblePruneCmd, scrobbleWatchCmd)
}

func playFromFlags(now time.Time) scrobbler.Play {
	ago := playAgo
	if ago == 0 {
		ago = playPlayed
	}
	if ago == 0 {
		ago = playDuration
	}
	return scrobbler.Play{
		Artist:      playArtist,
		Track:       playTrack,
		Album:       playAlbum,
		AlbumArtist: playAlbumArtist,
		Duration:    playDuration,
		Played:      playPlayed,
		Timestamp:   now.Add(-ago),
	}
}

func openQueue(a *app) (*scrobbler.Queue, error) {
	path := a.cfg.QueuePath
	if path == "" {
		return nil, errors.New("queue_path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}
	return scrobbler.NewQueue(path)
}

func flushStatePath(a *app) string {
	return filepath.Join(filepath.Dir(a.cfg.QueuePath), "flush_state.json")
}

func queueRows(plays []scrobbler.QueuedPlay) []render.Row {
	rows := make([]render.Row, len(plays))
	for i, p := range plays {
		secondary := p.Artist + " (" + p.Timestamp.Format("2006-01-02 15:04") + ")"
		if p.Error != "" {
			secondary += " " + p.Error
		}
		rows[i] = render.Row{Rank: i + 1, Primary: p.Track, Secondary: secondary}
	}
	return rows
}
