package cmd

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var trackMBID string

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Browse a track",
}

var trackInfoCmd = &cobra.Command{
	Use:   "info [<artist> <track>]",
	Short: "Show a track's details",
	Long: `Show a track's details, looked up by artist and name or by
MusicBrainz ID with --mbid.`,
	Args: trackArgs,
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		track, err := lookupTrack(ctx, c, a, args)
		if err != nil {
			return err
		}
		if err := track.LoadInfo(ctx); err != nil {
			return err
		}

		title := track.Name()
		if artist := track.Artist(); artist != nil {
			title += " by " + artist.Name()
		}
		a.out.Heading(title)
		if track.Album != nil {
			a.out.Field("Album", track.Album.Name())
		}
		if track.Duration > 0 {
			a.out.Field("Duration", (time.Duration(track.Duration) * time.Millisecond).Round(time.Second).String())
		}
		a.out.Field("Listeners", strconv.Itoa(track.Listeners))
		a.out.Field("Plays", strconv.Itoa(track.Playcount))
		a.out.Field("Tags", tagNames(track.Tags))
		a.out.Field("MBID", track.MBID())
		a.out.Field("URL", track.URL)
		return nil
	}),
}

// trackArgs accepts either <artist> <track>, or no arguments with --mbid.
func trackArgs(cmd *cobra.Command, args []string) error {
	if trackMBID != "" {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(2)(cmd, args)
}

func lookupTrack(ctx context.Context, c *lastfm.Client, a *app, args []string) (*lastfm.Track, error) {
	if trackMBID != "" {
		return lastfm.NewTrackByMBID(ctx, c, trackMBID, a.options())
	}
	if len(args) != 2 {
		return nil, errors.New("expected <artist> <track>")
	}
	return lastfm.NewTrack(ctx, c, args[0], args[1], a.options())
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.PersistentFlags().StringVar(&trackMBID, "mbid", "", "Look the track up by MusicBrainz ID")
	trackCmd.AddCommand(trackInfoCmd)

	trackCmd.AddCommand(trackListCmd("similar [<artist> <track>]", "Show similar tracks", trackArgs,
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []*lastfm.Track, error) {
			track, err := lookupTrack(ctx, c, a, args)
			if err != nil {
				return "", nil, err
			}
			similar, err := track.Similar(ctx, false)
			return "Similar to " + trackTitle(track), similar, err
		}))

	trackCmd.AddCommand(listCmd("top-fans [<artist> <track>]", "Show a track's top listeners", trackArgs,
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
			track, err := lookupTrack(ctx, c, a, args)
			if err != nil {
				return "", nil, err
			}
			fans, err := track.TopFans(ctx, false)
			return trackTitle(track), render.UserRows(fans), err
		}))

	trackCmd.AddCommand(listCmd("top-tags [<artist> <track>]", "Show a track's top tags", trackArgs,
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
			track, err := lookupTrack(ctx, c, a, args)
			if err != nil {
				return "", nil, err
			}
			tags, err := track.TopTags(ctx, false)
			return trackTitle(track), render.TagRows(tags), err
		}))
}

func trackTitle(t *lastfm.Track) string {
	if t.Name() == "" {
		return t.MBID()
	}
	return t.Name()
}
