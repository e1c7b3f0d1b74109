package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var artistCmd = &cobra.Command{
	Use:   "artist",
	Short: "Browse an artist",
}

var artistInfoCmd = &cobra.Command{
	Use:   "info <artist>",
	Short: "Show an artist's profile",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		opts := a.options()
		opts.IncludeInfo = true
		artist, err := lastfm.NewArtist(ctx, c, args[0], opts)
		if err != nil {
			return err
		}

		a.out.Heading(artist.Name())
		a.out.Field("Listeners", strconv.Itoa(artist.Listeners))
		a.out.Field("Plays", strconv.Itoa(artist.Playcount))
		a.out.Field("Tags", tagNames(artist.Tags))
		a.out.Field("URL", artist.URL)
		if artist.Summary != "" {
			a.out.Line("")
			a.out.Line(artist.Summary)
		}
		return nil
	}),
}

// artistList builds a listing over a lazily constructed artist.
func artistList(fetch func(ctx context.Context, artist *lastfm.Artist) ([]render.Row, error)) rowsFunc {
	return func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
		artist, err := lastfm.NewArtist(ctx, c, args[0], a.options())
		if err != nil {
			return "", nil, err
		}
		rows, err := fetch(ctx, artist)
		return artist.Name(), rows, err
	}
}

func init() {
	rootCmd.AddCommand(artistCmd)
	artistCmd.AddCommand(artistInfoCmd)

	artistCmd.AddCommand(listCmd("similar <artist>", "Show similar artists", cobra.ExactArgs(1),
		artistList(func(ctx context.Context, artist *lastfm.Artist) ([]render.Row, error) {
			similar, err := artist.Similar(ctx, false)
			return render.ArtistRows(similar), err
		})))

	artistCmd.AddCommand(listCmd("top-albums <artist>", "Show an artist's top albums", cobra.ExactArgs(1),
		artistList(func(ctx context.Context, artist *lastfm.Artist) ([]render.Row, error) {
			albums, err := artist.TopAlbums(ctx, false)
			return render.AlbumRows(albums), err
		})))

	artistCmd.AddCommand(listCmd("top-tags <artist>", "Show an artist's top tags", cobra.ExactArgs(1),
		artistList(func(ctx context.Context, artist *lastfm.Artist) ([]render.Row, error) {
			tags, err := artist.TopTags(ctx, false)
			return render.TagRows(tags), err
		})))

	artistCmd.AddCommand(listCmd("top-fans <artist>", "Show an artist's top listeners", cobra.ExactArgs(1),
		artistList(func(ctx context.Context, artist *lastfm.Artist) ([]render.Row, error) {
			fans, err := artist.TopFans(ctx, false)
			return render.UserRows(fans), err
		})))

	artistCmd.AddCommand(listCmd("events <artist>", "Show an artist's upcoming events", cobra.ExactArgs(1),
		artistList(func(ctx context.Context, artist *lastfm.Artist) ([]render.Row, error) {
			events, err := artist.Events(ctx, false)
			return render.EventRows(events), err
		})))

	artistCmd.AddCommand(trackListCmd("top-tracks <artist>", "Show an artist's top tracks", cobra.ExactArgs(1),
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []*lastfm.Track, error) {
			artist, err := lastfm.NewArtist(ctx, c, args[0], a.options())
			if err != nil {
				return "", nil, err
			}
			tracks, err := artist.TopTracks(ctx, false)
			return artist.Name(), tracks, err
		}))
}

func tagNames(tags []*lastfm.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name())
	}
	return strings.Join(names, ", ")
}
