package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Browse an album",
}

var albumInfoCmd = &cobra.Command{
	Use:   "info <artist> <album>",
	Short: "Show an album and its tracks",
	Args:  cobra.ExactArgs(2),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		opts := a.options()
		opts.IncludeInfo = true
		album, err := lastfm.NewAlbum(ctx, c, args[0], args[1], opts)
		if err != nil {
			return err
		}

		a.out.Heading(album.Name() + " by " + album.Artist().Name())
		if !album.ReleaseDate.IsZero() {
			a.out.Field("Released", album.ReleaseDate.Format("2 Jan 2006"))
		}
		a.out.Field("Listeners", strconv.Itoa(album.Listeners))
		a.out.Field("Plays", strconv.Itoa(album.Playcount))
		a.out.Field("Tags", tagNames(album.Tags))
		a.out.Field("URL", album.URL)
		if len(album.Tracks) > 0 {
			a.out.Line("")
			a.out.Rows(render.TrackRows(album.Tracks))
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(albumCmd)
	albumCmd.AddCommand(albumInfoCmd)

	albumCmd.AddCommand(listCmd("top-tags <artist> <album>", "Show an album's top tags", cobra.ExactArgs(2),
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
			album, err := lastfm.NewAlbum(ctx, c, args[0], args[1], a.options())
			if err != nil {
				return "", nil, err
			}
			tags, err := album.TopTags(ctx, false)
			return album.Name(), render.TagRows(tags), err
		}))
}
