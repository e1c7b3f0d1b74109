package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Browse a tag",
}

func tagList(fetch func(ctx context.Context, tag *lastfm.Tag) ([]render.Row, error)) rowsFunc {
	return func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
		tag, err := lastfm.NewTag(c, args[0], a.options())
		if err != nil {
			return "", nil, err
		}
		rows, err := fetch(ctx, tag)
		return tag.Name(), rows, err
	}
}

func init() {
	rootCmd.AddCommand(tagCmd)

	tagCmd.AddCommand(listCmd("top-artists <tag>", "Show the top artists for a tag", cobra.ExactArgs(1),
		tagList(func(ctx context.Context, tag *lastfm.Tag) ([]render.Row, error) {
			artists, err := tag.TopArtists(ctx, false)
			return render.ArtistRows(artists), err
		})))

	tagCmd.AddCommand(listCmd("top-albums <tag>", "Show the top albums for a tag", cobra.ExactArgs(1),
		tagList(func(ctx context.Context, tag *lastfm.Tag) ([]render.Row, error) {
			albums, err := tag.TopAlbums(ctx, false)
			return render.AlbumRows(albums), err
		})))

	tagCmd.AddCommand(listCmd("similar <tag>", "Show similar tags", cobra.ExactArgs(1),
		tagList(func(ctx context.Context, tag *lastfm.Tag) ([]render.Row, error) {
			tags, err := tag.Similar(ctx, false)
			return render.TagRows(tags), err
		})))

	tagCmd.AddCommand(trackListCmd("top-tracks <tag>", "Show the top tracks for a tag", cobra.ExactArgs(1),
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []*lastfm.Track, error) {
			tag, err := lastfm.NewTag(c, args[0], a.options())
			if err != nil {
				return "", nil, err
			}
			tracks, err := tag.TopTracks(ctx, false)
			return tag.Name(), tracks, err
		}))
}
