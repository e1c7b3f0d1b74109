package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Browse by location",
	Long: `Browse events near a city or country, and the most popular
artists and tracks of a country.`,
}

func geoList(fetch func(ctx context.Context, geo *lastfm.Geo) ([]render.Row, error)) rowsFunc {
	return func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
		geo, err := lastfm.NewGeo(c, args[0], a.options())
		if err != nil {
			return "", nil, err
		}
		rows, err := fetch(ctx, geo)
		return geo.Location(), rows, err
	}
}

func init() {
	rootCmd.AddCommand(geoCmd)

	geoCmd.AddCommand(listCmd("events <location>", "Show upcoming events near a location", cobra.ExactArgs(1),
		geoList(func(ctx context.Context, geo *lastfm.Geo) ([]render.Row, error) {
			events, err := geo.Events(ctx, false)
			return render.EventRows(events), err
		})))

	geoCmd.AddCommand(listCmd("top-artists <country>", "Show a country's top artists", cobra.ExactArgs(1),
		geoList(func(ctx context.Context, geo *lastfm.Geo) ([]render.Row, error) {
			artists, err := geo.TopArtists(ctx, false)
			return render.ArtistRows(artists), err
		})))

	geoCmd.AddCommand(trackListCmd("top-tracks <country>", "Show a country's top tracks", cobra.ExactArgs(1),
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []*lastfm.Track, error) {
			geo, err := lastfm.NewGeo(c, args[0], a.options())
			if err != nil {
				return "", nil, err
			}
			tracks, err := geo.TopTracks(ctx, false)
			return geo.Location(), tracks, err
		}))
}
