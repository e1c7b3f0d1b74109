package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

type rowsFunc func(ctx context.Context, c *lastfm.Client, a *app, args []string) (title string, rows []render.Row, err error)

type tracksFunc func(ctx context.Context, c *lastfm.Client, a *app, args []string) (title string, tracks []*lastfm.Track, err error)

// listCmd builds a command that prints one titled listing.
func listCmd(use, short string, args cobra.PositionalArgs, fetch rowsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
			title, rows, err := fetch(ctx, c, a, args)
			if err != nil {
				return err
			}
			a.out.Heading(title)
			a.out.Rows(rows)
			return nil
		}),
	}
}

// trackListCmd is listCmd for tracks, with a --format template override.
func trackListCmd(use, short string, args cobra.PositionalArgs, fetch tracksFunc) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
			title, tracks, err := fetch(ctx, c, a, args)
			if err != nil {
				return err
			}
			if format != "" {
				return a.out.Template(format, render.TrackItems(tracks))
			}
			a.out.Heading(title)
			a.out.Rows(render.TrackRows(tracks))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "",
		"Template per track (fields: .Rank .Name .Artist .Album .Playcount .Listeners .NowPlaying .Date .URL)")
	return cmd
}
