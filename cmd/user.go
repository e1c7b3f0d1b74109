package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Browse a user's listening",
}

var userInfoCmd = &cobra.Command{
	Use:   "info <user>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		opts := a.options()
		opts.IncludeInfo = true
		user, err := lastfm.NewUser(ctx, c, args[0], opts)
		if err != nil {
			return err
		}
		showProfile(a, user)
		return nil
	}),
}

func showProfile(a *app, user *lastfm.User) {
	a.out.Heading(user.Username())
	a.out.Field("Name", user.RealName)
	a.out.Field("Country", user.Country)
	if user.Age > 0 {
		a.out.Field("Age", strconv.Itoa(user.Age))
	}
	if !user.Registered.IsZero() {
		a.out.Field("Registered", user.Registered.Format("2 Jan 2006"))
	}
	a.out.Field("Plays", strconv.Itoa(user.Playcount))
	if user.Subscriber {
		a.out.Field("Subscriber", "yes")
	}
	a.out.Field("URL", user.URL)
}

var overviewPeriod string

var userOverviewCmd = &cobra.Command{
	Use:   "overview <user>",
	Short: "Show a user's profile with top artists, albums and tracks",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		opts := a.options()
		opts.IncludeInfo = true
		user, err := lastfm.NewUser(ctx, c, args[0], opts)
		if err != nil {
			return err
		}

		// The profile is loaded first; the charts share the user's cache.
		var (
			artists []*lastfm.Artist
			albums  []*lastfm.Album
			tracks  []*lastfm.Track
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			artists, err = user.TopArtists(gctx, overviewPeriod, false)
			return err
		})
		g.Go(func() error {
			var err error
			albums, err = user.TopAlbums(gctx, overviewPeriod, false)
			return err
		})
		g.Go(func() error {
			var err error
			tracks, err = user.TopTracks(gctx, overviewPeriod, false)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		showProfile(a, user)
		a.out.Line("")
		a.out.Heading("Top artists")
		a.out.Rows(render.ArtistRows(limitRows(artists, 10)))
		a.out.Line("")
		a.out.Heading("Top albums")
		a.out.Rows(render.AlbumRows(limitRows(albums, 10)))
		a.out.Line("")
		a.out.Heading("Top tracks")
		a.out.Rows(render.TrackRows(limitRows(tracks, 10)))
		return nil
	}),
}

func limitRows[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

var (
	feedFormat  string
	chartKind   string
	friendsPage int
	friendsSize int
)

var userFeedsCmd = &cobra.Command{
	Use:   "feeds <user>",
	Short: "Print a user's calendar feed URLs",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		user, err := lastfm.NewUser(ctx, c, args[0], a.options())
		if err != nil {
			return err
		}

		feeds := []struct {
			label string
			url   func(string) (string, error)
		}{
			{"Events", user.EventsURL},
			{"Friends' events", user.FriendsEventsURL},
			{"Recommended", user.RecommendedEventsURL},
		}
		a.out.Heading(user.Username())
		for _, f := range feeds {
			u, err := f.url(feedFormat)
			if err != nil {
				return err
			}
			a.out.Field(f.label, u)
		}
		return nil
	}),
}

var userChartCmd = &cobra.Command{
	Use:   "chart <user> [index]",
	Short: "Show one weekly chart (default: the most recent)",
	Long: `Show a weekly chart for a user. The index refers to the list
printed by 'scrobbler user charts'; without it the most recent week is
shown. --kind selects artists, albums or tracks.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		user, err := lastfm.NewUser(ctx, c, args[0], a.options())
		if err != nil {
			return err
		}
		charts, err := user.WeeklyCharts(ctx, false)
		if err != nil {
			return err
		}
		if len(charts) == 0 {
			return fmt.Errorf("no weekly charts for %s", user.Username())
		}

		idx := len(charts)
		if len(args) == 2 {
			if idx, err = strconv.Atoi(args[1]); err != nil || idx < 1 || idx > len(charts) {
				return fmt.Errorf("%w: chart index must be between 1 and %d", lastfm.ErrInvalidArgument, len(charts))
			}
		}
		chart := charts[idx-1]

		var rows []render.Row
		switch chartKind {
		case "artists":
			artists, err := chart.Artists(ctx, false)
			if err != nil {
				return err
			}
			rows = render.ArtistRows(artists)
		case "albums":
			albums, err := chart.Albums(ctx, false)
			if err != nil {
				return err
			}
			rows = render.AlbumRows(albums)
		case "tracks":
			tracks, err := chart.Tracks(ctx, false)
			if err != nil {
				return err
			}
			rows = render.TrackRows(tracks)
		default:
			return fmt.Errorf("%w: unknown chart kind %q (artists, albums or tracks)", lastfm.ErrInvalidArgument, chartKind)
		}

		a.out.Heading(fmt.Sprintf("%s %s, %s - %s", user.Username(), chartKind,
			chart.From().Format("2006-01-02"), chart.To().Format("2006-01-02")))
		a.out.Rows(rows)
		return nil
	}),
}

// userList builds a listing over a lazily constructed user.
func userList(fetch func(ctx context.Context, user *lastfm.User) ([]render.Row, error)) rowsFunc {
	return func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
		user, err := lastfm.NewUser(ctx, c, args[0], a.options())
		if err != nil {
			return "", nil, err
		}
		rows, err := fetch(ctx, user)
		return user.Username(), rows, err
	}
}

func userTracks(fetch func(ctx context.Context, user *lastfm.User) ([]*lastfm.Track, error)) tracksFunc {
	return func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []*lastfm.Track, error) {
		user, err := lastfm.NewUser(ctx, c, args[0], a.options())
		if err != nil {
			return "", nil, err
		}
		tracks, err := fetch(ctx, user)
		return user.Username(), tracks, err
	}
}

func addPeriodFlag(cmd *cobra.Command, period *string) *cobra.Command {
	cmd.Flags().StringVarP(period, "period", "p", lastfm.PeriodOverall,
		"Chart period (overall, 7day, 1month, 3month, 6month, 12month)")
	return cmd
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userInfoCmd)

	addPeriodFlag(userOverviewCmd, &overviewPeriod)
	userCmd.AddCommand(userOverviewCmd)

	userFeedsCmd.Flags().StringVar(&feedFormat, "feed-format", "ics", "Feed format (ics or rss)")
	userCmd.AddCommand(userFeedsCmd)

	userChartCmd.Flags().StringVarP(&chartKind, "kind", "k", "artists", "Chart kind (artists, albums, tracks)")
	userCmd.AddCommand(userChartCmd)

	var artistPeriod, albumPeriod, trackPeriod string

	userCmd.AddCommand(addPeriodFlag(listCmd("top-artists <user>", "Show a user's top artists", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			artists, err := user.TopArtists(ctx, artistPeriod, false)
			return render.ArtistRows(artists), err
		})), &artistPeriod))

	userCmd.AddCommand(addPeriodFlag(listCmd("top-albums <user>", "Show a user's top albums", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			albums, err := user.TopAlbums(ctx, albumPeriod, false)
			return render.AlbumRows(albums), err
		})), &albumPeriod))

	userCmd.AddCommand(addPeriodFlag(trackListCmd("top-tracks <user>", "Show a user's top tracks", cobra.ExactArgs(1),
		userTracks(func(ctx context.Context, user *lastfm.User) ([]*lastfm.Track, error) {
			return user.TopTracks(ctx, trackPeriod, false)
		})), &trackPeriod))

	userCmd.AddCommand(listCmd("top-tags <user>", "Show a user's top tags", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			tags, err := user.TopTags(ctx, false)
			return render.TagRows(tags), err
		})))

	userCmd.AddCommand(trackListCmd("recent <user>", "Show a user's recently played tracks", cobra.ExactArgs(1),
		userTracks(func(ctx context.Context, user *lastfm.User) ([]*lastfm.Track, error) {
			return user.RecentTracks(ctx, false)
		})))

	userCmd.AddCommand(trackListCmd("loved <user>", "Show a user's loved tracks", cobra.ExactArgs(1),
		userTracks(func(ctx context.Context, user *lastfm.User) ([]*lastfm.Track, error) {
			return user.LovedTracks(ctx, false)
		})))

	userCmd.AddCommand(trackListCmd("banned <user>", "Show a user's recently banned tracks (legacy feed)", cobra.ExactArgs(1),
		userTracks(func(ctx context.Context, user *lastfm.User) ([]*lastfm.Track, error) {
			return user.RecentBannedTracks(ctx, false)
		})))

	friends := listCmd("friends <user>", "Show a user's friends", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			users, err := user.Friends(ctx, friendsPage, friendsSize, false)
			return render.UserRows(users), err
		}))
	friends.Flags().IntVar(&friendsPage, "page", 1, "Page of results")
	friends.Flags().IntVar(&friendsSize, "limit", 50, "Friends per page")
	userCmd.AddCommand(friends)

	userCmd.AddCommand(listCmd("neighbours <user>", "Show users with similar taste", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			users, err := user.Neighbours(ctx, false)
			return render.UserRows(users), err
		})))

	userCmd.AddCommand(listCmd("recommendations <user>", "Show recommended artists (legacy feed)", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			artists, err := user.Recommendations(ctx, false)
			return render.ArtistRows(artists), err
		})))

	userCmd.AddCommand(listCmd("charts <user>", "List a user's weekly chart ranges", cobra.ExactArgs(1),
		userList(func(ctx context.Context, user *lastfm.User) ([]render.Row, error) {
			charts, err := user.WeeklyCharts(ctx, false)
			rows := render.ChartRows(charts)
			for i := range rows {
				rows[i].Rank = i + 1
			}
			return rows, err
		})))
}
