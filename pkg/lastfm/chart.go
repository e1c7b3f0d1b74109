package lastfm

import (
	"context"
	"strconv"
	"time"
)

// Chart is one weekly chart range of a user.
type Chart struct {
	*entity

	user string
	from time.Time
	to   time.Time
}

var chartRules = ruleTable[Chart]{
	entity: "chart",
	attrs: []attrRule[Chart]{
		{attr: "from", set: func(ch *Chart, v string) (err error) {
			ch.from, err = parseUnix(v)
			return err
		}},
		{attr: "to", set: func(ch *Chart, v string) (err error) {
			ch.to, err = parseUnix(v)
			return err
		}},
	},
}

// NewChart creates the chart of user for the range [from, to].
func NewChart(c *Client, user string, from, to time.Time, opts *Options) (*Chart, error) {
	if err := requireIdentity("user", user); err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, argumentError("chart range", "needs both from and to")
	}
	if !from.Before(to) {
		return nil, argumentError("chart range", "from must be before to")
	}
	return &Chart{entity: newEntity(c, resolveOptions(opts)), user: user, from: from, to: to}, nil
}

// hydrateChart reads a <chart from="..." to="..."/> element. Charts
// without a complete range are skipped.
func hydrateChart(c *Client, n *Node, opts Options, user string) (*Chart, error) {
	ch := &Chart{entity: newEntity(c, opts), user: user}
	if err := chartRules.hydrate(c, ch, n, opts); err != nil {
		return nil, err
	}
	if ch.from.IsZero() || ch.to.IsZero() {
		return nil, nil
	}
	return ch, nil
}

// User returns the name of the user the chart belongs to.
func (ch *Chart) User() string {
	return ch.user
}

// From returns the start of the chart range.
func (ch *Chart) From() time.Time {
	return ch.from
}

// To returns the end of the chart range.
func (ch *Chart) To() time.Time {
	return ch.to
}

func (ch *Chart) params() map[string]string {
	return map[string]string{
		"user": ch.user,
		"from": strconv.FormatInt(ch.from.Unix(), 10),
		"to":   strconv.FormatInt(ch.to.Unix(), 10),
	}
}

// Artists returns the weekly artist chart for the range.
func (ch *Chart) Artists(ctx context.Context, force bool) ([]*Artist, error) {
	return fetchCollection(ctx, ch.entity, "user.getWeeklyArtistChart", "artists", "weeklyartistchart", "artist", ch.params(), force, hydrateArtist)
}

// Albums returns the weekly album chart for the range.
func (ch *Chart) Albums(ctx context.Context, force bool) ([]*Album, error) {
	return fetchCollection(ctx, ch.entity, "user.getWeeklyAlbumChart", "albums", "weeklyalbumchart", "album", ch.params(), force, hydrateAlbum)
}

// Tracks returns the weekly track chart for the range.
func (ch *Chart) Tracks(ctx context.Context, force bool) ([]*Track, error) {
	return fetchCollection(ctx, ch.entity, "user.getWeeklyTrackChart", "tracks", "weeklytrackchart", "track", ch.params(), force, hydrateTrack)
}
