package lastfm

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// User is a Last.fm user, identified by username.
type User struct {
	*entity

	username string

	ID         string
	Cluster    string
	URL        string
	RealName   string
	Registered time.Time
	Age        int
	Gender     string
	Country    string
	Playcount  int
	Subscriber bool
	Images     Images

	// Weight is set when the user was returned as a fan.
	Weight int
	// Match is set when the user was returned as a neighbour.
	Match float64
}

var userRules = ruleTable[User]{
	entity: "user",
	fields: []fieldRule[User]{
		{tags: []string{"name"}, set: text(func(u *User) *string { return &u.username })},
		{tags: []string{"id"}, set: text(func(u *User) *string { return &u.ID })},
		{tags: []string{"url"}, set: text(func(u *User) *string { return &u.URL })},
		{tags: []string{"realname"}, set: text(func(u *User) *string { return &u.RealName })},
		{tags: []string{"registered"}, set: timestamp(func(u *User) *time.Time { return &u.Registered })},
		{tags: []string{"age"}, set: integer(func(u *User) *int { return &u.Age })},
		{tags: []string{"gender"}, set: text(func(u *User) *string { return &u.Gender })},
		{tags: []string{"country"}, set: text(func(u *User) *string { return &u.Country })},
		{tags: []string{"playcount"}, set: integer(func(u *User) *int { return &u.Playcount })},
		{tags: []string{"subscriber"}, set: flag(func(u *User) *bool { return &u.Subscriber })},
		{tags: []string{"image", "avatar"}, set: image(func(u *User) *Images { return &u.Images })},
		{tags: []string{"weight"}, set: integer(func(u *User) *int { return &u.Weight })},
		{tags: []string{"match"}, set: floating(func(u *User) *float64 { return &u.Match })},
	},
	attrs: []attrRule[User]{
		{attr: "id", set: attrText(func(u *User) *string { return &u.ID })},
		{attr: "cluster", set: attrText(func(u *User) *string { return &u.Cluster })},
	},
}

// Periods accepted by the top-chart accessors.
const (
	PeriodOverall = "overall"
	Period7Day    = "7day"
	Period1Month  = "1month"
	Period3Month  = "3month"
	Period6Month  = "6month"
	Period12Month = "12month"
)

func validatePeriod(period string) error {
	switch period {
	case PeriodOverall, Period7Day, Period1Month, Period3Month, Period6Month, Period12Month:
		return nil
	default:
		return argumentError("period", "is not a known period: "+period)
	}
}

// NewUser creates a user by username. With opts.IncludeInfo set it also
// loads the user's profile.
func NewUser(ctx context.Context, c *Client, username string, opts *Options) (*User, error) {
	if err := requireIdentity("username", username); err != nil {
		return nil, err
	}
	o := resolveOptions(opts)
	u := &User{entity: newEntity(c, o), username: username}
	if o.IncludeInfo {
		if err := u.LoadProfile(ctx); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func hydrateUser(c *Client, n *Node, opts Options) (*User, error) {
	u := &User{entity: newEntity(c, opts)}
	if err := userRules.hydrate(c, u, n, opts); err != nil {
		return nil, err
	}
	if u.username == "" {
		return nil, nil
	}
	return u, nil
}

// Username returns the user's name.
func (u *User) Username() string {
	return u.username
}

// Image returns the avatar URL for a size label (small, medium or large).
func (u *User) Image(size string) (string, error) {
	return u.Images.URL(size)
}

func (u *User) params() map[string]string {
	return map[string]string{"user": u.username}
}

func (u *User) periodParams(period string) (map[string]string, error) {
	if period == "" {
		period = PeriodOverall
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return map[string]string{"user": u.username, "period": period}, nil
}

// LoadProfile fetches user.getInfo once and fills the profile fields.
func (u *User) LoadProfile(ctx context.Context) error {
	return u.fetchSingle(ctx, "user.getInfo", u.params(), "user", func(n *Node) error {
		next := *u
		if err := userRules.hydrate(u.client, &next, n, u.opts); err != nil {
			return err
		}
		next.username = u.username
		*u = next
		return nil
	})
}

// TopArtists returns the user's most played artists over period. An empty
// period means overall.
func (u *User) TopArtists(ctx context.Context, period string, force bool) ([]*Artist, error) {
	params, err := u.periodParams(period)
	if err != nil {
		return nil, err
	}
	return fetchCollection(ctx, u.entity, "user.getTopArtists", "top_artists", "topartists", "artist", params, force, hydrateArtist)
}

// TopAlbums returns the user's most played albums over period.
func (u *User) TopAlbums(ctx context.Context, period string, force bool) ([]*Album, error) {
	params, err := u.periodParams(period)
	if err != nil {
		return nil, err
	}
	return fetchCollection(ctx, u.entity, "user.getTopAlbums", "top_albums", "topalbums", "album", params, force, hydrateAlbum)
}

// TopTracks returns the user's most played tracks over period.
func (u *User) TopTracks(ctx context.Context, period string, force bool) ([]*Track, error) {
	params, err := u.periodParams(period)
	if err != nil {
		return nil, err
	}
	return fetchCollection(ctx, u.entity, "user.getTopTracks", "top_tracks", "toptracks", "track", params, force, hydrateTrack)
}

// TopTags returns the tags the user applies most.
func (u *User) TopTags(ctx context.Context, force bool) ([]*Tag, error) {
	return fetchCollection(ctx, u.entity, "user.getTopTags", "top_tags", "toptags", "tag", u.params(), force, hydrateTag)
}

// Friends returns one page of the user's friends.
func (u *User) Friends(ctx context.Context, page, limit int, force bool) ([]*User, error) {
	if page < 1 {
		return nil, argumentError("page", "must be at least 1")
	}
	if limit < 1 {
		return nil, argumentError("limit", "must be at least 1")
	}
	params := map[string]string{
		"user":  u.username,
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	return fetchCollection(ctx, u.entity, "user.getFriends", "friends", "friends", "user", params, force, hydrateUser)
}

// Neighbours returns users with similar taste.
func (u *User) Neighbours(ctx context.Context, force bool) ([]*User, error) {
	return fetchCollection(ctx, u.entity, "user.getNeighbours", "neighbours", "neighbours", "user", u.params(), force, hydrateUser)
}

// RecentTracks returns the user's recently played tracks. A track that is
// playing right now has NowPlaying set.
func (u *User) RecentTracks(ctx context.Context, force bool) ([]*Track, error) {
	return fetchCollection(ctx, u.entity, "user.getRecentTracks", "recent_tracks", "recenttracks", "track", u.params(), force, hydrateTrack)
}

// LovedTracks returns the tracks the user has loved.
func (u *User) LovedTracks(ctx context.Context, force bool) ([]*Track, error) {
	return fetchCollection(ctx, u.entity, "user.getLovedTracks", "loved_tracks", "lovedtracks", "track", u.params(), force, hydrateTrack)
}

// WeeklyCharts returns the weekly chart ranges available for the user.
func (u *User) WeeklyCharts(ctx context.Context, force bool) ([]*Chart, error) {
	hydrate := func(c *Client, n *Node, opts Options) (*Chart, error) {
		return hydrateChart(c, n, opts, u.username)
	}
	return fetchCollection(ctx, u.entity, "user.getWeeklyChartList", "charts", "weeklychartlist", "chart", u.params(), force, hydrate)
}

// RecentBannedTracks reads the user's legacy banned-tracks feed.
func (u *User) RecentBannedTracks(ctx context.Context, force bool) ([]*Track, error) {
	return fetchPathCollection(ctx, u.entity, u.legacyPath("recentbannedtracks.xml"), "recent_banned_tracks", "recentbannedtracks", "track", force, hydrateTrack)
}

// Recommendations reads the user's legacy artist recommendations feed.
func (u *User) Recommendations(ctx context.Context, force bool) ([]*Artist, error) {
	return fetchPathCollection(ctx, u.entity, u.legacyPath("systemrecs.xml"), "recommendations", "recommendations", "artist", force, hydrateArtist)
}

func (u *User) legacyPath(feed string) string {
	return "/1.0/user/" + url.PathEscape(u.username) + "/" + feed
}

// EventsURL returns the calendar feed of the user's events. format is
// ics (or ical) or rss.
func (u *User) EventsURL(format string) (string, error) {
	return u.feedURL("events", format)
}

// FriendsEventsURL returns the calendar feed of events the user's friends
// attend.
func (u *User) FriendsEventsURL(format string) (string, error) {
	return u.feedURL("friendevents", format)
}

// RecommendedEventsURL returns the calendar feed of events recommended to
// the user.
func (u *User) RecommendedEventsURL(format string) (string, error) {
	return u.feedURL("eventsysrecs", format)
}

func (u *User) feedURL(feed, format string) (string, error) {
	if format == "ical" {
		format = "ics"
	}
	if format != "ics" && format != "rss" {
		return "", argumentError("feed format", "must be ics, ical or rss, got "+format)
	}
	base := strings.TrimSuffix(u.client.baseURL, "/")
	return base + "/user/" + url.PathEscape(u.username) + "/" + feed + "." + format, nil
}
