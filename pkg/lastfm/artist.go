package lastfm

import (
	"context"
)

// Artist is a Last.fm artist. Its name is fixed at construction.
type Artist struct {
	*entity

	name string

	MBID       string
	URL        string
	Playcount  int
	Listeners  int
	Tagcount   int
	Rank       int
	Streamable bool
	Match      float64
	Images     Images
	Summary    string
	Tags       []*Tag
}

var artistRules = ruleTable[Artist]{
	entity: "artist",
	fields: []fieldRule[Artist]{
		{tags: []string{"name"}, set: text(func(a *Artist) *string { return &a.name })},
		{tags: []string{"mbid"}, set: text(func(a *Artist) *string { return &a.MBID })},
		{tags: []string{"url"}, set: text(func(a *Artist) *string { return &a.URL })},
		{tags: []string{"playcount"}, set: integer(func(a *Artist) *int { return &a.Playcount })},
		{tags: []string{"listeners"}, set: integer(func(a *Artist) *int { return &a.Listeners })},
		{tags: []string{"tagcount"}, set: integer(func(a *Artist) *int { return &a.Tagcount })},
		{tags: []string{"streamable"}, set: flag(func(a *Artist) *bool { return &a.Streamable })},
		{tags: []string{"match"}, set: floating(func(a *Artist) *float64 { return &a.Match })},
		{tags: []string{"image"}, set: image(func(a *Artist) *Images { return &a.Images })},
		{tags: []string{"stats"}, set: artistStats},
		{tags: []string{"bio"}, set: func(_ *Client, a *Artist, n *Node, _ Options) error {
			a.Summary = n.Child("summary").Text()
			return nil
		}},
		{tags: []string{"tags", "toptags"}, set: list(func(a *Artist) *[]*Tag { return &a.Tags }, "tag", hydrateTag)},
	},
	attrs: []attrRule[Artist]{
		{attr: "rank", set: attrInteger(func(a *Artist) *int { return &a.Rank })},
		{attr: "mbid", set: attrText(func(a *Artist) *string { return &a.MBID })},
	},
}

// artistStats reads the <stats> block of artist.getInfo.
func artistStats(_ *Client, a *Artist, n *Node, _ Options) error {
	var err error
	if a.Listeners, err = parseInt(n.Child("listeners").Text()); err != nil {
		return err
	}
	if a.Playcount, err = parseInt(n.Child("playcount").Text()); err != nil {
		return err
	}
	return nil
}

// NewArtist creates an artist by name. With opts.IncludeInfo set it also
// loads the artist's full info.
func NewArtist(ctx context.Context, c *Client, name string, opts *Options) (*Artist, error) {
	if err := requireIdentity("artist name", name); err != nil {
		return nil, err
	}
	o := resolveOptions(opts)
	a := &Artist{entity: newEntity(c, o), name: name}
	if o.IncludeInfo {
		if err := a.LoadInfo(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// hydrateArtist builds an artist from a response element. Elements that
// carry only text (<artist mbid="...">Cher</artist>) are taken as the name.
func hydrateArtist(c *Client, n *Node, opts Options) (*Artist, error) {
	a := &Artist{entity: newEntity(c, opts)}
	if n.HasElements() {
		if err := artistRules.hydrate(c, a, n, opts); err != nil {
			return nil, err
		}
	} else {
		a.name = n.Text()
		a.MBID, _ = n.Attr("mbid")
	}
	if a.name == "" {
		return nil, nil
	}
	return a, nil
}

// nestedArtist hydrates an artist element inside another entity, without
// letting the artist hydrate further artists.
func nestedArtist[T any](field func(*T) **Artist) setter[T] {
	return func(c *Client, e *T, n *Node, opts Options) error {
		nested := opts
		nested.IncludeArtistInfo = false
		a, err := hydrateArtist(c, n, nested)
		if err != nil {
			return err
		}
		*field(e) = a
		return nil
	}
}

// artistName records only the name of a nested artist element.
func artistName[T any](field func(*T) **Artist) setter[T] {
	return func(c *Client, e *T, n *Node, opts Options) error {
		name := n.Text()
		if n.HasElements() {
			name = n.Child("name").Text()
		}
		if name == "" {
			return nil
		}
		*field(e) = &Artist{entity: newEntity(c, opts), name: name}
		return nil
	}
}

// Name returns the artist's name.
func (a *Artist) Name() string {
	return a.name
}

// Equal reports whether both artists have the same name.
func (a *Artist) Equal(other *Artist) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.name == other.name
}

func (a *Artist) params() map[string]string {
	return map[string]string{"artist": a.name}
}

// LoadInfo fetches artist.getInfo once and fills the artist's fields.
func (a *Artist) LoadInfo(ctx context.Context) error {
	return a.fetchSingle(ctx, "artist.getInfo", a.params(), "artist", func(n *Node) error {
		next := *a
		if err := artistRules.hydrate(a.client, &next, n, a.opts); err != nil {
			return err
		}
		next.name = a.name
		*a = next
		return nil
	})
}

// Similar returns artists similar to this one.
func (a *Artist) Similar(ctx context.Context, force bool) ([]*Artist, error) {
	return fetchCollection(ctx, a.entity, "artist.getSimilar", "similar", "similarartists", "artist", a.params(), force, hydrateArtist)
}

// TopFans returns the artist's top listeners.
func (a *Artist) TopFans(ctx context.Context, force bool) ([]*User, error) {
	return fetchCollection(ctx, a.entity, "artist.getTopFans", "top_fans", "topfans", "user", a.params(), force, hydrateUser)
}

// TopTracks returns the artist's most played tracks.
func (a *Artist) TopTracks(ctx context.Context, force bool) ([]*Track, error) {
	return fetchCollection(ctx, a.entity, "artist.getTopTracks", "top_tracks", "toptracks", "track", a.params(), force, hydrateTrack)
}

// TopAlbums returns the artist's most played albums.
func (a *Artist) TopAlbums(ctx context.Context, force bool) ([]*Album, error) {
	return fetchCollection(ctx, a.entity, "artist.getTopAlbums", "top_albums", "topalbums", "album", a.params(), force, hydrateAlbum)
}

// TopTags returns the tags most applied to the artist.
func (a *Artist) TopTags(ctx context.Context, force bool) ([]*Tag, error) {
	return fetchCollection(ctx, a.entity, "artist.getTopTags", "top_tags", "toptags", "tag", a.params(), force, hydrateTag)
}

// Events returns the artist's upcoming events.
func (a *Artist) Events(ctx context.Context, force bool) ([]*Event, error) {
	return fetchCollection(ctx, a.entity, "artist.getEvents", "events", "events", "event", a.params(), force, hydrateEvent)
}
