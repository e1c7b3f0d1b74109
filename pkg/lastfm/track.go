package lastfm

import (
	"context"
	"time"
)

// Track is a Last.fm track, identified by artist and name or, when created
// with NewTrackByMBID, by MusicBrainz ID.
type Track struct {
	*entity

	artist *Artist
	name   string
	mbid   string
	byMBID bool

	ID         int
	Duration   int
	URL        string
	Date       time.Time
	Listeners  int
	Playcount  int
	Tagcount   int
	Rank       int
	Match      float64
	Streamable bool
	NowPlaying bool
	Album      *Album
	Images     Images
	Tags       []*Tag
}

var trackRules = ruleTable[Track]{
	entity: "track",
	fields: []fieldRule[Track]{
		{tags: []string{"name", "title"}, set: text(func(t *Track) *string { return &t.name })},
		{tags: []string{"mbid"}, set: text(func(t *Track) *string { return &t.mbid })},
		{tags: []string{"id"}, set: integer(func(t *Track) *int { return &t.ID })},
		{tags: []string{"duration"}, set: integer(func(t *Track) *int { return &t.Duration })},
		{tags: []string{"url", "identifier"}, set: text(func(t *Track) *string { return &t.URL })},
		{tags: []string{"date"}, set: timestamp(func(t *Track) *time.Time { return &t.Date })},
		{tags: []string{"listeners"}, set: integer(func(t *Track) *int { return &t.Listeners })},
		{tags: []string{"playcount"}, set: integer(func(t *Track) *int { return &t.Playcount })},
		{tags: []string{"tagcount"}, set: integer(func(t *Track) *int { return &t.Tagcount })},
		{tags: []string{"match"}, set: floating(func(t *Track) *float64 { return &t.Match })},
		{tags: []string{"streamable"}, set: flag(func(t *Track) *bool { return &t.Streamable })},
		{tags: []string{"image"}, set: image(func(t *Track) *Images { return &t.Images })},
		{tags: []string{"artist", "creator"}, when: withArtistInfo, set: nestedArtist(func(t *Track) **Artist { return &t.artist })},
		{tags: []string{"artist", "creator"}, set: artistName(func(t *Track) **Artist { return &t.artist })},
		{tags: []string{"album"}, when: withAlbumInfo, set: nestedAlbum(func(t *Track) **Album { return &t.Album })},
		{tags: []string{"toptags"}, set: list(func(t *Track) *[]*Tag { return &t.Tags }, "tag", hydrateTag)},
	},
	attrs: []attrRule[Track]{
		{attr: "rank", set: attrInteger(func(t *Track) *int { return &t.Rank })},
		{attr: "nowplaying", set: attrFlag(func(t *Track) *bool { return &t.NowPlaying })},
	},
}

// NewTrack creates a track from its artist and name. With opts.IncludeInfo
// set it also loads the track's full info.
func NewTrack(ctx context.Context, c *Client, artist, name string, opts *Options) (*Track, error) {
	if err := requireIdentity("artist", artist); err != nil {
		return nil, err
	}
	if err := requireIdentity("track name", name); err != nil {
		return nil, err
	}
	o := resolveOptions(opts)
	t := &Track{
		entity: newEntity(c, o),
		artist: &Artist{entity: newEntity(c, o), name: artist},
		name:   name,
	}
	if o.IncludeInfo {
		if err := t.LoadInfo(ctx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewTrackByMBID creates a track from its MusicBrainz ID. Artist and name
// stay empty until LoadInfo runs; opts.IncludeInfo runs it immediately.
func NewTrackByMBID(ctx context.Context, c *Client, mbid string, opts *Options) (*Track, error) {
	if err := requireIdentity("mbid", mbid); err != nil {
		return nil, err
	}
	o := resolveOptions(opts)
	t := &Track{entity: newEntity(c, o), mbid: mbid, byMBID: true}
	if o.IncludeInfo {
		if err := t.LoadInfo(ctx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// hydrateTrack builds a track from a response element. It returns nil for
// elements without a name and a HydrationError for elements with neither
// an artist nor a creator.
func hydrateTrack(c *Client, n *Node, opts Options) (*Track, error) {
	t := &Track{entity: newEntity(c, opts)}
	if err := trackRules.hydrate(c, t, n, opts); err != nil {
		return nil, err
	}
	if t.name == "" {
		return nil, nil
	}
	if t.artist == nil {
		return nil, &HydrationError{Entity: "track", Field: "artist or creator"}
	}
	t.adoptAlbum()
	return t, nil
}

// adoptAlbum gives a nested album without its own artist the track's
// artist, and drops it when no artist is known.
func (t *Track) adoptAlbum() {
	if t.Album == nil || t.Album.artist != nil {
		return
	}
	if t.artist == nil {
		t.Album = nil
		return
	}
	t.Album.artist = t.artist
}

// Artist returns the track's artist. It is nil for an MBID track whose
// info has not been loaded.
func (t *Track) Artist() *Artist {
	return t.artist
}

// Name returns the track's name.
func (t *Track) Name() string {
	return t.name
}

// MBID returns the track's MusicBrainz ID, if known.
func (t *Track) MBID() string {
	return t.mbid
}

// Equal reports whether both tracks share name and artist. An MBID track
// whose info has not been loaded compares by MBID.
func (t *Track) Equal(other *Track) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.unresolved() || other.unresolved() {
		return t.mbid != "" && t.mbid == other.mbid
	}
	return t.name == other.name && t.artist.Equal(other.artist)
}

func (t *Track) unresolved() bool {
	return t.byMBID && t.artist == nil
}

func (t *Track) params() map[string]string {
	if t.unresolved() {
		return map[string]string{"mbid": t.mbid}
	}
	return map[string]string{"artist": t.artist.Name(), "track": t.name}
}

// LoadInfo fetches track.getInfo once and fills the track's fields.
// Identity fields keep their constructed values.
func (t *Track) LoadInfo(ctx context.Context) error {
	return t.fetchSingle(ctx, "track.getInfo", t.params(), "track", func(n *Node) error {
		next := *t
		if err := trackRules.hydrate(t.client, &next, n, t.opts); err != nil {
			return err
		}
		if t.byMBID {
			next.mbid = t.mbid
		} else {
			next.artist, next.name = t.artist, t.name
		}
		next.adoptAlbum()
		*t = next
		return nil
	})
}

// TopFans returns the track's top listeners.
func (t *Track) TopFans(ctx context.Context, force bool) ([]*User, error) {
	return fetchCollection(ctx, t.entity, "track.getTopFans", "fans", "topfans", "user", t.params(), force, hydrateUser)
}

// TopTags returns the tags most applied to the track.
func (t *Track) TopTags(ctx context.Context, force bool) ([]*Tag, error) {
	return fetchCollection(ctx, t.entity, "track.getTopTags", "top_tags", "toptags", "tag", t.params(), force, hydrateTag)
}

// Similar returns tracks similar to this one.
func (t *Track) Similar(ctx context.Context, force bool) ([]*Track, error) {
	return fetchCollection(ctx, t.entity, "track.getSimilar", "similar", "similartracks", "track", t.params(), force, hydrateTrack)
}

// AddTags would tag the track for the authenticated user. It needs a
// signed track.addTags call and is not supported.
func (t *Track) AddTags(ctx context.Context, tags []string) error {
	return ErrNotSupported
}

// Ban would ban the track for the authenticated user. It is not supported.
func (t *Track) Ban(ctx context.Context) error {
	return ErrNotSupported
}
