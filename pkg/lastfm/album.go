package lastfm

import (
	"context"
	"time"
)

// Album is a Last.fm album, identified by artist and name.
type Album struct {
	*entity

	artist *Artist
	name   string

	MBID        string
	URL         string
	ReleaseDate time.Time
	Playcount   int
	Listeners   int
	Rank        int
	Images      Images
	Tracks      []*Track
	Tags        []*Tag
}

// albumRules is assigned in init: album tracks hydrate through trackRules,
// which in turn hydrate nested albums.
var albumRules ruleTable[Album]

func init() {
	albumRules = ruleTable[Album]{
		entity: "album",
		fields: []fieldRule[Album]{
			{tags: []string{"name", "title"}, set: text(func(a *Album) *string { return &a.name })},
			{tags: []string{"artist"}, when: withArtistInfo, set: nestedArtist(func(a *Album) **Artist { return &a.artist })},
			{tags: []string{"artist"}, set: artistName(func(a *Album) **Artist { return &a.artist })},
			{tags: []string{"mbid"}, set: text(func(a *Album) *string { return &a.MBID })},
			{tags: []string{"url"}, set: text(func(a *Album) *string { return &a.URL })},
			{tags: []string{"releasedate"}, set: timestamp(func(a *Album) *time.Time { return &a.ReleaseDate })},
			{tags: []string{"playcount"}, set: integer(func(a *Album) *int { return &a.Playcount })},
			{tags: []string{"listeners"}, set: integer(func(a *Album) *int { return &a.Listeners })},
			{tags: []string{"image"}, set: image(func(a *Album) *Images { return &a.Images })},
			{tags: []string{"tracks"}, set: albumTracks},
			{tags: []string{"tags", "toptags"}, set: list(func(a *Album) *[]*Tag { return &a.Tags }, "tag", hydrateTag)},
		},
		attrs: []attrRule[Album]{
			{attr: "rank", set: attrInteger(func(a *Album) *int { return &a.Rank })},
			{attr: "mbid", set: attrText(func(a *Album) *string { return &a.MBID })},
		},
	}
}

// albumTracks hydrates an album's track listing. Tracks are not allowed to
// hydrate the album again.
func albumTracks(c *Client, a *Album, n *Node, opts Options) error {
	nested := opts
	nested.IncludeAlbumInfo = false
	tracks, err := collect(c, n, n.Name, "track", nested, hydrateTrack)
	if err != nil {
		return err
	}
	a.Tracks = tracks
	return nil
}

// NewAlbum creates an album from its artist and name. With
// opts.IncludeInfo set it also loads the album's full info.
func NewAlbum(ctx context.Context, c *Client, artist, name string, opts *Options) (*Album, error) {
	if err := requireIdentity("artist", artist); err != nil {
		return nil, err
	}
	if err := requireIdentity("album name", name); err != nil {
		return nil, err
	}
	o := resolveOptions(opts)
	a := &Album{
		entity: newEntity(c, o),
		artist: &Artist{entity: newEntity(c, o), name: artist},
		name:   name,
	}
	if o.IncludeInfo {
		if err := a.LoadInfo(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// albumFromNode hydrates an album element, which may be text only
// (<album mbid="...">Believe</album>). The artist may be left unset.
func albumFromNode(c *Client, n *Node, opts Options) (*Album, error) {
	a := &Album{entity: newEntity(c, opts)}
	if n.HasElements() {
		if err := albumRules.hydrate(c, a, n, opts); err != nil {
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

// hydrateAlbum builds a standalone album from a response element; the
// artist is required.
func hydrateAlbum(c *Client, n *Node, opts Options) (*Album, error) {
	a, err := albumFromNode(c, n, opts)
	if err != nil || a == nil {
		return nil, err
	}
	if a.artist == nil {
		return nil, &HydrationError{Entity: "album", Field: "artist"}
	}
	return a, nil
}

// nestedAlbum hydrates an album element inside a track.
func nestedAlbum[T any](field func(*T) **Album) setter[T] {
	return func(c *Client, e *T, n *Node, opts Options) error {
		nested := opts
		nested.IncludeAlbumInfo = false
		a, err := albumFromNode(c, n, nested)
		if err != nil {
			return err
		}
		*field(e) = a
		return nil
	}
}

// Artist returns the album's artist.
func (a *Album) Artist() *Artist {
	return a.artist
}

// Name returns the album's name.
func (a *Album) Name() string {
	return a.name
}

func (a *Album) params() map[string]string {
	return map[string]string{"artist": a.artist.Name(), "album": a.name}
}

// LoadInfo fetches album.getInfo once and fills the album's fields,
// including its track listing.
func (a *Album) LoadInfo(ctx context.Context) error {
	return a.fetchSingle(ctx, "album.getInfo", a.params(), "album", func(n *Node) error {
		next := *a
		if err := albumRules.hydrate(a.client, &next, n, a.opts); err != nil {
			return err
		}
		next.artist, next.name = a.artist, a.name
		*a = next
		return nil
	})
}

// TopTags returns the tags most applied to the album.
func (a *Album) TopTags(ctx context.Context, force bool) ([]*Tag, error) {
	return fetchCollection(ctx, a.entity, "album.getTopTags", "top_tags", "toptags", "tag", a.params(), force, hydrateTag)
}
