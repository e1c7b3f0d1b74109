package lastfm

import (
	"context"
)

// Tag is a Last.fm tag.
type Tag struct {
	*entity

	name string

	Count      int
	URL        string
	Reach      int
	Taggings   int
	Streamable bool
}

var tagRules = ruleTable[Tag]{
	entity: "tag",
	fields: []fieldRule[Tag]{
		{tags: []string{"name"}, set: text(func(t *Tag) *string { return &t.name })},
		{tags: []string{"count"}, set: integer(func(t *Tag) *int { return &t.Count })},
		{tags: []string{"url"}, set: text(func(t *Tag) *string { return &t.URL })},
		{tags: []string{"reach"}, set: integer(func(t *Tag) *int { return &t.Reach })},
		{tags: []string{"taggings"}, set: integer(func(t *Tag) *int { return &t.Taggings })},
		{tags: []string{"streamable"}, set: flag(func(t *Tag) *bool { return &t.Streamable })},
	},
}

// NewTag creates a tag by name.
func NewTag(c *Client, name string, opts *Options) (*Tag, error) {
	if err := requireIdentity("tag name", name); err != nil {
		return nil, err
	}
	return &Tag{entity: newEntity(c, resolveOptions(opts)), name: name}, nil
}

func hydrateTag(c *Client, n *Node, opts Options) (*Tag, error) {
	t := &Tag{entity: newEntity(c, opts)}
	if err := tagRules.hydrate(c, t, n, opts); err != nil {
		return nil, err
	}
	if t.name == "" {
		return nil, nil
	}
	return t, nil
}

// Name returns the tag's name.
func (t *Tag) Name() string {
	return t.name
}

func (t *Tag) params() map[string]string {
	return map[string]string{"tag": t.name}
}

// TopArtists returns the artists most tagged with this tag.
func (t *Tag) TopArtists(ctx context.Context, force bool) ([]*Artist, error) {
	return fetchCollection(ctx, t.entity, "tag.getTopArtists", "top_artists", "topartists", "artist", t.params(), force, hydrateArtist)
}

// TopAlbums returns the albums most tagged with this tag.
func (t *Tag) TopAlbums(ctx context.Context, force bool) ([]*Album, error) {
	return fetchCollection(ctx, t.entity, "tag.getTopAlbums", "top_albums", "topalbums", "album", t.params(), force, hydrateAlbum)
}

// TopTracks returns the tracks most tagged with this tag.
func (t *Tag) TopTracks(ctx context.Context, force bool) ([]*Track, error) {
	return fetchCollection(ctx, t.entity, "tag.getTopTracks", "top_tracks", "toptracks", "track", t.params(), force, hydrateTrack)
}

// Similar returns tags similar to this one.
func (t *Tag) Similar(ctx context.Context, force bool) ([]*Tag, error) {
	return fetchCollection(ctx, t.entity, "tag.getSimilar", "similar", "similartags", "tag", t.params(), force, hydrateTag)
}
