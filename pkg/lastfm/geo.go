package lastfm

import (
	"context"
)

// Geo scopes catalog queries to a location (a city or a country name).
type Geo struct {
	*entity

	location string
}

// NewGeo creates a location scope. The location is required.
func NewGeo(c *Client, location string, opts *Options) (*Geo, error) {
	if err := requireIdentity("location", location); err != nil {
		return nil, err
	}
	return &Geo{entity: newEntity(c, resolveOptions(opts)), location: location}, nil
}

// Location returns the location this scope was created with.
func (g *Geo) Location() string {
	return g.location
}

// Events returns upcoming events near the location.
func (g *Geo) Events(ctx context.Context, force bool) ([]*Event, error) {
	params := map[string]string{"location": g.location}
	return fetchCollection(ctx, g.entity, "geo.getEvents", "events", "events", "event", params, force, hydrateEvent)
}

// TopArtists returns the most popular artists when the location is a
// country.
func (g *Geo) TopArtists(ctx context.Context, force bool) ([]*Artist, error) {
	params := map[string]string{"country": g.location}
	return fetchCollection(ctx, g.entity, "geo.getTopArtists", "top_artists", "topartists", "artist", params, force, hydrateArtist)
}

// TopTracks returns the most popular tracks when the location is a
// country.
func (g *Geo) TopTracks(ctx context.Context, force bool) ([]*Track, error) {
	params := map[string]string{"country": g.location}
	return fetchCollection(ctx, g.entity, "geo.getTopTracks", "top_tracks", "toptracks", "track", params, force, hydrateTrack)
}
