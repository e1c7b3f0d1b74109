// Package lastfm is a client for the Last.fm XML web service.
//
// # Overview
//
// The package covers two halves of the API. The catalog half models
// Last.fm's read-only data as entities (Artist, Album, Track, User, Tag,
// Chart, Event and Geo) that hydrate themselves from XML responses and
// memoize what they fetch. The account half implements the signed calls:
// the desktop authentication flow and scrobbling.
//
// # Quick Start
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey: "your-api-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	artist, err := lastfm.NewArtist(ctx, client, "Cher", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tracks, err := artist.TopTracks(ctx, false)
//
// # Hydration
//
// Every entity is built from a response element by a table of rules that
// map child tags onto fields. Unknown tags are ignored, blank numbers
// read as zero, and a field that cannot be coerced is reported as a
// *HydrationError. Options control how far hydration reaches:
//
//	opts := lastfm.DefaultOptions()
//	opts.IncludeInfo = true // fetch artist.getInfo immediately
//	artist, err := lastfm.NewArtist(ctx, client, "Cher", &opts)
//
// With IncludeArtistInfo or IncludeAlbumInfo cleared, nested <artist> and
// <album> elements are kept as names only.
//
// # Caching
//
// Each entity caches the collections it derives. A second call to
// TopTracks returns the stored slice without a request; passing force
// refetches and replaces it. Results are keyed by operation and
// arguments unless Config.CacheKeying selects CacheKeyByName. Failed
// fetches are never cached.
//
// # Authentication and Scrobbling
//
// Signed calls need Config.APISecret:
//
//	token, err := client.Auth().GetToken(ctx)
//	fmt.Println("Please visit:", client.Auth().GetAuthURL(token.Token))
//	session, err := client.Auth().GetSession(ctx, token.Token)
//	client.SetSessionKey(session.Key)
//
//	_, err = client.Scrobble().Scrobble(ctx, lastfm.ScrobbleTrack{
//	    Artist: "The Beatles",
//	    Track:  "Yesterday",
//	}, time.Now().Add(-3*time.Minute))
//
// # Errors
//
// Last.fm error documents are returned as *Error, other non-success
// responses as *HTTPError. Blank identities and unknown enumerations
// wrap ErrInvalidArgument. Temporary failures are retried inside the
// client with exponential backoff; callers never need to retry.
package lastfm
