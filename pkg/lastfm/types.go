package lastfm

import (
	"time"
)

// ScrobbleTrack describes a played track for scrobbling or now playing
// updates.
type ScrobbleTrack struct {
	Artist      string // Required: Artist name
	Track       string // Required: Track name
	Album       string // Optional: Album name
	AlbumArtist string // Optional: Album artist (if different from track artist)
	Duration    int    // Optional: Track duration in seconds
	TrackNumber int    // Optional: Track number on album
	MBTrackID   string // Optional: MusicBrainz track ID
}

// Scrobble is a single play with the time it started.
type Scrobble struct {
	Track     ScrobbleTrack
	Timestamp time.Time
}

// Token represents an authentication token from auth.getToken.
type Token struct {
	Token string
}

// Session represents an authenticated session from auth.getSession.
type Session struct {
	Key        string // Session key for authenticated requests
	Username   string // Last.fm username
	Subscriber bool   // Whether user is a subscriber
}

// IgnoredMessage explains why Last.fm ignored a submission. Code 0 means
// it was accepted.
type IgnoredMessage struct {
	Code int
	Text string
}

// NowPlayingResponse is the result of track.updateNowPlaying, with the
// metadata as Last.fm corrected it.
type NowPlayingResponse struct {
	Artist         string
	Track          string
	Album          string
	AlbumArtist    string
	IgnoredMessage IgnoredMessage
}

// ScrobbleResult is the outcome of one scrobble in a batch.
type ScrobbleResult struct {
	Artist         string
	Track          string
	Album          string
	Timestamp      time.Time
	IgnoredMessage IgnoredMessage
}

// ScrobbleResponse is the result of track.scrobble.
type ScrobbleResponse struct {
	Accepted  int
	Ignored   int
	Scrobbles []ScrobbleResult
}
