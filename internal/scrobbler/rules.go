package scrobbler

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Last.fm scrobbling rules
const (
	// MinimumTrackDuration is the shortest track Last.fm accepts.
	MinimumTrackDuration = 30 * time.Second

	// ScrobblePercentage is the share of a track that must be played.
	ScrobblePercentage = 0.5

	// MaxScrobbleThreshold caps the required play time.
	MaxScrobbleThreshold = 4 * time.Minute

	// MaxScrobbleAge is how far back Last.fm accepts a timestamp.
	MaxScrobbleAge = 14 * 24 * time.Hour
)

var (
	// ErrNotEligible is returned for plays Last.fm would not count.
	ErrNotEligible = errors.New("play is not eligible for scrobbling")

	// ErrTooOld is returned for plays older than MaxScrobbleAge.
	ErrTooOld = errors.New("play is too old to scrobble")
)

// Play is a single listen waiting to be scrobbled.
type Play struct {
	Artist      string
	Track       string
	Album       string
	AlbumArtist string

	// Duration is the length of the track. Played is how much of it was
	// heard; zero means the whole track.
	Duration time.Duration
	Played   time.Duration

	// Timestamp is when playback started.
	Timestamp time.Time
}

// ShouldScrobble reports whether a play counts under the Last.fm rules:
// the track is at least 30 seconds long and was played for half its
// length or four minutes, whichever comes first.
func ShouldScrobble(trackDuration, playedDuration time.Duration) bool {
	threshold := ScrobbleThreshold(trackDuration)
	if threshold < 0 {
		return false
	}
	return playedDuration >= threshold
}

// ScrobbleThreshold returns the play time at which a track becomes
// scrobblable, or -1 for tracks that never qualify.
func ScrobbleThreshold(trackDuration time.Duration) time.Duration {
	if !IsEligible(trackDuration) {
		return time.Duration(-1)
	}

	threshold := time.Duration(float64(trackDuration) * ScrobblePercentage)
	if threshold > MaxScrobbleThreshold {
		threshold = MaxScrobbleThreshold
	}
	return threshold
}

// IsEligible checks the track length alone.
func IsEligible(trackDuration time.Duration) bool {
	return trackDuration >= MinimumTrackDuration
}

// Validate checks a play against the scrobbling rules as of now.
func (p Play) Validate(now time.Time) error {
	if strings.TrimSpace(p.Artist) == "" || strings.TrimSpace(p.Track) == "" {
		return fmt.Errorf("%w: artist and track are required", ErrNotEligible)
	}
	if p.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrNotEligible)
	}
	if p.Timestamp.After(now) {
		return fmt.Errorf("%w: timestamp %s is in the future", ErrNotEligible, p.Timestamp.Format(time.RFC3339))
	}
	if now.Sub(p.Timestamp) > MaxScrobbleAge {
		return fmt.Errorf("%w: played at %s", ErrTooOld, p.Timestamp.Format(time.RFC3339))
	}

	played := p.Played
	if played == 0 {
		played = p.Duration
	}
	if !ShouldScrobble(p.Duration, played) {
		return fmt.Errorf("%w: played %s of %s", ErrNotEligible, played, p.Duration)
	}
	return nil
}
