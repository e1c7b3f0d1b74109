package lastfm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScrobbleService provides scrobbling operations for the Last.fm API.
type ScrobbleService struct {
	client *Client
}

// MaxBatchSize is the maximum number of scrobbles allowed in a single batch.
const MaxBatchSize = 50

// UpdateNowPlaying tells Last.fm which track the user is listening to. It
// does not count as a scrobble.
//
// Requires a session key.
//
// Example:
//
//	track := lastfm.ScrobbleTrack{
//	    Artist: "The Beatles",
//	    Track:  "Yesterday",
//	    Album:  "Help!",
//	}
//	if _, err := client.Scrobble().UpdateNowPlaying(ctx, track); err != nil {
//	    log.Printf("now playing: %v", err)
//	}
func (s *ScrobbleService) UpdateNowPlaying(ctx context.Context, track ScrobbleTrack) (*NowPlayingResponse, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if err := validateScrobbleTrack(track); err != nil {
		return nil, err
	}

	params := make(map[string]string)
	addTrackParams(params, track, "")

	resp, err := s.client.call(ctx, "track.updateNowPlaying", params, true)
	if err != nil {
		return nil, err
	}

	var np nowPlayingResponse
	if err := unmarshalInner(resp, &np); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse now playing response: %w", err)
	}
	return &NowPlayingResponse{
		Artist:         np.Artist,
		Track:          np.Track,
		Album:          np.Album,
		AlbumArtist:    np.AlbumArtist,
		IgnoredMessage: np.IgnoredMessage.message(),
	}, nil
}

// Scrobble submits a single play.
//
// Last.fm only accepts a scrobble for a track longer than 30 seconds that
// was played for half its duration or four minutes, whichever comes first.
//
// Requires a session key.
func (s *ScrobbleService) Scrobble(ctx context.Context, track ScrobbleTrack, timestamp time.Time) (*ScrobbleResponse, error) {
	return s.ScrobbleBatch(ctx, []Scrobble{{Track: track, Timestamp: timestamp}})
}

// ScrobbleBatch submits up to MaxBatchSize plays in one request. Extra
// scrobbles beyond MaxBatchSize are dropped.
//
// Example:
//
//	resp, err := client.Scrobble().ScrobbleBatch(ctx, []lastfm.Scrobble{
//	    {Track: lastfm.ScrobbleTrack{Artist: "The Beatles", Track: "Yesterday"}, Timestamp: played},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Accepted: %d, Ignored: %d\n", resp.Accepted, resp.Ignored)
func (s *ScrobbleService) ScrobbleBatch(ctx context.Context, scrobbles []Scrobble) (*ScrobbleResponse, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if len(scrobbles) == 0 {
		return &ScrobbleResponse{}, nil
	}
	if len(scrobbles) > MaxBatchSize {
		scrobbles = scrobbles[:MaxBatchSize]
	}

	params := make(map[string]string)
	for i, sc := range scrobbles {
		if err := validateScrobbleTrack(sc.Track); err != nil {
			return nil, err
		}
		idx := "[" + strconv.Itoa(i) + "]"
		addTrackParams(params, sc.Track, idx)
		params["timestamp"+idx] = strconv.FormatInt(sc.Timestamp.Unix(), 10)
	}

	resp, err := s.client.call(ctx, "track.scrobble", params, true)
	if err != nil {
		return nil, err
	}

	out, err := parseScrobbleResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse scrobble response: %w", err)
	}
	return out, nil
}

func (s *ScrobbleService) requireSession() error {
	if s.client.sessionKey == "" {
		return fmt.Errorf("%w for scrobbling", ErrNoSessionKey)
	}
	return nil
}

func validateScrobbleTrack(t ScrobbleTrack) error {
	if err := requireIdentity("artist", t.Artist); err != nil {
		return err
	}
	return requireIdentity("track", t.Track)
}

// addTrackParams writes the track's fields into params, suffixing every key
// with idx for batch submissions.
func addTrackParams(params map[string]string, t ScrobbleTrack, idx string) {
	params["artist"+idx] = t.Artist
	params["track"+idx] = t.Track
	if t.Album != "" {
		params["album"+idx] = t.Album
	}
	if t.AlbumArtist != "" {
		params["albumArtist"+idx] = t.AlbumArtist
	}
	if t.Duration > 0 {
		params["duration"+idx] = strconv.Itoa(t.Duration)
	}
	if t.TrackNumber > 0 {
		params["trackNumber"+idx] = strconv.Itoa(t.TrackNumber)
	}
	if t.MBTrackID != "" {
		params["mbid"+idx] = t.MBTrackID
	}
}

type ignoredMessageXML struct {
	Code int    `xml:"code,attr"`
	Text string `xml:",chardata"`
}

func (m ignoredMessageXML) message() IgnoredMessage {
	return IgnoredMessage{Code: m.Code, Text: strings.TrimSpace(m.Text)}
}

type nowPlayingResponse struct {
	Artist         string            `xml:"nowplaying>artist"`
	Track          string            `xml:"nowplaying>track"`
	Album          string            `xml:"nowplaying>album"`
	AlbumArtist    string            `xml:"nowplaying>albumArtist"`
	IgnoredMessage ignoredMessageXML `xml:"nowplaying>ignoredMessage"`
}

type scrobbleResponse struct {
	Scrobbles struct {
		Accepted string `xml:"accepted,attr"`
		Ignored  string `xml:"ignored,attr"`
		Items    []struct {
			Artist         string            `xml:"artist"`
			Track          string            `xml:"track"`
			Album          string            `xml:"album"`
			Timestamp      string            `xml:"timestamp"`
			IgnoredMessage ignoredMessageXML `xml:"ignoredMessage"`
		} `xml:"scrobble"`
	} `xml:"scrobbles"`
}

func parseScrobbleResponse(data []byte) (*ScrobbleResponse, error) {
	var resp scrobbleResponse
	if err := unmarshalInner(data, &resp); err != nil {
		return nil, err
	}

	accepted, err := parseInt(resp.Scrobbles.Accepted)
	if err != nil {
		return nil, err
	}
	ignored, err := parseInt(resp.Scrobbles.Ignored)
	if err != nil {
		return nil, err
	}

	out := &ScrobbleResponse{
		Accepted:  accepted,
		Ignored:   ignored,
		Scrobbles: make([]ScrobbleResult, 0, len(resp.Scrobbles.Items)),
	}
	for _, sc := range resp.Scrobbles.Items {
		played, err := parseUnix(sc.Timestamp)
		if err != nil {
			return nil, err
		}
		out.Scrobbles = append(out.Scrobbles, ScrobbleResult{
			Artist:         sc.Artist,
			Track:          sc.Track,
			Album:          sc.Album,
			Timestamp:      played,
			IgnoredMessage: sc.IgnoredMessage.message(),
		})
	}
	return out, nil
}
