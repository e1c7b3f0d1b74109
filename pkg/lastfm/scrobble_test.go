package lastfm

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func newScrobbleClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	client := newTestClient(t, handler)
	client.SetSessionKey("test-session-key")
	return client
}

func TestScrobbleService_UpdateNowPlaying(t *testing.T) {
	tests := []struct {
		name     string
		response string
		track    ScrobbleTrack
		want     NowPlayingResponse
		wantCode int
	}{
		{
			name: "success",
			response: lfmOK(`<nowplaying>
	<artist corrected="0">The Beatles</artist>
	<track corrected="0">Yesterday</track>
	<album corrected="0">Help!</album>
	<albumArtist corrected="0">The Beatles</albumArtist>
	<ignoredMessage code="0"></ignoredMessage>
</nowplaying>`),
			track: ScrobbleTrack{Artist: "The Beatles", Track: "Yesterday", Album: "Help!"},
			want:  NowPlayingResponse{Artist: "The Beatles", Track: "Yesterday", Album: "Help!", AlbumArtist: "The Beatles"},
		},
		{
			name: "ignored",
			response: lfmOK(`<nowplaying>
	<artist corrected="0">The Beatles</artist>
	<track corrected="0">Yesterday</track>
	<ignoredMessage code="1">Artist was ignored</ignoredMessage>
</nowplaying>`),
			track: ScrobbleTrack{
				Artist:      "The Beatles",
				Track:       "Yesterday",
				AlbumArtist: "The Beatles",
				Duration:    125,
				TrackNumber: 1,
				MBTrackID:   "mbid-123",
			},
			want: NowPlayingResponse{
				Artist:         "The Beatles",
				Track:          "Yesterday",
				IgnoredMessage: IgnoredMessage{Code: 1, Text: "Artist was ignored"},
			},
		},
		{
			name:     "invalid session key",
			response: lfmFailed(ErrCodeInvalidSessionKey, "Invalid session key"),
			track:    ScrobbleTrack{Artist: "The Beatles", Track: "Yesterday"},
			wantCode: ErrCodeInvalidSessionKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newScrobbleClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}

				want := map[string]string{
					"method": "track.updateNowPlaying",
					"artist": tt.track.Artist,
					"track":  tt.track.Track,
					"sk":     "test-session-key",
					"album":  tt.track.Album,
				}
				if tt.track.Duration > 0 {
					want["duration"] = strconv.Itoa(tt.track.Duration)
					want["trackNumber"] = strconv.Itoa(tt.track.TrackNumber)
					want["mbid"] = tt.track.MBTrackID
					want["albumArtist"] = tt.track.AlbumArtist
				}
				for k, v := range want {
					if got := r.FormValue(k); got != v {
						t.Errorf("expected %s %q, got %q", k, v, got)
					}
				}
				_, _ = w.Write([]byte(tt.response))
			})

			resp, err := client.Scrobble().UpdateNowPlaying(context.Background(), tt.track)
			if tt.wantCode != 0 {
				if !errors.Is(err, &Error{Code: tt.wantCode}) {
					t.Fatalf("expected Last.fm error %d, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *resp != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, *resp)
			}
		})
	}
}

func TestScrobbleService_Scrobble(t *testing.T) {
	played := time.Unix(1700000000, 0)

	client := newScrobbleClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "track.scrobble" {
			t.Errorf("expected method track.scrobble, got %s", method)
		}
		if got := r.FormValue("artist[0]"); got != "The Beatles" {
			t.Errorf("expected artist[0] The Beatles, got %s", got)
		}
		if got := r.FormValue("timestamp[0]"); got != "1700000000" {
			t.Errorf("expected timestamp[0] 1700000000, got %s", got)
		}
		_, _ = w.Write([]byte(lfmOK(`<scrobbles accepted="1" ignored="0">
	<scrobble>
		<track corrected="0">Yesterday</track>
		<artist corrected="0">The Beatles</artist>
		<album corrected="0">Help!</album>
		<timestamp>1700000000</timestamp>
		<ignoredMessage code="0"></ignoredMessage>
	</scrobble>
</scrobbles>`)))
	})

	track := ScrobbleTrack{Artist: "The Beatles", Track: "Yesterday", Album: "Help!"}
	resp, err := client.Scrobble().Scrobble(context.Background(), track, played)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Accepted != 1 || resp.Ignored != 0 {
		t.Errorf("expected 1 accepted 0 ignored, got %d/%d", resp.Accepted, resp.Ignored)
	}
	if len(resp.Scrobbles) != 1 {
		t.Fatalf("expected 1 scrobble result, got %d", len(resp.Scrobbles))
	}
	got := resp.Scrobbles[0]
	if got.Track != "Yesterday" || got.Album != "Help!" {
		t.Errorf("unexpected scrobble result %+v", got)
	}
	if !got.Timestamp.Equal(played) {
		t.Errorf("expected timestamp %v, got %v", played, got.Timestamp)
	}
}

func TestScrobbleService_ScrobbleBatch(t *testing.T) {
	base := time.Unix(1700000000, 0)
	scrobbles := []Scrobble{
		{Track: ScrobbleTrack{Artist: "The Beatles", Track: "Yesterday"}, Timestamp: base},
		{Track: ScrobbleTrack{Artist: "The Beatles", Track: "Let It Be", Album: "Let It Be"}, Timestamp: base.Add(5 * time.Minute)},
	}

	client := newScrobbleClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		for i, sc := range scrobbles {
			idx := "[" + strconv.Itoa(i) + "]"
			if got := r.FormValue("track" + idx); got != sc.Track.Track {
				t.Errorf("expected track%s %q, got %q", idx, sc.Track.Track, got)
			}
			if got := r.FormValue("timestamp" + idx); got != strconv.FormatInt(sc.Timestamp.Unix(), 10) {
				t.Errorf("unexpected timestamp%s %q", idx, got)
			}
		}
		if _, ok := r.Form["album[0]"]; ok {
			t.Error("album[0] should be omitted when empty")
		}
		_, _ = w.Write([]byte(lfmOK(`<scrobbles accepted="1" ignored="1">
	<scrobble><track>Yesterday</track><artist>The Beatles</artist><timestamp>1700000000</timestamp><ignoredMessage code="0"/></scrobble>
	<scrobble><track>Let It Be</track><artist>The Beatles</artist><timestamp>1700000300</timestamp><ignoredMessage code="3">Timestamp too old</ignoredMessage></scrobble>
</scrobbles>`)))
	})

	resp, err := client.Scrobble().ScrobbleBatch(context.Background(), scrobbles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Accepted != 1 || resp.Ignored != 1 {
		t.Errorf("expected 1 accepted 1 ignored, got %d/%d", resp.Accepted, resp.Ignored)
	}
	if len(resp.Scrobbles) != 2 {
		t.Fatalf("expected 2 scrobble results, got %d", len(resp.Scrobbles))
	}
	if msg := resp.Scrobbles[1].IgnoredMessage; msg.Code != 3 || msg.Text != "Timestamp too old" {
		t.Errorf("unexpected ignored message %+v", msg)
	}
}

func TestScrobbleService_ScrobbleBatch_MaxBatchSize(t *testing.T) {
	client := newScrobbleClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		last := "[" + strconv.Itoa(MaxBatchSize-1) + "]"
		over := "[" + strconv.Itoa(MaxBatchSize) + "]"
		if r.FormValue("artist"+last) == "" {
			t.Errorf("expected artist%s to be present", last)
		}
		if r.FormValue("artist"+over) != "" {
			t.Errorf("expected artist%s to be dropped", over)
		}
		_, _ = w.Write([]byte(lfmOK(`<scrobbles accepted="50" ignored="0"></scrobbles>`)))
	})

	scrobbles := make([]Scrobble, MaxBatchSize+10)
	for i := range scrobbles {
		scrobbles[i] = Scrobble{
			Track:     ScrobbleTrack{Artist: "Artist", Track: "Track " + strconv.Itoa(i)},
			Timestamp: time.Unix(int64(1700000000+i*60), 0),
		}
	}

	resp, err := client.Scrobble().ScrobbleBatch(context.Background(), scrobbles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Accepted != MaxBatchSize {
		t.Errorf("expected %d accepted, got %d", MaxBatchSize, resp.Accepted)
	}
}

func TestScrobbleService_Empty(t *testing.T) {
	client := newScrobbleClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	})

	resp, err := client.Scrobble().ScrobbleBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Accepted != 0 || len(resp.Scrobbles) != 0 {
		t.Errorf("expected empty response, got %+v", resp)
	}
}

func TestScrobbleService_NoSessionKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a session key")
	})
	track := ScrobbleTrack{Artist: "The Beatles", Track: "Yesterday"}
	ctx := context.Background()

	if _, err := client.Scrobble().UpdateNowPlaying(ctx, track); !errors.Is(err, ErrNoSessionKey) {
		t.Errorf("UpdateNowPlaying: expected ErrNoSessionKey, got %v", err)
	}
	if _, err := client.Scrobble().Scrobble(ctx, track, time.Now()); !errors.Is(err, ErrNoSessionKey) {
		t.Errorf("Scrobble: expected ErrNoSessionKey, got %v", err)
	}
	if _, err := client.Scrobble().ScrobbleBatch(ctx, []Scrobble{{Track: track}}); !errors.Is(err, ErrNoSessionKey) {
		t.Errorf("ScrobbleBatch: expected ErrNoSessionKey, got %v", err)
	}
}

func TestScrobbleService_BlankTrack(t *testing.T) {
	client := newScrobbleClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a blank track")
	})

	_, err := client.Scrobble().Scrobble(context.Background(), ScrobbleTrack{Artist: "The Beatles"}, time.Now())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
