package lastfm

import (
	"context"
	"errors"
	"testing"
)

const artistInfoXML = `<artist>
	<name>Cher</name>
	<mbid>bfcc6d75-a6a5-4bc6-8282-47aec8531818</mbid>
	<url>http://www.last.fm/music/Cher</url>
	<image size="large">http://img/cher-l.jpg</image>
	<streamable>1</streamable>
	<stats>
		<listeners>381329</listeners>
		<playcount>3957657</playcount>
	</stats>
	<similar>
		<artist><name>Madonna</name></artist>
	</similar>
	<tags>
		<tag><name>pop</name><url>http://www.last.fm/tag/pop</url></tag>
		<tag><name>female vocalists</name><url>http://www.last.fm/tag/female%20vocalists</url></tag>
	</tags>
	<bio>
		<published>Mon, 05 Jan 2009 11:53:33 +0000</published>
		<summary>Cher is an American singer.</summary>
	</bio>
</artist>`

const trackInfoXML = `<track>
	<id>1019817</id>
	<name>Believe</name>
	<mbid></mbid>
	<url>http://www.last.fm/music/Cher/_/Believe</url>
	<duration>240000</duration>
	<streamable fulltrack="0">1</streamable>
	<listeners>69572</listeners>
	<playcount>281445</playcount>
	<artist>
		<name>Cher</name>
		<mbid>bfcc6d75-a6a5-4bc6-8282-47aec8531818</mbid>
		<url>http://www.last.fm/music/Cher</url>
	</artist>
	<album position="1">
		<artist>Cher</artist>
		<title>Believe</title>
		<mbid>61bf0388-b8a9-48f4-81d1-7eb02706dfb0</mbid>
		<url>http://www.last.fm/music/Cher/Believe</url>
		<image size="small">http://img/believe-s.jpg</image>
	</album>
	<toptags>
		<tag><name>pop</name><url>http://www.last.fm/tag/pop</url></tag>
	</toptags>
</track>`

func TestArtist_LoadInfo(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"artist.getInfo": lfmOK(artistInfoXML),
	})
	ctx := context.Background()

	artist, err := NewArtist(ctx, srv.client(), "cher", nil)
	if err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	if artist.Loaded() {
		t.Fatal("expected lazy artist")
	}

	for i := 0; i < 2; i++ {
		if err := artist.LoadInfo(ctx); err != nil {
			t.Fatalf("LoadInfo: %v", err)
		}
	}

	if n := srv.count("artist.getInfo"); n != 1 {
		t.Errorf("expected 1 fetch, got %d", n)
	}
	if !artist.Loaded() {
		t.Error("expected artist to be loaded")
	}
	if artist.Name() != "cher" {
		t.Errorf("expected identity to be kept, got %q", artist.Name())
	}
	if artist.Listeners != 381329 || artist.Playcount != 3957657 {
		t.Errorf("unexpected stats %d/%d", artist.Listeners, artist.Playcount)
	}
	if artist.Summary != "Cher is an American singer." {
		t.Errorf("unexpected summary %q", artist.Summary)
	}
	if len(artist.Tags) != 2 || artist.Tags[1].Name() != "female vocalists" {
		t.Errorf("unexpected tags %v", artist.Tags)
	}
	if !artist.Streamable || artist.Images.Large == "" {
		t.Error("expected streamable artist with a large image")
	}
}

func TestArtist_IncludeInfo(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"artist.getInfo": lfmOK(artistInfoXML),
	})

	opts := DefaultOptions()
	opts.IncludeInfo = true
	artist, err := NewArtist(context.Background(), srv.client(), "Cher", &opts)
	if err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	if !artist.Loaded() || srv.count("artist.getInfo") != 1 {
		t.Error("expected info to be fetched at construction")
	}
}

func TestArtist_LoadInfoError(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"artist.getInfo": lfmFailed(6, "The artist you supplied could not be found"),
	})
	ctx := context.Background()

	artist, err := NewArtist(ctx, srv.client(), "nobody", nil)
	if err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	if err := artist.LoadInfo(ctx); !errors.Is(err, &Error{Code: ErrCodeInvalidParameters}) {
		t.Fatalf("expected invalid parameters error, got %v", err)
	}
	if artist.Loaded() {
		t.Error("expected failed load to leave the artist unloaded")
	}
	if err := artist.LoadInfo(ctx); err == nil {
		t.Fatal("expected second LoadInfo to fetch and fail again")
	}
	if n := srv.count("artist.getInfo"); n != 2 {
		t.Errorf("expected 2 fetches, got %d", n)
	}
}

func TestArtist_LoadInfoPartialFailure(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"artist.getInfo": lfmOK(`<artist>
	<name>Cher</name>
	<url>http://www.last.fm/music/Cher</url>
	<stats>
		<listeners>381329</listeners>
		<playcount>lots</playcount>
	</stats>
</artist>`),
	})
	ctx := context.Background()

	artist, err := NewArtist(ctx, srv.client(), "Cher", nil)
	if err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	if err := artist.LoadInfo(ctx); err == nil {
		t.Fatal("expected hydration error for non-numeric playcount")
	}
	if artist.Loaded() {
		t.Error("expected failed load to leave the artist unloaded")
	}
	if artist.URL != "" || artist.Listeners != 0 {
		t.Errorf("expected no fields from a failed load, got url=%q listeners=%d", artist.URL, artist.Listeners)
	}
	if artist.Name() != "Cher" {
		t.Errorf("expected name to be kept, got %q", artist.Name())
	}
}

func TestTrack_LoadInfo(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"track.getInfo": lfmOK(trackInfoXML),
	})
	ctx := context.Background()

	track, err := NewTrack(ctx, srv.client(), "cher", "believe", nil)
	if err != nil {
		t.Fatalf("failed to create track: %v", err)
	}
	if err := track.LoadInfo(ctx); err != nil {
		t.Fatalf("LoadInfo: %v", err)
	}

	q := srv.query()
	if q.Get("artist") != "cher" || q.Get("track") != "believe" {
		t.Errorf("unexpected query %v", q)
	}

	if track.Name() != "believe" || track.Artist().Name() != "cher" {
		t.Errorf("expected identity to be kept, got %q by %q", track.Name(), track.Artist().Name())
	}
	if track.ID != 1019817 || track.Duration != 240000 || track.Listeners != 69572 {
		t.Errorf("unexpected fields id=%d duration=%d listeners=%d", track.ID, track.Duration, track.Listeners)
	}
	if track.Album == nil || track.Album.Name() != "Believe" {
		t.Fatalf("expected nested album Believe, got %v", track.Album)
	}
	if track.Album.Artist().Name() != "Cher" {
		t.Errorf("expected album artist Cher, got %q", track.Album.Artist().Name())
	}
	if track.Album.MBID != "61bf0388-b8a9-48f4-81d1-7eb02706dfb0" {
		t.Errorf("unexpected album mbid %q", track.Album.MBID)
	}
	if len(track.Tags) != 1 || track.Tags[0].Name() != "pop" {
		t.Errorf("unexpected tags %v", track.Tags)
	}
}

func TestTrack_ByMBID(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"track.getInfo": lfmOK(trackInfoXML),
	})
	ctx := context.Background()

	opts := DefaultOptions()
	opts.IncludeInfo = true
	track, err := NewTrackByMBID(ctx, srv.client(), "a1b2c3", &opts)
	if err != nil {
		t.Fatalf("failed to create track: %v", err)
	}

	q := srv.query()
	if q.Get("mbid") != "a1b2c3" || q.Get("artist") != "" {
		t.Errorf("unexpected query %v", q)
	}
	if track.MBID() != "a1b2c3" {
		t.Errorf("expected mbid to be kept, got %q", track.MBID())
	}
	if track.Name() != "Believe" || track.Artist() == nil || track.Artist().Name() != "Cher" {
		t.Errorf("expected name and artist from the response")
	}
}

func TestTrack_Equal(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	a, _ := NewTrack(ctx, c, "Cher", "Believe", nil)
	b, _ := NewTrack(ctx, c, "Cher", "Believe", nil)
	other, _ := NewTrack(ctx, c, "Cher", "Strong Enough", nil)

	if !a.Equal(b) {
		t.Error("expected tracks with the same artist and name to be equal")
	}
	if a.Equal(other) {
		t.Error("expected tracks with different names to differ")
	}

	byA, _ := NewTrackByMBID(ctx, c, "mbid-a", nil)
	byA2, _ := NewTrackByMBID(ctx, c, "mbid-a", nil)
	byB, _ := NewTrackByMBID(ctx, c, "mbid-b", nil)
	if !byA.Equal(byA2) {
		t.Error("expected unloaded tracks with the same MBID to be equal")
	}
	if byA.Equal(byB) {
		t.Error("expected unloaded tracks with different MBIDs to differ")
	}
	if byA.Equal(a) || a.Equal(byA) {
		t.Error("expected an unloaded MBID track to differ from a track without that MBID")
	}
}

func TestTrack_Unsupported(t *testing.T) {
	track, err := NewTrack(context.Background(), testClient(t), "Cher", "Believe", nil)
	if err != nil {
		t.Fatalf("failed to create track: %v", err)
	}

	if err := track.AddTags(context.Background(), []string{"pop"}); !errors.Is(err, ErrNotSupported) {
		t.Errorf("AddTags: expected ErrNotSupported, got %v", err)
	}
	if err := track.Ban(context.Background()); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Ban: expected ErrNotSupported, got %v", err)
	}
}

func TestAlbum_LoadInfo(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"album.getInfo": lfmOK(`<album>
	<name>Believe</name>
	<artist>Cher</artist>
	<id>2026126</id>
	<mbid>61bf0388-b8a9-48f4-81d1-7eb02706dfb0</mbid>
	<url>http://www.last.fm/music/Cher/Believe</url>
	<releasedate>6 Apr 1999, 00:00</releasedate>
	<listeners>47602</listeners>
	<playcount>212991</playcount>
	<tracks>
		<track rank="1"><name>Believe</name><duration>239</duration><artist><name>Cher</name></artist></track>
		<track rank="2"><name>The Power</name><duration>236</duration><artist><name>Cher</name></artist></track>
	</tracks>
	<toptags><tag><name>pop</name></tag></toptags>
</album>`),
	})
	ctx := context.Background()

	album, err := NewAlbum(ctx, srv.client(), "Cher", "Believe", nil)
	if err != nil {
		t.Fatalf("failed to create album: %v", err)
	}
	if err := album.LoadInfo(ctx); err != nil {
		t.Fatalf("LoadInfo: %v", err)
	}

	if album.Listeners != 47602 || album.Playcount != 212991 {
		t.Errorf("unexpected stats %d/%d", album.Listeners, album.Playcount)
	}
	if album.ReleaseDate.Year() != 1999 {
		t.Errorf("unexpected release date %v", album.ReleaseDate)
	}
	if len(album.Tracks) != 2 || album.Tracks[1].Name() != "The Power" || album.Tracks[1].Rank != 2 {
		t.Fatalf("unexpected tracks %v", album.Tracks)
	}
	if album.Tracks[0].Album != nil {
		t.Error("expected album tracks not to hydrate an album")
	}
}
