package lastfm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUser_LoadProfile(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"user.getInfo": lfmOK(`<user>
	<id>1000002</id>
	<name>RJ</name>
	<realname>Richard Jones</realname>
	<url>http://www.last.fm/user/RJ</url>
	<image size="medium">http://img/rj-m.jpg</image>
	<country>UK</country>
	<age>27</age>
	<gender>m</gender>
	<subscriber>1</subscriber>
	<playcount>54189</playcount>
	<registered unixtime="1037793040">2002-11-20 11:50</registered>
</user>`),
	})
	ctx := context.Background()

	opts := DefaultOptions()
	opts.IncludeInfo = true
	user, err := NewUser(ctx, srv.client(), "rj", &opts)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := user.LoadProfile(ctx); err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}

	if n := srv.count("user.getInfo"); n != 1 {
		t.Errorf("expected 1 fetch, got %d", n)
	}
	if user.Username() != "rj" {
		t.Errorf("expected username to be kept, got %q", user.Username())
	}
	if user.ID != "1000002" || user.RealName != "Richard Jones" || user.Age != 27 || !user.Subscriber {
		t.Errorf("unexpected profile %+v", user)
	}
	if !user.Registered.Equal(time.Unix(1037793040, 0)) {
		t.Errorf("unexpected registration time %v", user.Registered)
	}
	if img, err := user.Image("medium"); err != nil || img != "http://img/rj-m.jpg" {
		t.Errorf("Image(medium) = %q, %v", img, err)
	}
	if _, err := user.Image("huge"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown size, got %v", err)
	}
}

func TestUser_InvalidArguments(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	user, err := NewUser(ctx, client, "rj", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if _, err := user.TopArtists(ctx, "fortnight", false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("TopArtists: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := user.Friends(ctx, 0, 10, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Friends page 0: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := user.Friends(ctx, 1, 0, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Friends limit 0: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := user.EventsURL("pdf"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("EventsURL: expected ErrInvalidArgument, got %v", err)
	}
}

func TestUser_Friends(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"user.getFriends": lfmOK(`<friends for="rj" page="2" perPage="2" totalPages="5">
	<user><name>eartle</name><realname>Michael Coffey</realname><image size="small">http://img/e.jpg</image></user>
	<user><name>Russ</name></user>
	<user><realname>nameless</realname></user>
</friends>`),
	})
	ctx := context.Background()

	user, err := NewUser(ctx, srv.client(), "rj", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	friends, err := user.Friends(ctx, 2, 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := srv.query()
	if q.Get("page") != "2" || q.Get("limit") != "2" {
		t.Errorf("unexpected query %v", q)
	}
	if len(friends) != 2 {
		t.Fatalf("expected nameless user to be skipped, got %d friends", len(friends))
	}
	if friends[0].Username() != "eartle" || friends[0].Images.Small == "" {
		t.Errorf("unexpected first friend %+v", friends[0])
	}
}

func TestUser_RecentTracks(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"user.getRecentTracks": lfmOK(`<recenttracks user="RJ">
	<track nowplaying="true">
		<artist mbid="2f9ecbed-27be-40e6-abca-6de49d50299e">Aretha Franklin</artist>
		<name>Sisters Are Doing It For Themselves</name>
		<album mbid="">Who's Zoomin' Who?</album>
		<url>http://www.last.fm/music/Aretha+Franklin/_/Sisters+Are+Doing+It+For+Themselves</url>
	</track>
	<track>
		<artist mbid="">Cher</artist>
		<name>Believe</name>
		<album mbid=""></album>
		<date uts="1213031819">9 Jun 2008, 17:16</date>
	</track>
</recenttracks>`),
	})
	ctx := context.Background()

	user, err := NewUser(ctx, srv.client(), "rj", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	tracks, err := user.RecentTracks(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	playing := tracks[0]
	if !playing.NowPlaying || playing.Artist().MBID != "2f9ecbed-27be-40e6-abca-6de49d50299e" {
		t.Errorf("unexpected now playing track %+v", playing)
	}
	if playing.Album == nil || playing.Album.Name() != "Who's Zoomin' Who?" || playing.Album.Artist().Name() != "Aretha Franklin" {
		t.Errorf("unexpected album %v", playing.Album)
	}

	played := tracks[1]
	if played.NowPlaying || played.Album != nil {
		t.Errorf("expected a finished track with no album, got %+v", played)
	}
	if !played.Date.Equal(time.Unix(1213031819, 0)) {
		t.Errorf("unexpected play date %v", played.Date)
	}
}

func TestUser_LegacyFeeds(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"/1.0/user/RJ/recentbannedtracks.xml": xmlHeader + `<recentbannedtracks user="RJ">
	<track>
		<artist mbid="">Cher</artist>
		<name>Believe</name>
		<mbid></mbid>
		<url>http://www.last.fm/music/Cher/_/Believe</url>
		<date uts="1200000000">10 Jan 2008, 21:20</date>
	</track>
</recentbannedtracks>`,
		"/1.0/user/RJ/systemrecs.xml": xmlHeader + `<recommendations user="RJ">
	<artist><name>Kate Bush</name><mbid></mbid><url>http://www.last.fm/music/Kate+Bush</url></artist>
	<artist><name>Björk</name></artist>
</recommendations>`,
	})
	ctx := context.Background()

	user, err := NewUser(ctx, srv.client(), "RJ", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	banned, err := user.RecentBannedTracks(ctx, false)
	if err != nil {
		t.Fatalf("RecentBannedTracks: %v", err)
	}
	if len(banned) != 1 || banned[0].Name() != "Believe" || banned[0].Artist().Name() != "Cher" {
		t.Errorf("unexpected banned tracks %v", banned)
	}

	recs, err := user.Recommendations(ctx, false)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(recs) != 2 || recs[1].Name() != "Björk" {
		t.Errorf("unexpected recommendations %v", recs)
	}

	if _, err := user.Recommendations(ctx, false); err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if n := srv.count("/1.0/user/RJ/systemrecs.xml"); n != 1 {
		t.Errorf("expected cached legacy feed, got %d fetches", n)
	}
}

func TestUser_FeedURLs(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-api-key", BaseURL: "http://ws.audioscrobbler.com/2.0/"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	user, err := NewUser(context.Background(), client, "RJ", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	tests := []struct {
		name   string
		feed   func(string) (string, error)
		format string
		want   string
	}{
		{"events ical", user.EventsURL, "ical", "http://ws.audioscrobbler.com/2.0/user/RJ/events.ics"},
		{"events rss", user.EventsURL, "rss", "http://ws.audioscrobbler.com/2.0/user/RJ/events.rss"},
		{"friends ics", user.FriendsEventsURL, "ics", "http://ws.audioscrobbler.com/2.0/user/RJ/friendevents.ics"},
		{"recommended rss", user.RecommendedEventsURL, "rss", "http://ws.audioscrobbler.com/2.0/user/RJ/eventsysrecs.rss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.feed(tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUser_WeeklyCharts(t *testing.T) {
	srv := newMethodServer(t, map[string]string{
		"user.getWeeklyChartList": lfmOK(`<weeklychartlist user="RJ">
	<chart from="1108296002" to="1108900802"/>
	<chart from="1108900801" to="1109505601"/>
	<chart from="1109505601"/>
</weeklychartlist>`),
		"user.getWeeklyArtistChart": lfmOK(`<weeklyartistchart user="RJ" from="1108296002" to="1108900802">
	<artist rank="1">
		<name>Air</name>
		<mbid>cb67438a-7f50-4f2b-a6f1-2bb2729fd538</mbid>
		<playcount>34</playcount>
		<url>http://www.last.fm/music/Air</url>
	</artist>
</weeklyartistchart>`),
	})
	ctx := context.Background()

	user, err := NewUser(ctx, srv.client(), "RJ", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	charts, err := user.WeeklyCharts(ctx, false)
	if err != nil {
		t.Fatalf("WeeklyCharts: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("expected incomplete range to be skipped, got %d charts", len(charts))
	}

	chart := charts[0]
	if chart.User() != "RJ" || !chart.From().Equal(time.Unix(1108296002, 0)) || !chart.To().Equal(time.Unix(1108900802, 0)) {
		t.Errorf("unexpected chart %s %v-%v", chart.User(), chart.From(), chart.To())
	}

	artists, err := chart.Artists(ctx, false)
	if err != nil {
		t.Fatalf("Artists: %v", err)
	}
	q := srv.query()
	if q.Get("from") != "1108296002" || q.Get("to") != "1108900802" || q.Get("user") != "RJ" {
		t.Errorf("unexpected query %v", q)
	}
	if len(artists) != 1 || artists[0].Name() != "Air" || artists[0].Rank != 1 || artists[0].Playcount != 34 {
		t.Errorf("unexpected chart artists %v", artists)
	}
}
