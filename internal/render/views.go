package render

import (
	"strings"
	"time"

	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

// TrackView is the template data of a track line. Available fields:
// .Rank, .Name, .Artist, .Album, .Playcount, .Listeners, .NowPlaying,
// .Date, .URL.
type TrackView struct {
	Rank       int
	Name       string
	Artist     string
	Album      string
	Playcount  int
	Listeners  int
	NowPlaying bool
	Date       time.Time
	URL        string
}

// NewTrackView flattens a track for templates.
func NewTrackView(t *lastfm.Track) TrackView {
	v := TrackView{
		Rank:       t.Rank,
		Name:       t.Name(),
		Playcount:  t.Playcount,
		Listeners:  t.Listeners,
		NowPlaying: t.NowPlaying,
		Date:       t.Date,
		URL:        t.URL,
	}
	if a := t.Artist(); a != nil {
		v.Artist = a.Name()
	}
	if t.Album != nil {
		v.Album = t.Album.Name()
	}
	return v
}

// TrackItems converts tracks into template items.
func TrackItems(tracks []*lastfm.Track) []any {
	items := make([]any, len(tracks))
	for i, t := range tracks {
		items[i] = NewTrackView(t)
	}
	return items
}

// TrackRows lists tracks as name and artist with their play count. A
// track that is playing now is marked with a leading "> ".
func TrackRows(tracks []*lastfm.Track) []Row {
	rows := make([]Row, len(tracks))
	for i, t := range tracks {
		v := NewTrackView(t)
		name := v.Name
		if v.NowPlaying {
			name = "> " + name
		}
		rows[i] = Row{Rank: v.Rank, Primary: name, Secondary: v.Artist, Count: playsOrListeners(v.Playcount, v.Listeners)}
	}
	return rows
}

// ArtistRows lists artists with their play count.
func ArtistRows(artists []*lastfm.Artist) []Row {
	rows := make([]Row, len(artists))
	for i, a := range artists {
		rows[i] = Row{Rank: a.Rank, Primary: a.Name(), Count: playsOrListeners(a.Playcount, a.Listeners)}
	}
	return rows
}

// AlbumRows lists albums as name and artist.
func AlbumRows(albums []*lastfm.Album) []Row {
	rows := make([]Row, len(albums))
	for i, a := range albums {
		row := Row{Rank: a.Rank, Primary: a.Name(), Count: playsOrListeners(a.Playcount, a.Listeners)}
		if artist := a.Artist(); artist != nil {
			row.Secondary = artist.Name()
		}
		rows[i] = row
	}
	return rows
}

// TagRows lists tags with their use count.
func TagRows(tags []*lastfm.Tag) []Row {
	rows := make([]Row, len(tags))
	for i, t := range tags {
		rows[i] = Row{Primary: t.Name(), Count: t.Count}
	}
	return rows
}

// UserRows lists users with their real name.
func UserRows(users []*lastfm.User) []Row {
	rows := make([]Row, len(users))
	for i, u := range users {
		rows[i] = Row{Primary: u.Username(), Secondary: u.RealName, Count: u.Weight}
	}
	return rows
}

// EventRows lists events as title and "venue, city (date)".
func EventRows(events []*lastfm.Event) []Row {
	rows := make([]Row, len(events))
	for i, e := range events {
		where := strings.Join(nonEmpty(e.Venue.Name, e.Venue.City), ", ")
		if !e.StartDate.IsZero() {
			where += " (" + e.StartDate.Format("2 Jan 2006") + ")"
		}
		rows[i] = Row{Primary: e.Title, Secondary: strings.TrimSpace(where), Count: e.Attendance}
	}
	return rows
}

// ChartRows lists weekly chart ranges.
func ChartRows(charts []*lastfm.Chart) []Row {
	rows := make([]Row, len(charts))
	for i, c := range charts {
		rows[i] = Row{
			Primary:   c.From().Format("2006-01-02") + " - " + c.To().Format("2006-01-02"),
			Secondary: c.User(),
		}
	}
	return rows
}

func playsOrListeners(plays, listeners int) int {
	if plays > 0 {
		return plays
	}
	return listeners
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
