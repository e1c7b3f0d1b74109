package lastfm

import (
	"context"
	"strconv"
	"time"
)

// Venue is where an event takes place.
type Venue struct {
	Name       string
	City       string
	Country    string
	Street     string
	PostalCode string
	Latitude   float64
	Longitude  float64
	URL        string
}

var venueRules = ruleTable[Venue]{
	entity: "venue",
	fields: []fieldRule[Venue]{
		{tags: []string{"name"}, set: text(func(v *Venue) *string { return &v.Name })},
		{tags: []string{"url"}, set: text(func(v *Venue) *string { return &v.URL })},
		{tags: []string{"location"}, set: func(c *Client, v *Venue, n *Node, opts Options) error {
			return locationRules.hydrate(c, v, n, opts)
		}},
	},
}

// locationRules reads <venue><location>, whose coordinates sit in a
// geo:point element.
var locationRules = ruleTable[Venue]{
	entity: "venue location",
	fields: []fieldRule[Venue]{
		{tags: []string{"city"}, set: text(func(v *Venue) *string { return &v.City })},
		{tags: []string{"country"}, set: text(func(v *Venue) *string { return &v.Country })},
		{tags: []string{"street"}, set: text(func(v *Venue) *string { return &v.Street })},
		{tags: []string{"postalcode"}, set: text(func(v *Venue) *string { return &v.PostalCode })},
		{tags: []string{"point"}, set: func(_ *Client, v *Venue, n *Node, _ Options) error {
			var err error
			if v.Latitude, err = parseFloat(n.Child("lat").Text()); err != nil {
				return err
			}
			v.Longitude, err = parseFloat(n.Child("long").Text())
			return err
		}},
	},
}

// Event is a Last.fm event (a concert or festival), identified by its ID.
type Event struct {
	*entity

	id int

	Title       string
	Artists     []string
	Headliner   string
	Venue       Venue
	StartDate   time.Time
	Description string
	Attendance  int
	Reviews     int
	URL         string
	Cancelled   bool
	Images      Images
	Tags        []string
}

var eventRules = ruleTable[Event]{
	entity: "event",
	fields: []fieldRule[Event]{
		{tags: []string{"id"}, set: integer(func(e *Event) *int { return &e.id })},
		{tags: []string{"title"}, set: text(func(e *Event) *string { return &e.Title })},
		{tags: []string{"artists"}, set: func(c *Client, e *Event, n *Node, opts Options) error {
			if err := texts(func(e *Event) *[]string { return &e.Artists }, "artist")(c, e, n, opts); err != nil {
				return err
			}
			e.Headliner = n.Child("headliner").Text()
			return nil
		}},
		{tags: []string{"venue"}, set: func(c *Client, e *Event, n *Node, opts Options) error {
			return venueRules.hydrate(c, &e.Venue, n, opts)
		}},
		{tags: []string{"startDate"}, set: timestamp(func(e *Event) *time.Time { return &e.StartDate })},
		{tags: []string{"description"}, set: text(func(e *Event) *string { return &e.Description })},
		{tags: []string{"attendance"}, set: integer(func(e *Event) *int { return &e.Attendance })},
		{tags: []string{"reviews"}, set: integer(func(e *Event) *int { return &e.Reviews })},
		{tags: []string{"url"}, set: text(func(e *Event) *string { return &e.URL })},
		{tags: []string{"cancelled"}, set: flag(func(e *Event) *bool { return &e.Cancelled })},
		{tags: []string{"image"}, set: image(func(e *Event) *Images { return &e.Images })},
		{tags: []string{"tags"}, set: texts(func(e *Event) *[]string { return &e.Tags }, "tag")},
	},
}

// NewEvent creates an event by ID. With opts.IncludeInfo set it also
// loads the event's details.
func NewEvent(ctx context.Context, c *Client, id int, opts *Options) (*Event, error) {
	if id <= 0 {
		return nil, argumentError("event id", "must be positive")
	}
	o := resolveOptions(opts)
	e := &Event{entity: newEntity(c, o), id: id}
	if o.IncludeInfo {
		if err := e.LoadInfo(ctx); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// hydrateEvent builds an event from a response element. Events without a
// title are skipped; a titled event without an ID is a HydrationError.
func hydrateEvent(c *Client, n *Node, opts Options) (*Event, error) {
	e := &Event{entity: newEntity(c, opts)}
	if err := eventRules.hydrate(c, e, n, opts); err != nil {
		return nil, err
	}
	if e.Title == "" {
		return nil, nil
	}
	if e.id <= 0 {
		return nil, &HydrationError{Entity: "event", Field: "id"}
	}
	return e, nil
}

// ID returns the event's ID.
func (e *Event) ID() int {
	return e.id
}

func (e *Event) params() map[string]string {
	return map[string]string{"event": strconv.Itoa(e.id)}
}

// LoadInfo fetches event.getInfo once and fills the event's fields.
func (e *Event) LoadInfo(ctx context.Context) error {
	return e.fetchSingle(ctx, "event.getInfo", e.params(), "event", func(n *Node) error {
		next := *e
		if err := eventRules.hydrate(e.client, &next, n, e.opts); err != nil {
			return err
		}
		next.id = e.id
		*e = next
		return nil
	})
}

// Attendees returns the users attending the event.
func (e *Event) Attendees(ctx context.Context, force bool) ([]*User, error) {
	return fetchCollection(ctx, e.entity, "event.getAttendees", "attendees", "attendees", "user", e.params(), force, hydrateUser)
}
