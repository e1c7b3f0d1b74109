package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/scrobbler/internal/render"
	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Browse an event",
}

var eventInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show an event's details",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, a *app, c *lastfm.Client, args []string) error {
		event, err := newEvent(ctx, c, a, args[0], true)
		if err != nil {
			return err
		}

		title := event.Title
		if event.Cancelled {
			title += " (cancelled)"
		}
		a.out.Heading(title)
		a.out.Field("Artists", strings.Join(event.Artists, ", "))
		a.out.Field("Headliner", event.Headliner)
		if !event.StartDate.IsZero() {
			a.out.Field("Date", event.StartDate.Format("Mon 2 Jan 2006 15:04"))
		}
		a.out.Field("Venue", event.Venue.Name)
		a.out.Field("Where", strings.Join(nonBlank(event.Venue.Street, event.Venue.City, event.Venue.PostalCode, event.Venue.Country), ", "))
		if event.Venue.Latitude != 0 || event.Venue.Longitude != 0 {
			a.out.Field("Location", fmt.Sprintf("%.4f, %.4f", event.Venue.Latitude, event.Venue.Longitude))
		}
		a.out.Field("Attending", strconv.Itoa(event.Attendance))
		a.out.Field("URL", event.URL)
		return nil
	}),
}

func newEvent(ctx context.Context, c *lastfm.Client, a *app, arg string, info bool) (*lastfm.Event, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: event id %q is not a number", lastfm.ErrInvalidArgument, arg)
	}
	opts := a.options()
	opts.IncludeInfo = info
	return lastfm.NewEvent(ctx, c, id, opts)
}

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventInfoCmd)

	eventCmd.AddCommand(listCmd("attendees <id>", "Show who is attending an event", cobra.ExactArgs(1),
		func(ctx context.Context, c *lastfm.Client, a *app, args []string) (string, []render.Row, error) {
			event, err := newEvent(ctx, c, a, args[0], false)
			if err != nil {
				return "", nil, err
			}
			users, err := event.Attendees(ctx, false)
			return "Event " + strconv.Itoa(event.ID()), render.UserRows(users), err
		}))
}

func nonBlank(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
