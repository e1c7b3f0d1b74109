package lastfm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Options controls how much an entity hydrates, both at construction and
// when it is built from a response item.
type Options struct {
	// IncludeInfo performs the full info/profile fetch at construction.
	IncludeInfo bool
	// IncludeAlbumInfo hydrates nested <album> elements as full albums.
	IncludeAlbumInfo bool
	// IncludeArtistInfo hydrates nested <artist> elements as full artists.
	IncludeArtistInfo bool
}

// DefaultOptions returns the options used when a caller passes nil: nested
// entities are hydrated, construction stays lazy.
func DefaultOptions() Options {
	return Options{
		IncludeAlbumInfo:  true,
		IncludeArtistInfo: true,
	}
}

func resolveOptions(o *Options) Options {
	if o == nil {
		return DefaultOptions()
	}
	return *o
}

func withArtistInfo(o Options) bool { return o.IncludeArtistInfo }
func withAlbumInfo(o Options) bool  { return o.IncludeAlbumInfo }

// setter stores a coerced child element into one field of e.
type setter[T any] func(c *Client, e *T, n *Node, opts Options) error

// fieldRule maps one or more child tags onto a field. A rule with a when
// condition only applies while the condition holds; otherwise matching
// falls through to the next rule for the same tag.
type fieldRule[T any] struct {
	tags []string
	when func(Options) bool
	set  setter[T]
}

// attrRule maps an attribute of the entity's own element onto a field.
type attrRule[T any] struct {
	attr string
	set  func(e *T, value string) error
}

// ruleTable is the declarative hydration table of one entity type.
type ruleTable[T any] struct {
	entity string
	fields []fieldRule[T]
	attrs  []attrRule[T]
}

func (t ruleTable[T]) match(tag string, opts Options) *fieldRule[T] {
	for i := range t.fields {
		r := &t.fields[i]
		if r.when != nil && !r.when(opts) {
			continue
		}
		for _, name := range r.tags {
			if name == tag {
				return r
			}
		}
	}
	return nil
}

// hydrate populates e from n's direct children and then from n's own
// attributes. Unknown children are ignored.
func (t ruleTable[T]) hydrate(c *Client, e *T, n *Node, opts Options) error {
	for _, child := range n.Children {
		rule := t.match(child.Name, opts)
		if rule == nil {
			continue
		}
		if err := rule.set(c, e, child, opts); err != nil {
			return t.wrap(child.Name, err)
		}
	}

	for _, a := range t.attrs {
		v, ok := n.Attr(a.attr)
		if !ok {
			continue
		}
		if err := a.set(e, v); err != nil {
			return t.wrap(a.attr, err)
		}
	}
	return nil
}

func (t ruleTable[T]) wrap(field string, err error) error {
	var hydErr *HydrationError
	if errors.As(err, &hydErr) {
		return err
	}
	return &HydrationError{Entity: t.entity, Field: field, Err: err}
}

func text[T any](field func(*T) *string) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		*field(e) = n.Text()
		return nil
	}
}

func integer[T any](field func(*T) *int) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		v, err := parseInt(n.Text())
		if err != nil {
			return err
		}
		*field(e) = v
		return nil
	}
}

func floating[T any](field func(*T) *float64) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		v, err := parseFloat(n.Text())
		if err != nil {
			return err
		}
		*field(e) = v
		return nil
	}
}

func flag[T any](field func(*T) *bool) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		*field(e) = parseFlag(n.Text())
		return nil
	}
}

func timestamp[T any](field func(*T) *time.Time) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		v, err := parseTime(n)
		if err != nil {
			return err
		}
		*field(e) = v
		return nil
	}
}

func image[T any](field func(*T) *Images) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		size, _ := n.Attr("size")
		field(e).set(size, n.Text())
		return nil
	}
}

// list hydrates every itemTag child of the matched element into field.
func list[T, E any](field func(*T) *[]*E, itemTag string, hydrate hydrateFunc[E]) setter[T] {
	return func(c *Client, e *T, n *Node, opts Options) error {
		items, err := collect(c, n, n.Name, itemTag, opts, hydrate)
		if err != nil {
			return err
		}
		*field(e) = items
		return nil
	}
}

// texts collects the text of every itemTag child of the matched element.
func texts[T any](field func(*T) *[]string, itemTag string) setter[T] {
	return func(_ *Client, e *T, n *Node, _ Options) error {
		var out []string
		for _, child := range n.ChildrenNamed(itemTag) {
			if v := child.Text(); v != "" {
				out = append(out, v)
			}
		}
		*field(e) = out
		return nil
	}
}

func attrText[T any](field func(*T) *string) func(*T, string) error {
	return func(e *T, v string) error {
		*field(e) = v
		return nil
	}
}

func attrInteger[T any](field func(*T) *int) func(*T, string) error {
	return func(e *T, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		*field(e) = n
		return nil
	}
}

func attrFlag[T any](field func(*T) *bool) func(*T, string) error {
	return func(e *T, v string) error {
		*field(e) = parseFlag(v)
		return nil
	}
}

// parseInt treats blank input as zero.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}

// parseFlag maps "1" and "true" to true and everything else to false.
func parseFlag(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || s == "true"
}

var timeLayouts = []string{
	"2 Jan 2006, 15:04",
	"02 Jan 2006, 15:04",
	"Mon, 02 Jan 2006 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime reads a timestamp element, preferring its unix-time attribute.
// Blank elements yield the zero time.
func parseTime(n *Node) (time.Time, error) {
	for _, attr := range []string{"uts", "unixtime"} {
		if v, ok := n.Attr(attr); ok && v != "" {
			secs, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid unix time %q: %w", v, err)
			}
			return time.Unix(secs, 0).UTC(), nil
		}
	}

	s := n.Text()
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// parseUnix converts a unix-seconds attribute value.
func parseUnix(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid unix time %q: %w", s, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}
