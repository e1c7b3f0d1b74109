// Package render formats Last.fm entities as fixed-width text for the
// terminal.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Row is one line of a ranked listing.
type Row struct {
	Rank      int
	Primary   string
	Secondary string
	Count     int
}

// Renderer writes headings, listings and templated lines to w, fitting
// each line into width display columns.
type Renderer struct {
	w       io.Writer
	width   int
	heading *color.Color
	dim     *color.Color
}

// New creates a renderer. A width below 40 columns is raised to 40.
func New(w io.Writer, width int) *Renderer {
	if width < 40 {
		width = 40
	}
	return &Renderer{
		w:       w,
		width:   width,
		heading: color.New(color.Bold, color.FgCyan),
		dim:     color.New(color.Faint),
	}
}

// DisableColor turns off ANSI colouring, e.g. when output is not a
// terminal.
func (r *Renderer) DisableColor() {
	r.heading.DisableColor()
	r.dim.DisableColor()
}

// Heading writes a coloured section title.
func (r *Renderer) Heading(title string) {
	_, _ = r.heading.Fprintln(r.w, PadToWidth(title, r.width))
}

// Line writes a plain line truncated to the renderer width.
func (r *Renderer) Line(text string) {
	fmt.Fprintln(r.w, strings.TrimRight(PadToWidth(text, r.width), " "))
}

// Field writes a "label: value" line, skipping empty values.
func (r *Renderer) Field(label, value string) {
	if value == "" {
		return
	}
	r.Line(label + ": " + value)
}

// Rows writes a ranked listing. Rows without a rank are numbered by
// position; counts of zero are left blank.
func (r *Renderer) Rows(rows []Row) {
	if len(rows) == 0 {
		_, _ = r.dim.Fprintln(r.w, "  (none)")
		return
	}

	const rankWidth, countWidth = 4, 10
	hasSecondary := false
	for _, row := range rows {
		if row.Secondary != "" {
			hasSecondary = true
			break
		}
	}

	text := r.width - rankWidth - countWidth - 2
	primary, secondary := text, 0
	if hasSecondary {
		primary = text / 2
		secondary = text - primary - 1
	}

	for i, row := range rows {
		rank := row.Rank
		if rank == 0 {
			rank = i + 1
		}

		var b strings.Builder
		b.WriteString(PadLeft(strconv.Itoa(rank)+".", rankWidth-1))
		b.WriteByte(' ')
		b.WriteString(PadToWidth(row.Primary, primary))
		if hasSecondary {
			b.WriteByte(' ')
			b.WriteString(PadToWidth(row.Secondary, secondary))
		}
		b.WriteByte(' ')
		count := ""
		if row.Count > 0 {
			count = strconv.Itoa(row.Count)
		}
		b.WriteString(PadLeft(count, countWidth))
		fmt.Fprintln(r.w, strings.TrimRight(b.String(), " "))
	}
}

// Template executes tmpl once per item, one line each.
func (r *Renderer) Template(tmpl string, items []any) error {
	t, err := template.New("output").Funcs(template.FuncMap{
		"pad": PadToWidth,
	}).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	for _, item := range items {
		var buf bytes.Buffer
		if err := t.Execute(&buf, item); err != nil {
			return fmt.Errorf("template execution failed: %w", err)
		}
		r.Line(buf.String())
	}
	return nil
}

// PadToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
func PadToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	current := runewidth.StringWidth(text)
	switch {
	case current > width:
		const ellipsis = "..."
		if width <= len(ellipsis) {
			return runewidth.Truncate(ellipsis, width, "")
		}
		truncated := runewidth.Truncate(text, width-len(ellipsis), "") + ellipsis
		return runewidth.FillRight(truncated, width)
	case current < width:
		return runewidth.FillRight(text, width)
	default:
		return text
	}
}

// PadLeft right-aligns text in width display columns.
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(text, width)
}
