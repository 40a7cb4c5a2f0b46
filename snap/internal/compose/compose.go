// Package compose builds the final self-contained snapshot document:
// a fixed template, the patched SVG fragment, and a freshness line.
package compose

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed template.html
var templateHTML string

var page = template.Must(template.New("snapshot").Parse(templateHTML))

// stampLayout renders as "HH:MM / YYYY-MM-DD".
const stampLayout = "15:04 / 2006-01-02"

// Composer formats snapshot documents. The timestamp zone is fixed at
// construction so output is reproducible regardless of where the
// pipeline runs.
type Composer struct {
	title string
	loc   *time.Location
}

// New creates a Composer. A nil location falls back to UTC+5, the zone
// of the published timetable's audience.
func New(title string, loc *time.Location) *Composer {
	if loc == nil {
		loc = time.FixedZone("UTC+5", 5*3600)
	}
	return &Composer{title: title, loc: loc}
}

// Stamp formats the freshness timestamp in the fixed zone.
func (c *Composer) Stamp(now time.Time) string {
	return now.In(c.loc).Format(stampLayout)
}

// Page renders the snapshot document around the patched SVG markup.
func (c *Composer) Page(svg string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title   string
		SVG     template.HTML
		Updated string
	}{
		Title:   c.title,
		SVG:     template.HTML(svg),
		Updated: c.Stamp(now),
	})
	if err != nil {
		return nil, fmt.Errorf("compose: execute template: %w", err)
	}
	return buf.Bytes(), nil
}
