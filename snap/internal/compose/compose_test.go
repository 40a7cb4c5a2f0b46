package compose

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var stampRe = regexp.MustCompile(`\d{2}:\d{2} / \d{4}-\d{2}-\d{2}`)

func TestPage_EmbedsSvgAndStamp(t *testing.T) {
	c := New("IUT Timetable", nil)
	now := time.Date(2024, 3, 15, 7, 4, 0, 0, time.UTC)

	out, err := c.Page(`<svg width="900" height="600"></svg>`, now)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	doc := string(out)

	if got := strings.Count(doc, "<svg"); got != 1 {
		t.Errorf("svg fragments: got %d, want 1", got)
	}
	if got := len(stampRe.FindAllString(doc, -1)); got != 1 {
		t.Errorf("timestamp lines: got %d, want 1", got)
	}
	// 07:04 UTC in the fixed +5 zone.
	if !strings.Contains(doc, "Last updated: 12:04 / 2024-03-15") {
		t.Errorf("timestamp not in the fixed zone: %s", doc)
	}
	if !strings.Contains(doc, "<title>IUT Timetable</title>") {
		t.Errorf("title missing: %s", doc)
	}
}

func TestPage_SvgNotEscaped(t *testing.T) {
	c := New("t", nil)
	out, err := c.Page(`<svg><g transform="scale(0.3)"></g></svg>`, time.Now())
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(string(out), `<g transform="scale(0.3)">`) {
		t.Error("svg markup should be embedded verbatim, not escaped")
	}
}

func TestStamp_FixedZoneIndependentOfInputZone(t *testing.T) {
	c := New("t", time.FixedZone("UTC+5", 5*3600))

	instant := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	inOtherZone := instant.In(time.FixedZone("UTC-8", -8*3600))

	if got, want := c.Stamp(instant), "04:30 / 2025-01-01"; got != want {
		t.Errorf("stamp: got %q, want %q", got, want)
	}
	if c.Stamp(instant) != c.Stamp(inOtherZone) {
		t.Error("stamp must not depend on the input's zone")
	}
}

func TestStamp_ZeroOffset(t *testing.T) {
	c := New("t", time.FixedZone("UTC+0", 0))
	instant := time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC)
	if got, want := c.Stamp(instant), "09:05 / 2024-06-01"; got != want {
		t.Errorf("stamp: got %q, want %q", got, want)
	}
}
