// Package svgpatch extracts the timetable SVG from rendered page HTML
// and patches its layout attributes for embedding in a static page.
//
// The source page assumes it owns the whole viewport: the chart carries
// intrinsic dimensions and absolutely-positioned children anchored at
// the origin. Both assumptions break inside a constrained container, so
// the patches normalize size, scale the root group, and rewrite the
// offending inline styles. All mutation is structural (DOM tree, not
// string replacement), so attribute order and whitespace don't matter.
package svgpatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoSVG is returned when the parsed document holds no <svg> element.
// By the time extraction runs, rendering already reported success, so
// this indicates an unexpected page state and is never retried.
var ErrNoSVG = errors.New("svgpatch: no <svg> element found in page HTML")

// Options control the layout patches.
type Options struct {
	// Width and Height override the chart's intrinsic size. Defaults: 900x600.
	Width  int
	Height int
	// Scale is applied to the first direct child <g>. Default: 0.3.
	// A fixed empirically-chosen factor, not computed from content bounds.
	Scale float64
}

func (o *Options) defaults() {
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Scale <= 0 {
		o.Scale = 0.3
	}
}

// Extract locates the first <svg> in rawHTML, applies the layout
// patches, and returns the patched subtree serialized as markup.
func Extract(rawHTML string, opts Options) (string, error) {
	opts.defaults()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("svgpatch: parse html: %w", err)
	}

	svg := doc.Find("svg").First()
	if svg.Length() == 0 {
		return "", ErrNoSVG
	}

	svg.SetAttr("width", strconv.Itoa(opts.Width))
	svg.SetAttr("height", strconv.Itoa(opts.Height))

	if g := svg.ChildrenFiltered("g").First(); g.Length() > 0 {
		g.SetAttr("transform", fmt.Sprintf("scale(%g)", opts.Scale))
	}

	for _, n := range svg.Nodes {
		rewriteStyles(n)
	}

	out, err := goquery.OuterHtml(svg)
	if err != nil {
		return "", fmt.Errorf("svgpatch: serialize: %w", err)
	}
	return out, nil
}

// rewriteStyles walks the subtree and rewrites any inline style that
// pins an element absolutely at the origin.
func rewriteStyles(n *html.Node) {
	if n.Type == html.ElementNode {
		for i, a := range n.Attr {
			if a.Key != "style" {
				continue
			}
			if fixed, changed := relativize(a.Val); changed {
				n.Attr[i].Val = fixed
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteStyles(c)
	}
}

type declaration struct {
	key   string
	value string
}

// relativize rewrites "position: absolute" pinned to (0,0) as
// "position: relative", dropping the zero offsets and preserving every
// other declaration. Styles that don't match the exact pattern are left
// alone, which makes the rewrite idempotent.
func relativize(style string) (string, bool) {
	decls := parseStyle(style)

	absolute, left, top := false, false, false
	for _, d := range decls {
		switch strings.ToLower(d.key) {
		case "position":
			absolute = strings.EqualFold(d.value, "absolute")
		case "left":
			left = isZeroLength(d.value)
		case "top":
			top = isZeroLength(d.value)
		}
	}
	if !absolute || !left || !top {
		return "", false
	}

	var out []string
	for _, d := range decls {
		switch strings.ToLower(d.key) {
		case "position":
			out = append(out, "position: relative;")
		case "left", "top":
			// dropped with the absolute positioning
		default:
			out = append(out, fmt.Sprintf("%s: %s;", d.key, d.value))
		}
	}
	return strings.Join(out, " "), true
}

func parseStyle(style string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(style, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		decls = append(decls, declaration{
			key:   strings.TrimSpace(key),
			value: strings.TrimSpace(value),
		})
	}
	return decls
}

func isZeroLength(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "0" || v == "0px"
}
