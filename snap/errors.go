package snap

import (
	"github.com/hazyhaar/ttsnap/snap/internal/publish"
	"github.com/hazyhaar/ttsnap/snap/internal/render"
	"github.com/hazyhaar/ttsnap/snap/internal/svgpatch"
)

// RenderTimeoutError: a browser wait or navigation exceeded its timeout.
// Transient; the fetcher retries it.
type RenderTimeoutError = render.TimeoutError

// StructureMismatchError: the page's dropdown held fewer entries than
// the configured class ordinal requires. Still retried by the fetcher;
// the same kind across all attempts means the page changed and an
// operator needs to look.
type StructureMismatchError = render.MismatchError

// PublishError: the output write failed. Fatal, never retried.
type PublishError = publish.Error

// ErrNoSVG: rendering reported success but extraction found no <svg>.
// Propagates immediately, never retried.
var ErrNoSVG = svgpatch.ErrNoSVG
