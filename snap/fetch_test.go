package snap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/ttsnap/snap/internal/render"
)

// fakeRenderer fails a fixed number of times before succeeding.
type fakeRenderer struct {
	failures int
	err      error
	calls    int
}

func (r *fakeRenderer) Render(ctx context.Context) (string, error) {
	r.calls++
	if r.calls <= r.failures {
		return "", r.err
	}
	return "<html><svg></svg></html>", nil
}

// recordingSleep captures the delays instead of waiting.
type recordingSleep struct {
	delays []time.Duration
}

func (s *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func TestFetch_SucceedsAfterFailures(t *testing.T) {
	renderer := &fakeRenderer{failures: 2, err: &render.TimeoutError{Step: "svg"}}
	clock := &recordingSleep{}
	f := NewFetcher(renderer, 3, 10*time.Second, nil, WithSleep(clock.sleep))

	html, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Contains(t, html, "<svg>")
	require.Equal(t, 3, renderer.calls)
	// One constant delay between each failed attempt and the next.
	require.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, clock.delays)
}

func TestFetch_ExhaustionReturnsLastError(t *testing.T) {
	cause := &render.TimeoutError{Step: "dropdown panel"}
	renderer := &fakeRenderer{failures: 100, err: cause}
	clock := &recordingSleep{}
	f := NewFetcher(renderer, 3, time.Second, nil, WithSleep(clock.sleep))

	_, err := f.Fetch(context.Background())
	require.Equal(t, 3, renderer.calls)
	// The final attempt's error, unmodified.
	require.Same(t, cause, err)
	// No delay after the last attempt.
	require.Len(t, clock.delays, 2)
}

func TestFetch_MismatchStillRetried(t *testing.T) {
	cause := &render.MismatchError{Selector: ".dropDownPanel li", Index: 31, Found: 2}
	renderer := &fakeRenderer{failures: 100, err: cause}
	clock := &recordingSleep{}
	f := NewFetcher(renderer, 2, time.Second, nil, WithSleep(clock.sleep))

	_, err := f.Fetch(context.Background())
	require.Equal(t, 2, renderer.calls)

	var mismatch *render.MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 2, mismatch.Found)
}

func TestFetch_FirstAttemptSuccessNeverSleeps(t *testing.T) {
	renderer := &fakeRenderer{}
	clock := &recordingSleep{}
	f := NewFetcher(renderer, 3, time.Second, nil, WithSleep(clock.sleep))

	_, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, renderer.calls)
	require.Empty(t, clock.delays)
}

func TestFetch_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	renderer := &fakeRenderer{failures: 100, err: &render.TimeoutError{Step: "navigate"}}
	f := NewFetcher(renderer, 3, time.Second, nil, WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := f.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, renderer.calls)
}
