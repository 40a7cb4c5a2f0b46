package render

import "fmt"

// TimeoutError reports a wait or navigation step that exceeded its
// timeout. Retryable: the site may just be slow or unreachable.
type TimeoutError struct {
	Step string
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("render: %s timed out: %v", e.Step, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// MismatchError reports that the dropdown held fewer entries than the
// configured class ordinal requires. The page's structure or content
// changed; retrying is unlikely to help.
type MismatchError struct {
	Selector string
	Index    int
	Found    int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("render: expected at least %d entries for %q, found %d",
		e.Index+1, e.Selector, e.Found)
}
