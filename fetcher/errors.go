package fetcher

import (
	"errors"
	"fmt"
)

var (
	ErrNoResults = errors.New("no videos found for the provided singer name")
	ErrConsumed  = errors.New("clip sequence was already consumed")
	ErrUnstable  = errors.New("file did not stabilize")
	ErrNotFound  = errors.New("downloaded file not found")
)

// FetchError reports a run-level fetch failure: a failed search, no results, or too few usable downloads.
type FetchError struct {
	Singer    string
	Obtained  int
	Requested int
	Err       error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %q: %s", e.Singer, e.Err)
	}
	return fmt.Sprintf(
		"downloaded only %d of %d requested videos for %q. Try again with a smaller number or a different singer",
		e.Obtained, e.Requested, e.Singer,
	)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
