package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/key"
	"github.com/spf13/viper"
)

// RetryPolicy controls how a single video is re-attempted and how long its file may stay in flux.
type RetryPolicy struct {
	// Attempts is the total number of tries per item, at least 1.
	Attempts int
	// Backoff is the wait before the second attempt. It doubles for every further one.
	Backoff time.Duration
	// StableChecks is how many times the file size is sampled before giving up.
	StableChecks int
	// StableInterval separates two samples.
	StableInterval time.Duration
}

// DefaultRetryPolicy builds the policy from configuration.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       viper.GetInt(key.FetchRetries),
		Backoff:        viper.GetDuration(key.FetchBackoff),
		StableChecks:   viper.GetInt(key.FetchStableChecks),
		StableInterval: viper.GetDuration(key.FetchStableInterval),
	}
}

// MaxBackoff caps the wait between two attempts.
const MaxBackoff = 5 * time.Minute

// Delay returns the wait before the given attempt, counting from 1.
// It doubles from Backoff and never exceeds MaxBackoff.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 || p.Backoff <= 0 {
		return 0
	}

	delay := p.Backoff
	for range attempt - 2 {
		if delay >= MaxBackoff/2 {
			return MaxBackoff
		}
		delay *= 2
	}
	return min(delay, MaxBackoff)
}

// Do runs fn until it succeeds, the attempts are exhausted or ctx is done.
// The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(p.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := wait(ctx, p.Delay(attempt)); err != nil {
			return err
		}

		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return lastErr
}

// WaitStable blocks until the file at path exists with the same non-zero size on two consecutive samples.
func (p RetryPolicy) WaitStable(ctx context.Context, path string) error {
	var last int64 = -1
	for range max(p.StableChecks, 1) {
		info, err := filesystem.API().Stat(path)
		if err == nil {
			size := info.Size()
			if size > 0 && size == last {
				return nil
			}
			last = size
		}

		if err := wait(ctx, p.StableInterval); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %s", ErrUnstable, path)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
