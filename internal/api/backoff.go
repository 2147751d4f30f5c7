package api

import (
	"time"
)

// Backoff retries a function with exponential delays between attempts.
type Backoff struct {
	base       time.Duration
	maxRetries int
}

// NewBackoff creates a backoff policy. maxRetries is the number of retries
// after the first attempt.
func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries}
}

// Do runs fn until it succeeds, returns a permanent error, or retries are
// exhausted. fn reports whether its error is worth retrying.
func (b Backoff) Do(fn func(i int) (retryable bool, err error)) error {
	var err error
	var retryable bool
	for i := 0; i <= b.maxRetries; i++ {
		retryable, err = fn(i)
		if err == nil || !retryable {
			return err
		}
		if i < b.maxRetries {
			time.Sleep(time.Duration(1<<i) * b.base)
		}
	}
	return err
}
