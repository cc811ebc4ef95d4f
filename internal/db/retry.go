// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import (
	"context"
	"errors"
	"math"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// locked-database errors. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Millisecond

// DefaultMaxRetries is the retry count used when WithRetry is called
// with maxRetries 0. The CLI overrides it from configuration.
var DefaultMaxRetries = 5

// WithRetry runs fn and retries it while SQLite reports the database as
// busy or locked. The delay starts at RetryBaseDelay and doubles each
// attempt.
//
// When maxRetries is 0 DefaultMaxRetries is used. Non-busy errors are
// returned immediately. If the context is cancelled during a backoff
// wait the function returns ctx.Err(). After exhausting retries the
// last busy error is returned.
func WithRetry(ctx context.Context, maxRetries int, fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !isBusy(err) {
			return err
		}

		if attempt >= maxRetries {
			return err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func isBusy(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code == sqlite3.ErrBusy || sqlErr.Code == sqlite3.ErrLocked
	}
	return false
}
