// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// pureBackOff adapts CalculateBackoff to backoff.BackOff, the interface
// cenkalti/backoff/v5 drives its retry loop with. It holds no clock or
// jitter state of its own beyond the attempt counter, keeping the
// mechanism (when to retry, how many times) separate from the pure
// schedule (how long to wait).
type pureBackOff struct {
	cfg     Config
	rng     Rand
	attempt int
}

func (b *pureBackOff) NextBackOff() time.Duration {
	b.attempt++
	ms := CalculateBackoff(b.cfg, b.attempt, b.rng)
	return time.Duration(ms) * time.Millisecond
}

func (b *pureBackOff) Reset() {
	b.attempt = 0
}

// MaxRetries bounds the number of attempts WithRetry will make beyond the
// first. Exported so callers can report it alongside a final failure.
type MaxRetries = uint

// WithRetry runs op, retrying on transient failures classified by
// IsRetryableError, waiting between attempts per CalculateBackoff(cfg, ...).
// It stops retrying, returning the last error, once maxRetries additional
// attempts have been made, the context is done, or op returns a
// non-retryable error.
func WithRetry[T any](ctx context.Context, cfg Config, maxRetries uint, op func(context.Context) (T, error)) (T, error) {
	bo := &pureBackOff{cfg: cfg}
	wrapped := func() (T, error) {
		v, err := op(ctx)
		if err != nil && !IsRetryableError(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(maxRetries+1),
	)
}
