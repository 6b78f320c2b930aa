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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCalculateBackoffLiteralScenario: with initial=1ms and no jitter,
// backoffs run 1ms, 2ms, 4ms, ...; an op that fails twice and succeeds
// on the third try waits 1ms+2ms=3ms in total (two waits between three
// attempts).
func TestCalculateBackoffLiteralScenario(t *testing.T) {
	cfg := Config{InitialBackoffMs: 1, MaxBackoffMs: 1000, Jitter: false}
	require.Equal(t, uint32(1), CalculateBackoff(cfg, 1, nil))
	require.Equal(t, uint32(2), CalculateBackoff(cfg, 2, nil))

	total := CalculateBackoff(cfg, 1, nil) + CalculateBackoff(cfg, 2, nil)
	require.Equal(t, uint32(3), total)
}

func TestCalculateBackoffCapsAtMax(t *testing.T) {
	cfg := Config{InitialBackoffMs: 100, MaxBackoffMs: 250, Jitter: false}
	require.Equal(t, uint32(100), CalculateBackoff(cfg, 1, nil))
	require.Equal(t, uint32(200), CalculateBackoff(cfg, 2, nil))
	require.Equal(t, uint32(250), CalculateBackoff(cfg, 3, nil))
	require.Equal(t, uint32(250), CalculateBackoff(cfg, 10, nil))
}

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// TestCalculateBackoffMonotonic: without jitter, CalculateBackoff is
// non-decreasing in attempt and never exceeds MaxBackoffMs.
func TestCalculateBackoffMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Uint32Range(1, 1000).Draw(t, "initial")
		max := rapid.Uint32Range(initial, initial*50+1).Draw(t, "max")
		cfg := Config{InitialBackoffMs: initial, MaxBackoffMs: max, Jitter: false}

		attempts := rapid.IntRange(1, 30).Draw(t, "attempts")
		var prev uint32
		for a := 1; a <= attempts; a++ {
			got := CalculateBackoff(cfg, a, nil)
			if got > max {
				t.Fatalf("attempt %d: backoff %d exceeds max %d", a, got, max)
			}
			if got < prev {
				t.Fatalf("attempt %d: backoff %d decreased from %d", a, got, prev)
			}
			prev = got
		}
	})
}

// TestCalculateBackoffJitterBounds: with jitter, the result always lies
// in [capped/2, capped].
func TestCalculateBackoffJitterBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Uint32Range(1, 1000).Draw(t, "initial")
		max := rapid.Uint32Range(initial, initial*50+1).Draw(t, "max")
		attempt := rapid.IntRange(1, 20).Draw(t, "attempt")
		r := rapid.Float64Range(0, 0.999999).Draw(t, "r")

		cfg := Config{InitialBackoffMs: initial, MaxBackoffMs: max, Jitter: true}
		capped := CalculateBackoff(Config{InitialBackoffMs: initial, MaxBackoffMs: max}, attempt, nil)
		got := CalculateBackoff(cfg, attempt, fixedRand(r))

		if capped == 0 {
			assert.Equal(t, uint32(0), got)
			return
		}
		assert.GreaterOrEqual(t, got, capped/2)
		assert.LessOrEqual(t, got, capped)
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.True(t, IsRetryableError(context.DeadlineExceeded))
	assert.False(t, IsRetryableError(errors.New("boom")))
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(429))
	assert.True(t, IsRetryableStatus(503))
	assert.False(t, IsRetryableStatus(404))
	assert.False(t, IsRetryableStatus(200))
}

// TestWithRetrySucceedsAfterTransientFailures drives the retry loop end
// to end: the operation fails twice with a retryable error, then
// succeeds on the third attempt.
func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	cfg := Config{InitialBackoffMs: 1, MaxBackoffMs: 1000}
	calls := 0
	got, err := WithRetry(context.Background(), cfg, 3, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", context.DeadlineExceeded
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 3, calls)
}

// TestWithRetryStopsOnPermanentError verifies a non-retryable error aborts
// immediately without exhausting maxRetries.
func TestWithRetryStopsOnPermanentError(t *testing.T) {
	cfg := Config{InitialBackoffMs: 1, MaxBackoffMs: 1000}
	calls := 0
	wantErr := errors.New("bad request")
	_, err := WithRetry(context.Background(), cfg, 5, func(ctx context.Context) (string, error) {
		calls++
		return "", wantErr
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
