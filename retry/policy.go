// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retry

import (
	"context"
	"log/slog"
	"time"
)

// Backoff returns the delay to wait after the given failed attempt (1-based).
type Backoff func(attempt int) time.Duration

// Constant waits d between every attempt.
func Constant(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// Exponential waits base * 2^(attempt-1).
func Exponential(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		delay := base
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		return delay
	}
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy is a bounded retry policy.
type Policy struct {
	// MaxAttempts is the total number of calls allowed, including the first.
	MaxAttempts int

	// Backoff computes the wait between attempts. Nil means no wait.
	Backoff Backoff

	// Retryable classifies errors. Nil treats every error as retryable.
	Retryable func(error) bool

	// Sleep waits between attempts. Nil uses a timer honoring ctx.
	Sleep Sleeper

	// Logger receives per-attempt debug output. Nil uses slog.Default().
	Logger *slog.Logger
}

// Do calls op until it succeeds, returns a non-retryable error, or the
// attempt budget runs out. Non-retryable errors are returned as is; running
// out of attempts yields *ExhaustedError wrapping the last error. There is
// no wait after the final attempt.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = TimerSleep
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}

		logger.Debug("operation failed", "attempt", attempt, "max_attempts", p.MaxAttempts, "err", lastErr)

		if attempt == p.MaxAttempts {
			break
		}

		if p.Backoff != nil {
			if err := sleep(ctx, p.Backoff(attempt)); err != nil {
				return err
			}
		}
	}

	return &ExhaustedError{Attempts: p.MaxAttempts, Err: lastErr}
}

// TimerSleep waits for d using a timer, returning early with ctx.Err() if
// the context ends first.
func TimerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
