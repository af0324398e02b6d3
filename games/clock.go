/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"fmt"
	"time"
)

// Clock supplies wall-clock time for alert expiry.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads time.Now.
var SystemClock Clock = systemClock{}

// Alert is a transient error indication that clears itself at a fixed instant.
// The zero value is inactive.
type Alert struct {
	until time.Time
}

// Raise activates the alert for d starting at now. A non-positive d leaves it inactive.
func (a *Alert) Raise(now time.Time, d time.Duration) {
	if d <= 0 {
		a.until = time.Time{}
		return
	}

	a.until = now.Add(d)
}

// Active reports whether the alert is still showing at now.
func (a Alert) Active(now time.Time) bool {
	return now.Before(a.until)
}

// Expiry is the instant the alert clears; zero if it was never raised.
func (a Alert) Expiry() time.Time {
	return a.until
}

// Stopwatch counts whole elapsed seconds while running.
// The caller owns the tick source and calls Tick once per second.
type Stopwatch struct {
	elapsed int
	running bool
}

func (s *Stopwatch) Start() { s.running = true }

// Stop freezes the elapsed value. Later ticks are ignored.
func (s *Stopwatch) Stop() { s.running = false }

// Tick adds one second if running and reports whether it did.
func (s *Stopwatch) Tick() bool {
	if !s.running {
		return false
	}

	s.elapsed++

	return true
}

func (s *Stopwatch) Elapsed() int { return s.elapsed }

func (s *Stopwatch) Running() bool { return s.running }

func (s *Stopwatch) String() string { return FormatElapsed(s.elapsed) }

// FormatElapsed renders seconds as MM:SS. Minutes widen past 99 rather than
// wrapping, so 6000 renders as "100:00".
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
