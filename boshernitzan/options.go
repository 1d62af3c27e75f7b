// SPDX-License-Identifier: MIT

package boshernitzan

const (
	// DefaultWindow is the number of recent states kept for recurrence
	// detection.
	DefaultWindow = 64

	// DefaultCheckEvery solves the displacement system on every query.
	DefaultCheckEvery = 1
)

const (
	panicWindowNegative = "boshernitzan: WithWindow: window must be ≥ 0"
	panicCheckEvery     = "boshernitzan: WithCheckEvery: interval must be ≥ 1"
)

// Options configures a Certifier.
//   - Window: states remembered for recurrence detection (0 disables it).
//   - CheckEvery: solve the displacement system on every k-th query.
type Options struct {
	Window     int
	CheckEvery int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults above.
func DefaultOptions() Options {
	return Options{Window: DefaultWindow, CheckEvery: DefaultCheckEvery}
}

// WithWindow sets the history window. Panics when n < 0.
func WithWindow(n int) Option {
	if n < 0 {
		panic(panicWindowNegative)
	}

	return func(o *Options) { o.Window = n }
}

// WithCheckEvery solves the displacement system only on every k-th query.
// Panics when k < 1.
func WithCheckEvery(k int) Option {
	if k < 1 {
		panic(panicCheckEvery)
	}

	return func(o *Options) { o.CheckEvery = k }
}
