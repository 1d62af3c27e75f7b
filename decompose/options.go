// SPDX-License-Identifier: MIT

package decompose

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/ietx/boshernitzan"
)

const (
	// DefaultMaxSteps is the step bound used by callers that have none.
	DefaultMaxSteps = 10_000

	// DefaultZorich enables accelerated induction.
	DefaultZorich = true
)

const (
	panicNilLogger  = "decompose: WithLogger: logger must be non-nil"
	panicWorkersLow = "decompose: WithWorkers: workers must be ≥ 1"
)

// Options configures Decompose and Batch.
type Options struct {
	Logger  logrus.FieldLogger
	Zorich  bool
	Workers int
	// Certifier holds options forwarded to every branch's Certifier.
	Certifier []boshernitzan.Option
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns a silent logger, Zorich acceleration, one worker
// per CPU and default certifier settings.
func DefaultOptions() Options {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return Options{Logger: l, Zorich: DefaultZorich, Workers: runtime.GOMAXPROCS(0)}
}

// WithLogger sets the logger. Steps are logged at Debug, components at Info.
// Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *Options) { o.Logger = l }
}

// WithZorich toggles accelerated induction.
func WithZorich(on bool) Option {
	return func(o *Options) { o.Zorich = on }
}

// WithWindow forwards boshernitzan.WithWindow.
func WithWindow(n int) Option {
	opt := boshernitzan.WithWindow(n)

	return func(o *Options) { o.Certifier = append(o.Certifier, opt) }
}

// WithCheckEvery forwards boshernitzan.WithCheckEvery.
func WithCheckEvery(k int) Option {
	opt := boshernitzan.WithCheckEvery(k)

	return func(o *Options) { o.Certifier = append(o.Certifier, opt) }
}

// WithWorkers bounds the goroutines used by Batch. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersLow)
	}

	return func(o *Options) { o.Workers = n }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
