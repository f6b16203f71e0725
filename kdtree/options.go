package kdtree

import "log/slog"

// Options holds construction settings shared by the tree packages.
type Options struct {
	Logger *slog.Logger
}

// Option configures tree construction.
type Option func(*Options)

// WithLogger sets the logger used to report construction. If nil is passed,
// logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
