package tmx

import "go.uber.org/zap"

type options struct {
	log    *zap.Logger
	strict bool
}

// Option configures decoding.
type Option func(*options)

// WithLogger sets the logger used to report skipped and repeated elements.
// Decoding is silent by default.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithStrict toggles strict XML parsing on decoders created by this
// package. Strict mode is on by default.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

func newOptions(opts []Option) options {
	o := options{
		log:    zap.NewNop(),
		strict: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
