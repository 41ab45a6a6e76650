package match

import (
	"go.uber.org/zap"

	"martianoff/pama/shape"
)

type settings struct {
	reg *shape.Registry
	res *shape.Resolver
	log *zap.Logger
}

func newSettings(opts []Option) *settings {
	s := &settings{
		reg: shape.DefaultRegistry(),
		res: shape.DefaultResolver(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures pattern compilation.
type Option func(*settings)

// WithRegistry sets the registry deconstructor names resolve through.
func WithRegistry(reg *shape.Registry) Option {
	return func(s *settings) { s.reg = reg }
}

// WithResolver sets the shape resolver used for deconstructions.
func WithResolver(res *shape.Resolver) Option {
	return func(s *settings) { s.res = res }
}

// WithLogger enables match tracing. The default logger is a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}
