package unwind

import "github.com/rs/zerolog"

// Option is a configuration function for a Context.
type Option func(*Context)

// WithManager sets the exception-object manager the context delegates
// lifetime and catch bookkeeping to. By default each context owns a fresh
// exception.Manager.
func WithManager(m Manager) Option {
	return func(c *Context) {
		c.manager = m
	}
}

// WithPolicy sets the terminate/unexpected policy. The default policy logs
// and panics with ErrTerminated.
func WithPolicy(p Policy) Option {
	return func(c *Context) {
		c.policy = p
	}
}

// WithTracer sets a tracer for dispatch events.
func WithTracer(t Tracer) Option {
	return func(c *Context) {
		c.tracer = t
	}
}

// WithLogger sets the logger used for dispatch diagnostics. Logging is
// disabled by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}
