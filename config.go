// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import "github.com/joeycumines/logiface"

// Option configures a channel built by one of the New constructors.
// Options are applied in order; later options override earlier ones.
type Option func(*config)

type config struct {
	logger         *logiface.Logger[logiface.Event]
	factory        *Factory
	readerImmunity int
	writerImmunity int
}

func resolve(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithImmunity sets the poison immunity of both ends of a channel.
// An end observes poison only if the poison strength exceeds its immunity.
func WithImmunity(level int) Option {
	return func(c *config) {
		c.readerImmunity = level
		c.writerImmunity = level
	}
}

// WithReaderImmunity sets the poison immunity of the reading end.
func WithReaderImmunity(level int) Option {
	return func(c *config) { c.readerImmunity = level }
}

// WithWriterImmunity sets the poison immunity of the writing end.
func WithWriterImmunity(level int) Option {
	return func(c *config) { c.writerImmunity = level }
}

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(c *config) { c.logger = logger }
}

// FromFactory applies the factory's default options, then numbers the
// channel from the factory's serial space and accounts its traffic in the
// factory's [Stats]. Place it first so later options can override defaults.
func FromFactory(f *Factory) Option {
	return func(c *config) {
		for _, opt := range f.opts {
			if opt != nil {
				opt(c)
			}
		}
		c.factory = f
	}
}
