package planner

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

// Option configures a Planner.
type Option func(p *Planner)

// WithSource binds tap to the head branch called name.
func WithSource(name string, tap model.Tap) Option {
	return func(p *Planner) {
		p.sources[name] = tap
	}
}

// WithSink binds tap to the tail branch called name.
func WithSink(name string, tap model.Tap) Option {
	return func(p *Planner) {
		p.sinks[name] = tap
	}
}

// WithTrap binds tap to the branch called name: the records failing in any pipe of that branch are written to it.
func WithTrap(name string, tap model.Tap) Option {
	return func(p *Planner) {
		p.traps[name] = tap
	}
}

// WithProperty sets a property of every step, overridden by the pipe overlays.
func WithProperty(key string, value any) Option {
	return func(p *Planner) {
		p.properties.Set(key, value)
	}
}

// WithProperties sets every property of def, in order.
func WithProperties(def *model.ConfigDef) Option {
	return func(p *Planner) {
		def.Each(func(k string, v any) {
			p.properties.Set(k, v)
		})
	}
}

// WithLogger sets the logger used to report plans.
func WithLogger(log *slog.Logger) Option {
	return func(p *Planner) {
		p.log = log
	}
}

// WithIDGenerator replaces the random step identifiers. Ids must be unique within a plan.
func WithIDGenerator(fn func() string) Option {
	return func(p *Planner) {
		p.newID = fn
	}
}

func newStepID() string {
	return uuid.New().String()
}
