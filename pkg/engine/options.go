package engine

import (
	"github.com/opd-ai/go-moonmission/pkg/event"
	"github.com/opd-ai/go-moonmission/pkg/logging"
)

// DefaultMaxPredictionSteps bounds a prediction when no limit is configured
const DefaultMaxPredictionSteps = 200000

type options struct {
	logger        *logging.Logger
	bus           *event.Bus
	rocketGravity bool
	maxSteps      int
	metrics       *metrics
}

// Option configures an Engine, a Computer or a GameControl
type Option func(*options)

// WithLogger sets the logger; the default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventBus sets the bus that typed events are published on. Without
// one, events are dropped.
func WithEventBus(b *event.Bus) Option {
	return func(o *options) { o.bus = b }
}

// WithRocketGravity makes the rocket attract the earth and the moon.
func WithRocketGravity(on bool) Option {
	return func(o *options) { o.rocketGravity = on }
}

// WithMaxPredictionSteps bounds the number of steps a prediction may run.
func WithMaxPredictionSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

func withMetrics(m *metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{maxSteps: DefaultMaxPredictionSteps}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	if o.metrics == nil {
		o.metrics = newMetrics()
	}
	return o
}

func (o options) publish(e event.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}
