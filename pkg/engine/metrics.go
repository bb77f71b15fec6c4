package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/opd-ai/go-moonmission/pkg/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics holds the engine and predictor instruments. They record to the
// global meter provider, which is a no-op unless the host installs one.
type metrics struct {
	steps           metric.Int64Counter
	commandsApplied metric.Int64Counter
	fuelRefused     metric.Int64Counter
	predictions     metric.Int64Counter
	predictionSteps metric.Int64Histogram
}

func newMetrics() *metrics {
	m, err := buildMetrics(meter())
	if err != nil {
		m, _ = buildMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func buildMetrics(m metric.Meter) (*metrics, error) {
	var (
		out metrics
		err error
	)

	out.steps, err = m.Int64Counter(
		"engine.steps",
		metric.WithDescription("Physics steps executed"),
	)
	if err != nil {
		return nil, err
	}

	out.commandsApplied, err = m.Int64Counter(
		"engine.commands.applied",
		metric.WithDescription("Command steps applied to the rocket"),
	)
	if err != nil {
		return nil, err
	}

	out.fuelRefused, err = m.Int64Counter(
		"engine.fuel.refused",
		metric.WithDescription("Actuations refused because the tank was empty"),
	)
	if err != nil {
		return nil, err
	}

	out.predictions, err = m.Int64Counter(
		"computer.predictions",
		metric.WithDescription("Trajectory predictions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	out.predictionSteps, err = m.Int64Histogram(
		"computer.prediction.steps",
		metric.WithDescription("Steps simulated per prediction"),
	)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (m *metrics) recordStep(ctx context.Context) {
	m.steps.Add(ctx, 1)
}

func (m *metrics) recordCommand(ctx context.Context, kind string) {
	m.commandsApplied.Add(ctx, 1, metric.WithAttributes(attribute.String("command", kind)))
}

func (m *metrics) recordRefusal(ctx context.Context, kind string) {
	m.fuelRefused.Add(ctx, 1, metric.WithAttributes(attribute.String("command", kind)))
}

func (m *metrics) recordPrediction(ctx context.Context, steps int, outcome string) {
	m.predictions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.predictionSteps.Record(ctx, int64(steps))
}

// discardMetrics returns instruments that record nothing, for engines whose
// steps are not part of the live simulation.
func discardMetrics() *metrics {
	m, _ := buildMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	return m
}
