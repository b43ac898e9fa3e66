package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var selectedOrderBuckets = []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55}

// NewQuoteInstrumentation registers the collectors the quote service and the redis stores report to.
func NewQuoteInstrumentation(namespace string, opts ...InstrumentationOption) *Instrumentation {
	base := []InstrumentationOption{
		WithGaugeVec(InstrumentationTypeVersion, "version", "Build version", []string{"version"}),
		WithCounterVec(
			InstrumentationTypeQuoteRequestCount,
			"quote_requests_total",
			"Number of quotes requested",
			[]string{LabelOperation},
		),
		WithHistogramVec(
			InstrumentationTypeQuoteRequestDuration,
			"quote_request_duration_seconds",
			"Time spent building a quote",
			[]string{LabelOperation},
			prometheus.DefBuckets,
		),
		WithCounterVec(
			InstrumentationTypeQuoteRequestFailure,
			"quote_request_failures_total",
			"Number of quotes rejected with an error",
			[]string{LabelOperation},
		),
		WithCounterVec(
			InstrumentationTypeUnmetRemainder,
			"quote_unmet_remainder_total",
			"Number of selections that left part of the fill amount uncovered",
			[]string{LabelStage},
		),
		WithHistogramVec(
			InstrumentationTypeSelectedOrders,
			"quote_selected_orders",
			"Number of orders included in a selection",
			[]string{LabelStage},
			selectedOrderBuckets,
		),
		WithCounterVec(
			InstrumentationTypeStoreRequestCount,
			"store_requests_total",
			"Number of redis store requests",
			[]string{LabelOperation},
		),
		WithHistogramVec(
			InstrumentationTypeStoreRequestDuration,
			"store_request_duration_seconds",
			"Duration of redis store requests",
			[]string{LabelOperation},
			prometheus.DefBuckets,
		),
		WithCounterVec(
			InstrumentationTypeStoreRequestFailure,
			"store_request_failures_total",
			"Number of failed redis store requests",
			[]string{LabelOperation},
		),
	}
	return NewInstrumentation(namespace, append(base, opts...)...)
}

// Observe runs fn and records its count, duration and failure under the given label.
// The count, duration and failure types must be registered as vectors with a single label; a nil
// instrumentation only runs fn.
func (i *Instrumentation) Observe(count, duration, failure InstrumentationType, label string, fn func() error) error {
	if i == nil {
		return fn()
	}
	if c, ok := i.CounterVecs[count]; ok {
		c.WithLabelValues(label).Inc()
	}
	start := time.Now()
	err := fn()
	if h, ok := i.HistogramVecs[duration]; ok {
		h.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if c, ok := i.CounterVecs[failure]; ok {
			c.WithLabelValues(label).Inc()
		}
	}
	return err
}

// ObserveSelection records the size of a selection and whether it left a remainder.
func (i *Instrumentation) ObserveSelection(stage string, selected int, unmet bool) {
	if i == nil {
		return
	}
	if h, ok := i.HistogramVecs[InstrumentationTypeSelectedOrders]; ok {
		h.WithLabelValues(stage).Observe(float64(selected))
	}
	if !unmet {
		return
	}
	if c, ok := i.CounterVecs[InstrumentationTypeUnmetRemainder]; ok {
		c.WithLabelValues(stage).Inc()
	}
}

// ObserveStore is Observe for the redis store collectors.
func (i *Instrumentation) ObserveStore(operation string, fn func() error) error {
	return i.Observe(
		InstrumentationTypeStoreRequestCount,
		InstrumentationTypeStoreRequestDuration,
		InstrumentationTypeStoreRequestFailure,
		operation,
		fn,
	)
}
