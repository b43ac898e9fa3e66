package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentationType keys a collector in an Instrumentation.
type InstrumentationType int

const (
	InstrumentationTypeVersion InstrumentationType = iota
	InstrumentationTypeQuoteRequestCount
	InstrumentationTypeQuoteRequestDuration
	InstrumentationTypeQuoteRequestFailure
	InstrumentationTypeUnmetRemainder
	InstrumentationTypeSelectedOrders
	InstrumentationTypeStoreRequestCount
	InstrumentationTypeStoreRequestDuration
	InstrumentationTypeStoreRequestFailure
)

const (
	LabelStage     = "stage"
	LabelOperation = "operation"

	StageTarget = "target"
	StageFee    = "fee"
)

// Instrumentation groups labelled collectors under one namespace. Nothing is registered until it is passed to
// Server.Register.
type Instrumentation struct {
	namespace     string
	CounterVecs   map[InstrumentationType]*prometheus.CounterVec
	GaugeVecs     map[InstrumentationType]*prometheus.GaugeVec
	HistogramVecs map[InstrumentationType]*prometheus.HistogramVec
}

func NewInstrumentation(namespace string, opts ...InstrumentationOption) *Instrumentation {
	instrumentation := &Instrumentation{
		namespace:     namespace,
		CounterVecs:   make(map[InstrumentationType]*prometheus.CounterVec),
		GaugeVecs:     make(map[InstrumentationType]*prometheus.GaugeVec),
		HistogramVecs: make(map[InstrumentationType]*prometheus.HistogramVec),
	}

	for _, opt := range opts {
		opt(instrumentation)
	}
	return instrumentation
}

// Collectors returns every collector ordered by instrumentation type.
func (i *Instrumentation) Collectors() []prometheus.Collector {
	byType := make(map[InstrumentationType]prometheus.Collector, len(i.CounterVecs)+len(i.GaugeVecs)+len(i.HistogramVecs))
	for t, c := range i.CounterVecs {
		byType[t] = c
	}
	for t, g := range i.GaugeVecs {
		byType[t] = g
	}
	for t, h := range i.HistogramVecs {
		byType[t] = h
	}

	types := make([]InstrumentationType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(a, b int) bool { return types[a] < types[b] })

	collectors := make([]prometheus.Collector, len(types))
	for n, t := range types {
		collectors[n] = byType[t]
	}
	return collectors
}
