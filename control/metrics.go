// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus instrumentation for the RX path. The ring itself stays free
// of counters; drop and timeout accounting lives here, at the stream
// boundary where batches are won or lost.

package control

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StreamMetrics aggregates RX stream counters. A nil *StreamMetrics is
// valid and drops all observations.
type StreamMetrics struct {
	samplesProduced  prometheus.Counter
	samplesConsumed  prometheus.Counter
	producerTimeouts prometheus.Counter
	consumerTimeouts prometheus.Counter
	droppedSamples   prometheus.Counter
	ringUtilization  prometheus.Gauge
}

// NewStreamMetrics creates and registers stream metrics with the registry.
func NewStreamMetrics(reg prometheus.Registerer, driver string) (*StreamMetrics, error) {
	labels := prometheus.Labels{"driver": driver}
	m := &StreamMetrics{
		samplesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hioload_sdr",
			Subsystem:   "stream",
			Name:        "samples_produced_total",
			ConstLabels: labels,
			Help:        "Samples written into the ring by the RX thread",
		}),
		samplesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hioload_sdr",
			Subsystem:   "stream",
			Name:        "samples_consumed_total",
			ConstLabels: labels,
			Help:        "Samples read out of the ring by the application",
		}),
		producerTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hioload_sdr",
			Subsystem:   "stream",
			Name:        "producer_timeouts_total",
			ConstLabels: labels,
			Help:        "RX bursts that timed out waiting for ring space",
		}),
		consumerTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hioload_sdr",
			Subsystem:   "stream",
			Name:        "consumer_timeouts_total",
			ConstLabels: labels,
			Help:        "Read calls that timed out waiting for samples",
		}),
		droppedSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "hioload_sdr",
			Subsystem:   "stream",
			Name:        "dropped_samples_total",
			ConstLabels: labels,
			Help:        "Samples dropped because the ring stayed full",
		}),
		ringUtilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "hioload_sdr",
			Subsystem:   "stream",
			Name:        "ring_utilization",
			ConstLabels: labels,
			Help:        "Fraction of ring capacity holding unread samples",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.samplesProduced, m.samplesConsumed,
		m.producerTimeouts, m.consumerTimeouts,
		m.droppedSamples, m.ringUtilization,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register stream metrics: %w", err)
		}
	}
	return m, nil
}

// Produced records samples accepted into the ring.
func (m *StreamMetrics) Produced(n int) {
	if m != nil {
		m.samplesProduced.Add(float64(n))
	}
}

// Consumed records samples delivered to the application.
func (m *StreamMetrics) Consumed(n int) {
	if m != nil {
		m.samplesConsumed.Add(float64(n))
	}
}

// ProducerTimeout records one dropped burst of n samples.
func (m *StreamMetrics) ProducerTimeout(n int) {
	if m != nil {
		m.producerTimeouts.Inc()
		m.droppedSamples.Add(float64(n))
	}
}

// ConsumerTimeout records one timed-out read.
func (m *StreamMetrics) ConsumerTimeout() {
	if m != nil {
		m.consumerTimeouts.Inc()
	}
}

// Utilization publishes the current fill fraction.
func (m *StreamMetrics) Utilization(available, capacity int) {
	if m != nil && capacity > 0 {
		m.ringUtilization.Set(float64(available) / float64(capacity))
	}
}
