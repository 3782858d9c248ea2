package kmonitor

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exports reports as per-link counters, one series per subtask. The amplification gauge
// holds produced/consumed bytes of the latest window, which shows how much a
// stage grows or shrinks its input.
type Prometheus struct {
	records       *prometheus.CounterVec
	consumed      *prometheus.CounterVec
	produced      *prometheus.CounterVec
	amplification *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	labels := []string{"task", "subtask", "link"}
	p := &Prometheus{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kchain_link_records_total",
			Help: "Records consumed by a chain link.",
		}, labels),
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kchain_link_consumed_bytes_total",
			Help: "Bytes of records pushed into a chain link.",
		}, labels),
		produced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kchain_link_produced_bytes_total",
			Help: "Bytes of records a chain link pushed downstream.",
		}, labels),
		amplification: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kchain_link_amplification_ratio",
			Help: "Produced bytes divided by consumed bytes in the latest sampling window.",
		}, labels),
	}

	for _, c := range []prometheus.Collector{p.records, p.consumed, p.produced, p.amplification} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register chain metrics: %w", err)
		}
	}
	return p, nil
}

func (p *Prometheus) ReportStatistics(s Statistics) {
	lv := []string{s.Task, strconv.Itoa(s.Subtask), s.Link}
	p.records.WithLabelValues(lv...).Add(float64(s.Records))
	p.consumed.WithLabelValues(lv...).Add(float64(s.ConsumedBytes))
	p.produced.WithLabelValues(lv...).Add(float64(s.ProducedBytes))
	if s.ConsumedBytes > 0 {
		p.amplification.WithLabelValues(lv...).Set(float64(s.ProducedBytes) / float64(s.ConsumedBytes))
	}
}
