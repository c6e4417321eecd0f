package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/tmengine/internal/metrics"
	"github.com/roach88/tmengine/internal/tm"
)

// statsRecorder collects engine metrics for one command run in a private
// registry.
type statsRecorder struct {
	reg       *prometheus.Registry
	collector *metrics.Collector
	detach    func()
}

// newStatsRecorder attaches a collector to m.
func newStatsRecorder(m *tm.TopicMap) (*statsRecorder, error) {
	reg := prometheus.NewRegistry()
	c, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}
	detach, err := c.Attach(m)
	if err != nil {
		c.Close()
		return nil, err
	}
	return &statsRecorder{reg: reg, collector: c, detach: detach}, nil
}

// Close detaches the collector.
func (s *statsRecorder) Close() {
	s.detach()
	s.collector.Close()
}

// Snapshot returns every series as "name{label=value}" -> value.
func (s *statsRecorder) Snapshot() (map[string]float64, error) {
	families, err := s.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	stats := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			switch {
			case metric.GetCounter() != nil:
				stats[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				stats[name] = metric.GetGauge().GetValue()
			}
		}
	}
	return stats, nil
}

// formatStats renders stats one series per line, sorted by name.
func formatStats(stats map[string]float64) string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s %g\n", name, stats[name])
	}
	return b.String()
}
