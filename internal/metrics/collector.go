// Package metrics exports topic map activity as Prometheus metrics.
//
// A Collector is a bus subscriber. Counters count dispatched events, so a
// change that is later rolled back is counted together with its
// compensating event. The topic gauge follows construct-added and
// construct-removed events and therefore returns to its prior value after
// a rollback.
package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/tmengine/internal/tm"
)

const namespace = "tmengine"

// ErrClosed is returned by Attach after Close.
var ErrClosed = errors.New("metrics: collector closed")

// Collector holds the engine metrics and the subscriptions feeding them.
type Collector struct {
	reg prometheus.Registerer

	events     *prometheus.CounterVec
	merges     prometheus.Counter
	duplicates *prometheus.CounterVec
	topics     prometheus.Gauge

	mu      sync.Mutex
	detach  []func()
	closed  bool
	metrics []prometheus.Collector
}

// New creates the metrics and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		reg: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Change notifications dispatched, by event kind.",
		}, []string{"kind"}),
		merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topic_merges_total",
			Help:      "Topic merges performed, cascades included.",
		}),
		duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Duplicate constructs removed, by construct kind.",
		}, []string{"kind"}),
		topics: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topics",
			Help:      "Topics held by the attached topic maps.",
		}),
	}
	c.metrics = []prometheus.Collector{c.events, c.merges, c.duplicates, c.topics}

	for i, m := range c.metrics {
		if err := reg.Register(m); err != nil {
			for _, done := range c.metrics[:i] {
				reg.Unregister(done)
			}
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// Attach subscribes the collector to m and adds m's current topics to the
// gauge. The returned function unsubscribes and removes m's topics from
// the gauge again.
func (c *Collector) Attach(m *tm.TopicMap) (detach func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	var held float64
	track := func(delta float64) {
		held += delta
		c.topics.Add(delta)
	}
	track(float64(m.TopicCount()))

	unsubscribe := m.Bus().SubscribeAll(func(e tm.Event) error {
		c.observe(e, track)
		return nil
	})

	var once sync.Once
	detach = func() {
		once.Do(func() {
			unsubscribe()
			c.topics.Sub(held)
		})
	}
	c.detach = append(c.detach, detach)
	return detach, nil
}

// Close detaches every map and unregisters the metrics. Close is
// idempotent.
func (c *Collector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, d := range c.detach {
		d()
	}
	c.detach = nil
	for _, m := range c.metrics {
		c.reg.Unregister(m)
	}
}

func (c *Collector) observe(e tm.Event, track func(float64)) {
	c.events.WithLabelValues(string(e.Kind)).Inc()

	switch e.Kind {
	case tm.EventConstructAdded:
		if _, ok := e.New.(*tm.Topic); ok {
			track(1)
		}
	case tm.EventConstructRemoved:
		if _, ok := e.Old.(*tm.Topic); ok {
			track(-1)
		}
	case tm.EventTopicsMerged:
		c.merges.Inc()
	case tm.EventDuplicateRemoved:
		if dup, ok := e.Old.(tm.Construct); ok {
			c.duplicates.WithLabelValues(dup.Kind().String()).Inc()
		}
	}
}
