package feed

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the feed pipeline. One instance is shared by the
// Listener and the Hub.
type Metrics struct {
	subscribers     prometheus.Gauge
	events          *prometheus.CounterVec
	droppedEvents   prometheus.Counter
	invalidPayloads prometheus.Counter
}

// NewMetrics creates and registers the feed metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_subscribers",
			Help: "Number of active feed subscriptions.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_events_total",
			Help: "Total number of document change events received, by operation.",
		}, []string{"op"}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_dropped_events_total",
			Help: "Total number of events dropped because a subscriber's buffer was full.",
		}),
		invalidPayloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_invalid_payloads_total",
			Help: "Total number of notification payloads rejected as malformed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.subscribers, m.events, m.droppedEvents, m.invalidPayloads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
