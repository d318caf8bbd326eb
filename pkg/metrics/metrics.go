package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the simulator's Prometheus metrics. A nil Collector records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Realizations *prometheus.CounterVec
	Links        *prometheus.CounterVec
	LinkUpdates  *prometheus.CounterVec
	Merges       prometheus.Counter
	SweepPoints  prometheus.Counter
	RunDuration  prometheus.Histogram
}

// NewCollector registers the metrics against reg, defaulting to the global registry when nil
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	realizations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starsim_channel_realizations_total",
		Help: "Channel coefficients drawn, labeled by link role.",
	}, []string{"role"}), "starsim_channel_realizations_total")
	if err != nil {
		return nil, err
	}
	links, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starsim_links_registered_total",
		Help: "Links added to a link collection, labeled by role.",
	}, []string{"role"}), "starsim_links_registered_total")
	if err != nil {
		return nil, err
	}
	updates, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starsim_link_updates_total",
		Help: "Contributions folded into registered links, labeled by role.",
	}, []string{"role"}), "starsim_link_updates_total")
	if err != nil {
		return nil, err
	}
	merges, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "starsim_star_merges_total",
		Help: "STAR-RIS merges performed.",
	}), "starsim_star_merges_total")
	if err != nil {
		return nil, err
	}
	points, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "starsim_sweep_points_total",
		Help: "Transmit power points evaluated.",
	}), "starsim_sweep_points_total")
	if err != nil {
		return nil, err
	}
	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "starsim_run_duration_seconds",
		Help:    "Wall time of a complete simulation run.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}), "starsim_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Realizations: realizations,
		Links:        links,
		LinkUpdates:  updates,
		Merges:       merges,
		SweepPoints:  points,
		RunDuration:  duration,
	}, nil
}

// LinkAdded records a registered link and the coefficients it drew
func (c *Collector) LinkAdded(role string, realizations int) {
	if c == nil {
		return
	}
	c.Links.WithLabelValues(role).Inc()
	c.Realizations.WithLabelValues(role).Add(float64(realizations))
}

func (c *Collector) LinkUpdated(role string) {
	if c == nil {
		return
	}
	c.LinkUpdates.WithLabelValues(role).Inc()
}

func (c *Collector) MergeDone() {
	if c == nil {
		return
	}
	c.Merges.Inc()
}

func (c *Collector) PointEvaluated() {
	if c == nil {
		return
	}
	c.SweepPoints.Inc()
}

func (c *Collector) ObserveRun(seconds float64) {
	if c == nil {
		return
	}
	c.RunDuration.Observe(seconds)
}

// Handler exposes a ready-to-use /metrics handler
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
