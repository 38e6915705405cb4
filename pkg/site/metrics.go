package site

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline outcomes. The noop implementation keeps tests
// and bare setups free of a registry.
type Metrics interface {
	IncIngest(result string)
	IncServe(outcome string)
	AddReclaimed(n int)
}

// NoopMetrics implements Metrics without emitting anything.
type NoopMetrics struct{}

func (NoopMetrics) IncIngest(string) {}
func (NoopMetrics) IncServe(string)  {}
func (NoopMetrics) AddReclaimed(int) {}

// PromMetrics implements Metrics backed by Prometheus counters.
type PromMetrics struct {
	ingests   *prometheus.CounterVec
	serves    *prometheus.CounterVec
	reclaimed prometheus.Counter
	once      sync.Once
}

func NewPromMetrics(namespace string) *PromMetrics {
	p := &PromMetrics{
		ingests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingests_total",
			Help:      "Archive ingestions by result",
		}, []string{"result"}),
		serves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serves_total",
			Help:      "Preview requests by outcome",
		}, []string{"outcome"}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reclaimed_total",
			Help:      "Projects transitioned to expired by the reclamation pass",
		}),
	}
	p.register()
	return p
}

func (p *PromMetrics) register() {
	p.once.Do(func() {
		prometheus.MustRegister(p.ingests, p.serves, p.reclaimed)
	})
}

func (p *PromMetrics) IncIngest(result string) {
	p.ingests.WithLabelValues(result).Inc()
}

func (p *PromMetrics) IncServe(outcome string) {
	p.serves.WithLabelValues(outcome).Inc()
}

func (p *PromMetrics) AddReclaimed(n int) {
	p.reclaimed.Add(float64(n))
}
