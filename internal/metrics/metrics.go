package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	SearchDuration    *prometheus.HistogramVec
	SearchesInFlight  prometheus.Gauge
	PollsTotal        *prometheus.CounterVec
	CacheHitsTotal    prometheus.Counter
	CacheMissesTotal  prometheus.Counter
	HotelRequestsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith регистрирует метрики в переданном Registerer.
// В тестах сюда передаётся prometheus.NewRegistry().
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hottours_searches_total",
				Help: "Total number of price searches by terminal status",
			},
			[]string{"status"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hottours_search_duration_seconds",
				Help:    "Time from search start to a terminal status",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"status"},
		),
		SearchesInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hottours_searches_in_flight",
				Help: "Number of price searches currently active",
			},
		),
		PollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hottours_polls_total",
				Help: "Total number of poll attempts by outcome",
			},
			[]string{"result"},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hottours_cache_hits_total",
				Help: "Total number of result cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hottours_cache_misses_total",
				Help: "Total number of result cache misses",
			},
		),
		HotelRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hottours_hotel_requests_total",
				Help: "Total number of hotel table fetches by status",
			},
			[]string{"status"},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordSearch(status string, duration time.Duration) {
	m.SearchesTotal.WithLabelValues(status).Inc()
	m.SearchDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) RecordPoll(result string) {
	m.PollsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordHotelRequest(status string) {
	m.HotelRequestsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncSearchesInFlight() {
	m.SearchesInFlight.Inc()
}

func (m *Metrics) DecSearchesInFlight() {
	m.SearchesInFlight.Dec()
}
