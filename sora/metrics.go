package sora

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments a Client with prometheus counters. Attach via
// Client.WithMetrics; a Client without Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	polls     prometheus.Counter
	downloads *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sora",
			Name:      "client_requests_total",
			Help:      "API requests issued, by operation and HTTP status.",
		}, []string{"operation", "status"}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sora",
			Name:      "client_job_polls_total",
			Help:      "Job status fetches performed by PollUntilTerminal.",
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sora",
			Name:      "client_content_downloads_total",
			Help:      "Generation content downloads, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.requests, m.polls, m.downloads)
	return m
}

func (m *Metrics) observeRequest(operation string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(operation, label).Inc()
}

func (m *Metrics) observePoll() {
	m.polls.Inc()
}

func (m *Metrics) observeDownload(kind ContentKind, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.downloads.WithLabelValues(string(kind), outcome).Inc()
}
