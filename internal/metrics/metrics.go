// Package metrics exposes node counters to Prometheus.
package metrics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the node's collectors, registered on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	Calls         *prometheus.CounterVec
	CallDuration  *prometheus.HistogramVec
	EpochsCycled  prometheus.Counter
	CurrentEpoch  prometheus.Gauge
	RewardsPaid   *prometheus.CounterVec
	SessionsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Name:      "calls_total",
			Help:      "Invocations by target, method and result.",
		}, []string{"target", "method", "result"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "arena",
			Name:      "call_duration_seconds",
			Help:      "Invocation latency including the ledger commit.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"target"}),
		EpochsCycled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Name:      "epochs_cycled_total",
			Help:      "Epochs finalized.",
		}),
		CurrentEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Name:      "current_epoch",
			Help:      "Id of the active epoch.",
		}),
		RewardsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Name:      "rewards_paid_units_total",
			Help:      "Reward token units deposited for claimants.",
		}, []string{"kind"}),
		SessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Name:      "sessions_total",
			Help:      "Game sessions by transition.",
		}, []string{"transition"}),
	}
	m.Registry.MustRegister(m.Calls, m.CallDuration, m.EpochsCycled, m.CurrentEpoch, m.RewardsPaid, m.SessionsTotal)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

type event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// ObserveEvents updates the domain counters from the events a committed
// invocation logged. Lines that are not arena events are ignored.
func (m *Metrics) ObserveEvents(logs []string) {
	for _, line := range logs {
		var ev event
		if json.Unmarshal([]byte(line), &ev) != nil {
			continue
		}
		switch ev.Type {
		case "gameStarted":
			m.SessionsTotal.WithLabelValues("started").Inc()
		case "gameEnded":
			m.SessionsTotal.WithLabelValues("ended").Inc()
		case "epochCycled":
			m.EpochsCycled.Inc()
			if next, err := strconv.ParseUint(ev.Attributes["next"], 10, 64); err == nil {
				m.CurrentEpoch.Set(float64(next))
			}
		case "rewardClaimed":
			m.addReward("player", ev.Attributes["amount"])
		case "devRewardClaimed":
			m.addReward("developer", ev.Attributes["amount"])
		}
	}
}

func (m *Metrics) addReward(kind, amount string) {
	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || n <= 0 {
		return
	}
	m.RewardsPaid.WithLabelValues(kind).Add(float64(n))
}
