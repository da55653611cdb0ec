// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BindingProbeDuration tracks how long the embedded-database binding probe takes.
	BindingProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chromad_binding_probe_duration_seconds",
		Help:    "Duration of the embedded-database binding probe",
		Buckets: prometheus.ExponentialBuckets(0.05, 2.0, 10), // 50ms to ~25s
	}, []string{"result"})

	// ServerStarts counts server process starts.
	ServerStarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chromad_server_starts_total",
		Help: "Total Chroma server process starts",
	})

	// ServerExits counts server process exits by result.
	ServerExits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chromad_server_exits_total",
		Help: "Total Chroma server process exits",
	}, []string{"result"})

	// ServerRestarts counts restarts performed by the supervisor.
	ServerRestarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chromad_server_restarts_total",
		Help: "Total Chroma server restarts after an unexpected exit",
	})

	// ServerUp is 1 while a supervised server process is running.
	ServerUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chromad_server_up",
		Help: "Whether the supervised Chroma server process is running",
	})

	// ProcTerminate counts termination signals sent to the server process group.
	ProcTerminate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chromad_proc_terminate_total",
		Help: "Termination signals sent to the server process group",
	}, []string{"signal", "result"})

	// ProcWait counts how terminated processes finished.
	ProcWait = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chromad_proc_wait_total",
		Help: "Outcome of waiting for a terminated server process",
	}, []string{"result"})
)

// ObserveBindingProbe records a probe duration in seconds.
func ObserveBindingProbe(result string, seconds float64) {
	BindingProbeDuration.WithLabelValues(result).Observe(seconds)
}

// IncServerExit records a server exit; result is "clean", "error" or "signaled".
func IncServerExit(result string) {
	ServerExits.WithLabelValues(result).Inc()
}

// IncProcTerminate records a termination signal attempt.
func IncProcTerminate(signal, result string) {
	ProcTerminate.WithLabelValues(signal, result).Inc()
}

// IncProcWait records the wait outcome after termination.
func IncProcWait(result string) {
	ProcWait.WithLabelValues(result).Inc()
}
