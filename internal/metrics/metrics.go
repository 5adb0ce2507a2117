// Package metrics exposes Prometheus collectors for the posture monitor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luki/posture/internal/posture"
)

type Metrics struct {
	registry *prometheus.Registry

	linesTotal          prometheus.Counter
	parseErrorsTotal    prometheus.Counter
	emptyWindowsTotal   prometheus.Counter
	windowsTotal        *prometheus.CounterVec
	lastReading         *prometheus.GaugeVec
	notificationsTotal  prometheus.Counter
	notificationsFailed prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		linesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posture_serial_lines_total",
			Help: "Total lines read from the serial device.",
		}),
		parseErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posture_parse_errors_total",
			Help: "Total lines that could not be parsed as a reading.",
		}),
		emptyWindowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posture_empty_windows_total",
			Help: "Total windows that closed without any reading.",
		}),
		windowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posture_windows_total",
			Help: "Closed windows by dominant slouch type.",
		}, []string{"label"}),
		lastReading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "posture_last_reading",
			Help: "Most recent reading per slouch type.",
		}, []string{"label"}),
		notificationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posture_notifications_total",
			Help: "Total posture nudges sent.",
		}),
		notificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posture_notification_failures_total",
			Help: "Total posture nudges that failed to send.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.linesTotal,
		m.parseErrorsTotal,
		m.emptyWindowsTotal,
		m.windowsTotal,
		m.lastReading,
		m.notificationsTotal,
		m.notificationsFailed,
	)

	for _, l := range posture.Labels() {
		m.windowsTotal.WithLabelValues(string(l))
	}

	return m
}

func (m *Metrics) ObserveLine() { m.linesTotal.Inc() }

func (m *Metrics) ObserveParseError() { m.parseErrorsTotal.Inc() }

func (m *Metrics) ObserveEmptyWindow() { m.emptyWindowsTotal.Inc() }

func (m *Metrics) ObserveReading(r posture.Reading) {
	m.lastReading.WithLabelValues(string(r.Label)).Set(r.Value)
}

func (m *Metrics) ObserveWindow(dominant posture.Label) {
	m.windowsTotal.WithLabelValues(string(dominant)).Inc()
}

func (m *Metrics) ObserveNotification(err error) {
	m.notificationsTotal.Inc()
	if err != nil {
		m.notificationsFailed.Inc()
	}
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
