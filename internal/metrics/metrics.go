package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application counters. A nil *Metrics records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	noteOps          *prometheus.CounterVec
	persist          *prometheus.CounterVec
	externalCalls    *prometheus.CounterVec
	externalDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		noteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiopad_note_operations_total",
				Help: "Total number of dispatched note commands",
			},
			[]string{"op"},
		),
		persist: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiopad_persist_total",
				Help: "Total number of note collection writes to the byte store",
			},
			[]string{"result"},
		),
		externalCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiopad_external_calls_total",
				Help: "Total number of AI and OCR calls",
			},
			[]string{"service", "result"},
		),
		externalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aiopad_external_call_duration_seconds",
				Help:    "AI and OCR call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
	registry.MustRegister(m.noteOps, m.persist, m.externalCalls, m.externalDuration)
	return m
}

// NoteOp counts one dispatched command
func (m *Metrics) NoteOp(op string) {
	if m == nil {
		return
	}
	m.noteOps.WithLabelValues(op).Inc()
}

// Persist counts one store write
func (m *Metrics) Persist(err error) {
	if m == nil {
		return
	}
	m.persist.WithLabelValues(result(err)).Inc()
}

// External records one call to an outside service
func (m *Metrics) External(service string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.externalCalls.WithLabelValues(service, result(err)).Inc()
	m.externalDuration.WithLabelValues(service).Observe(time.Since(started).Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
