package controllers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestAPIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itdesk",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of request API calls broken down by endpoint and result.",
	}, []string{"endpoint", "result"})

	requestAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "itdesk",
		Subsystem: "api",
		Name:      "latency_seconds",
		Help:      "Latency distribution for request API calls.",
		Buckets: []float64{
			0.001, 0.002, 0.005,
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
			1, 2, 5, 10,
		},
	}, []string{"endpoint", "result"})

	requestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itdesk",
		Subsystem: "lifecycle",
		Name:      "transitions_total",
		Help:      "Completed lifecycle transitions broken down by action and request type.",
	}, []string{"action", "request_type"})
)

type statusRecordingResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusRecordingResponseWriter) WriteHeader(status int) {
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecordingResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (c *RequestAPIController) instrumentAPI(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecordingResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		result := "2xx"
		switch {
		case rec.status >= 500:
			result = "5xx"
		case rec.status >= 400:
			result = "4xx"
		}

		requestAPIRequests.WithLabelValues(endpoint, result).Inc()
		requestAPILatency.WithLabelValues(endpoint, result).Observe(time.Since(start).Seconds())
	}
}
