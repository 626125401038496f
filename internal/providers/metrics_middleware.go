package providers

import (
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// endpointLabel keys request metrics by method and path so that a GET and
// a POST on the same path are counted apart.
func endpointLabel(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// MetricsMiddleware records request counts and latency, logs each request
// under TypeHTTP and turns handler panics into 500 responses.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		endpoint := endpointLabel(r)

		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorf(TypeHTTP, "Panic serving %s: %v", endpoint, rec)
				if !sw.wroteHeader {
					http.Error(sw, "Internal Server Error", http.StatusInternalServerError)
				}
				sw.status = http.StatusInternalServerError
			}
			duration := time.Since(start)
			metrics.IncRequestsTotal(endpoint, sw.status)
			metrics.ObserveRequestDuration(endpoint, duration)
			logger.Debugf(TypeHTTP, "%s -> %d in %s", endpoint, sw.status, duration)
		}()

		next.ServeHTTP(sw, r)
	})
}
