package providers

import (
	"net/http"
	"time"
	"vehlog/internal/structures"
)

// unroutedEndpoint labels every request whose path no route serves.
const unroutedEndpoint = "other"

type recordingWriter struct {
	http.ResponseWriter
	status int
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func endpointLabel(known map[string]struct{}, r *http.Request) string {
	path := r.URL.Path
	if _, ok := known[path]; !ok {
		path = unroutedEndpoint
	}
	return r.Method + " " + path
}

// MetricsMiddleware counts and times every request under a "METHOD path"
// label and logs it to the stream matching its method.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		label := endpointLabel(known, r)
		metrics.IncRequestsTotal(label, rw.status)
		metrics.ObserveRequestDuration(label, elapsed)
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), rw.status, elapsed)
	})
}
