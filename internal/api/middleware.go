package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quietfall/slotbooker/internal/instrumentation"
	"github.com/quietfall/slotbooker/internal/logging"
)

type ctxKey int

const ctxKeyRequestID ctxKey = iota

// RequestIDHeader carries the request identifier on both request and
// response.
const RequestIDHeader = "X-Request-Id"

// RequestIDFromContext returns the request identifier, or "" when the
// RequestID middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// RequestID assigns every request an identifier. A caller-supplied
// X-Request-Id is honored so identifiers survive proxies; otherwise a
// fresh UUID is generated. The identifier is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusCapturingResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusCapturingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusCapturingResponseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

// AccessLog logs one line per request with the captured status and
// timing.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusCapturingResponseWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			logger.Info("http request",
				slog.String(logging.KeyRequestID, RequestIDFromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int64("bytes", sw.bytes),
				slog.Duration(logging.KeyDuration, time.Since(start)),
			)
		})
	}
}

// Instrument records request count, duration and in-flight gauge. All
// routes are static paths, so the path label stays low-cardinality.
func Instrument(metrics *instrumentation.Metrics) func(http.Handler) http.Handler {
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			metrics.AddInFlightRequest(ctx)
			defer metrics.RemoveInFlightRequest(ctx)

			sw := &statusCapturingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			metrics.RecordHTTPRequest(ctx, r.Method, r.URL.Path, sw.status, time.Since(start))
		})
	}
}
