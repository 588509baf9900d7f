// Package middleware holds HTTP middleware for the alignment server.
package middleware

import (
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request to the standard logger.
func Logger(next http.Handler) http.Handler {
	return RequestLogger(log.Default())(next)
}

// RequestLogger returns middleware that logs method, path, status, size and
// duration of each request to l, prefixed with the chi request ID when set.
func RequestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				reqID := chimiddleware.GetReqID(r.Context())
				if reqID != "" {
					reqID = "[" + reqID + "] "
				}
				l.Printf("%s%s %s %d %dB %s", reqID, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
