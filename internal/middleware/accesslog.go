package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ResponseRecorder captures the status written by downstream handlers.
type ResponseRecorder struct {
	http.ResponseWriter
	Status int
	Bytes  int
	wrote  bool
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *ResponseRecorder) WriteHeader(code int) {
	if r.wrote {
		return
	}
	r.wrote = true
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *ResponseRecorder) Write(p []byte) (int, error) {
	if !r.wrote {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(p)
	r.Bytes += n
	return n, err
}

// Written reports whether anything reached the client.
func (r *ResponseRecorder) Written() bool {
	return r.wrote
}

// AccessLog writes one log line per request once the response is done.
func AccessLog(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := NewResponseRecorder(w)

			next.ServeHTTP(rr, r)

			log.WithFields(logrus.Fields{
				"request_id":  RequestIDFromContext(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rr.Status,
				"bytes":       rr.Bytes,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote":      r.RemoteAddr,
			}).Info("request completed")
		})
	}
}
