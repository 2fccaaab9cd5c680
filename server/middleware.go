package server

import (
	"net/http"
	"time"

	"trackview/utils"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		utils.L().Debug("endpoint: %s, method: %s, status: %d, took: %s",
			r.URL.Path, r.Method, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
