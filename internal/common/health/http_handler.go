package health

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// HttpHandler answers 204 while checker is healthy and 503 with one failure reason per line otherwise. Only
// transitions between healthy and unhealthy are logged, so a scraper polling a failing endpoint does not flood
// the log.
type HttpHandler struct {
	checker Checker
	healthy *atomic.Bool
}

func NewHttpHandler(checker Checker) *HttpHandler {
	return &HttpHandler{
		checker: checker,
		healthy: atomic.NewBool(true),
	}
}

func (h *HttpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h.checker.Check()
	if err == nil {
		if !h.healthy.Swap(true) {
			log.Info("Health check recovered")
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	reasons := strings.Split(err.Error(), "\n")
	if h.healthy.Swap(false) {
		log.WithField("reasons", len(reasons)).Warnf("Health check failed: %s", strings.Join(reasons, "; "))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	if _, err := w.Write([]byte(strings.Join(reasons, "\n") + "\n")); err != nil {
		log.WithError(err).Debug("Failed to write health check response")
	}
}

// SetupHttpMux serves checker on /health.
func SetupHttpMux(mux *http.ServeMux, checker Checker) {
	mux.Handle("/health", NewHttpHandler(checker))
}
