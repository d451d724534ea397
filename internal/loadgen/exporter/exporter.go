package exporter

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/loadgen/internal/common/health"
)

const shutdownTimeout = 5 * time.Second

// Exporter serves /metrics and /health on a single listener.
type Exporter struct {
	port     uint16
	server   *http.Server
	listener net.Listener
}

func New(port uint16, gatherer prometheus.Gatherer, checker health.Checker) *Exporter {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	health.SetupHttpMux(mux, checker)
	return &Exporter{
		port:   port,
		server: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}
}

// Start binds the port and serves in the background. Bind failures are returned directly.
func (e *Exporter) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", e.port))
	if err != nil {
		return errors.Wrapf(err, "listening on port %d", e.port)
	}
	e.listener = listener
	go func() {
		log.Infof("Starting http server listening on %s", listener.Addr())
		if err := e.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Http server stopped")
		}
	}()
	return nil
}

// Addr returns the bound address, or an empty string before Start.
func (e *Exporter) Addr() string {
	if e.listener == nil {
		return ""
	}
	return e.listener.Addr().String()
}

func (e *Exporter) Shutdown() {
	if e.listener == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Infof("Stopping http server listening on %s", e.listener.Addr())
	if err := e.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Http server did not shut down cleanly")
	}
}
