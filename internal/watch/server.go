package watch

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docgraph/internal/metrics"
)

// MetricsServer serves /metrics for the lifetime of a watch session.
type MetricsServer struct {
	server *http.Server
	ln     net.Listener
}

// NewMetricsServer binds addr and prepares a server for reg.
func NewMetricsServer(addr string, reg *prom.Registry) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	return &MetricsServer{
		server: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second},
		ln:     ln,
	}, nil
}

// Addr is the bound listen address.
func (m *MetricsServer) Addr() string {
	return m.ln.Addr().String()
}

// Serve runs until ctx is canceled, then shuts the server down.
func (m *MetricsServer) Serve(ctx context.Context) {
	go func() {
		if err := m.server.Serve(m.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server error", "error", err)
		}
	}()
	slog.Info("Serving metrics", "addr", m.Addr())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Metrics server shutdown error", "error", err)
	}
}
