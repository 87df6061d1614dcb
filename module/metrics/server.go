package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	metricsprom "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/ledgerexec/ledgerexec/module"
)

const metricsPath = "/metrics"

// Server is the http server that will be serving the /metrics request for prometheus
type Server struct {
	server *http.Server
	log    zerolog.Logger
}

// NewHTTPCollector records the requests of the metrics server under registerer.
func NewHTTPCollector(registerer prometheus.Registerer) module.MetricsServerMetrics {
	return metricsprom.NewRecorder(metricsprom.Config{
		Prefix:   namespaceClient,
		Registry: registerer,
	})
}

// NewHandler serves the metrics of gatherer on `/metrics`. Requests are recorded by
// recorder unless it is nil.
func NewHandler(gatherer prometheus.Gatherer, recorder module.MetricsServerMetrics) http.Handler {
	var handler http.Handler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	if recorder != nil {
		mdlw := middleware.New(middleware.Config{Recorder: recorder})
		handler = std.Handler(metricsPath, mdlw, handler)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)
	return mux
}

// NewServer creates a new server that will listen on the specified port and respond to
// only the `/metrics` endpoint, serving the metrics of gatherer. A nil recorder leaves
// the scrapes themselves unrecorded.
func NewServer(log zerolog.Logger, port uint, gatherer prometheus.Gatherer, recorder module.MetricsServerMetrics) *Server {
	addr := ":" + strconv.Itoa(int(port))

	return &Server{
		server: &http.Server{Addr: addr, Handler: NewHandler(gatherer, recorder), ReadHeaderTimeout: 5 * time.Second},
		log:    log.With().Str("component", "metrics_server").Logger(),
	}
}

// Start binds the listener and serves in the background until Shutdown is called. Bind
// errors are returned directly.
func (m *Server) Start() error {
	listener, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return err
	}
	m.log.Info().Str("address", listener.Addr().String()).Msg("metrics server started")

	go func() {
		err := m.server.Serve(listener)
		// http.ErrServerClosed is returned when Close or Shutdown is called
		// we don't consider this an error, so print this with debug level instead
		if errors.Is(err, http.ErrServerClosed) {
			m.log.Debug().Err(err).Msg("metrics server shutdown")
		} else if err != nil {
			m.log.Err(err).Msg("error serving metrics")
		}
	}()
	return nil
}

// Shutdown stops the server, waiting at most 5 seconds for in-flight scrapes.
func (m *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.server.Shutdown(ctx)
}
