package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	defaultReadTimeout       = time.Minute
	defaultReadHeaderTimeout = time.Minute
	defaultPort              = 9100
	defaultPath              = "/metrics"
)

var (
	ErrMetricsDisabled   = errors.New("metrics server is disabled")
	ErrMetricsRunning    = errors.New("metrics server is already running")
	ErrMetricsNotRunning = errors.New("metrics server is not running")
)

// Server serves a private prometheus registry over http.
type Server struct {
	mu                    sync.Mutex
	srv                   *http.Server
	reg                   *prometheus.Registry
	log                   zerolog.Logger
	enabled               bool
	host                  string
	port                  int
	path                  string
	isRunning             bool
	httpReadTimeout       time.Duration
	httpReadHeaderTimeout time.Duration
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		enabled:               true,
		log:                   zerolog.Nop(),
		reg:                   prometheus.NewRegistry(),
		port:                  defaultPort,
		path:                  defaultPath,
		httpReadTimeout:       defaultReadTimeout,
		httpReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Path() string {
	if s.path == "" {
		return defaultPath
	}
	return s.path
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, fmt.Sprint(s.port))
}

// Start listens on the configured address and serves in the background. Listen errors are returned; errors
// while serving are logged.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return ErrMetricsDisabled
	}
	if s.isRunning {
		return ErrMetricsRunning
	}

	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}

	mux := http.NewServeMux()
	mux.Handle(s.Path(), promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{ErrorLog: &errorLogger{log: s.log}}))
	s.srv = &http.Server{
		Handler:           mux,
		ReadTimeout:       s.httpReadTimeout,
		ReadHeaderTimeout: s.httpReadHeaderTimeout,
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("path", s.Path()).
		Msg("starting metrics server")

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("metrics server stopped")
		}
	}(s.srv)

	s.isRunning = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return ErrMetricsDisabled
	}
	if s.srv == nil || !s.isRunning {
		return ErrMetricsNotRunning
	}
	if err := s.srv.Close(); err != nil {
		return err
	}
	s.isRunning = false
	return nil
}

func (s *Server) Registry() *prometheus.Registry {
	return s.reg
}

func (s *Server) Register(instrumentation *Instrumentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range instrumentation.Collectors() {
		if err := s.reg.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

// StartMetricsServer registers instrumentation on a server built from config, publishes version and starts serving.
// The returned server is nil when it could not be started.
func StartMetricsServer(config Config, instrumentation *Instrumentation, logger zerolog.Logger, version string) (*Server, error) {
	metricsSvr := NewServer(WithLogger(logger), WithConfig(config))
	if err := metricsSvr.Register(instrumentation); err != nil {
		logger.Err(err).Msg("failed to start metrics server")
		return nil, err
	}

	if g, ok := instrumentation.GaugeVecs[InstrumentationTypeVersion]; ok {
		g.With(prometheus.Labels{"version": version}).Set(1)
	}
	if err := metricsSvr.Start(); err != nil {
		logger.Err(err).Msg("failed to start metrics server")
		return nil, err
	}
	return metricsSvr, nil
}

type errorLogger struct {
	log zerolog.Logger
}

func (l *errorLogger) Println(v ...interface{}) {
	l.log.Error().Msg(fmt.Sprint(v...))
}
