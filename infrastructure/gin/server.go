package gin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
)

// Server is a gin engine behind an http.Server with graceful shutdown.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    logger.Logger
	cfg    *Config
}

// NewServer installs recovery, request-id, request logging and CORS
// middleware, in that order, before calling setupRoutes.
func NewServer(cfg *Config, log logger.Logger, setupRoutes func(*gin.Engine)) *Server {
	cfg.SetDefaults()

	mode := gin.ReleaseMode
	if cfg.Debug {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	router := gin.New()
	router.Use(
		RecoveryMiddleware(log),
		RequestIDLoggerMiddleware(log),
		LoggerMiddleware(log),
		CORSMiddleware(cfg.CORS),
	)
	if setupRoutes != nil {
		setupRoutes(router)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		log: log,
		cfg: cfg,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Listen binds the configured port. Port 0 picks a free port.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return ln, nil
}

// Serve blocks serving requests on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("Starting HTTP server",
		logger.String("address", ln.Addr().String()),
		logger.String("service", s.cfg.ServiceName),
		logger.String("version", s.cfg.ServiceVersion),
	)

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests for at most ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server", logger.Duration("timeout", s.cfg.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}

// Run listens on the configured port and serves until SIGINT or SIGTERM
// arrives, ctx is cancelled, or serving fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.RunListener(ctx, ln)
}

// RunListener is Run on an already bound listener.
func (s *Server) RunListener(ctx context.Context, ln net.Listener) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	if ctx.Err() != nil {
		s.log.Info("Context cancelled, shutting down")
	} else {
		s.log.Info("Shutdown signal received")
	}

	//nolint:contextcheck // ctx is already done
	if err := s.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
