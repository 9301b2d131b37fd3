// Package profiling starts optional pprof and Pyroscope profilers.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
)

// Config selects which profilers run.
type Config struct {
	Pprof          bool   `env:"ENABLE_PROFILING"            yaml:"pprof"`
	PprofPort      string `env:"PPROF_PORT"                  yaml:"pprof_port"`
	Continuous     bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"continuous"`
	PyroscopeURL   string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	PyroscopeEnv   string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"pyroscope_environment"`
	ServiceVersion string `yaml:"-"`
}

const pprofReadHeaderTimeout = 5 * time.Second

// StartPprofServer serves /debug/pprof/ on localhost:PprofPort in the
// background when enabled. It uses its own mux so the profiling endpoints
// never leak onto the public router.
func StartPprofServer(cfg Config, log logger.Logger) {
	if !cfg.Pprof {
		return
	}
	port := cfg.PprofPort
	if port == "" {
		port = "6060"
	}
	addr := "localhost:" + port

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: pprofReadHeaderTimeout}

	go func() {
		log.Info("Starting pprof server", logger.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("pprof server stopped", logger.Error(err))
		}
	}()
}
