package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
)

// PyroscopeProfiler wraps a running Pyroscope session. A nil
// *PyroscopeProfiler is valid and Stop is a no-op on it.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling when cfg.Continuous is set.
// It returns (nil, nil) when disabled.
func StartPyroscope(serviceName string, cfg Config, log logger.Logger) (*PyroscopeProfiler, error) {
	if !cfg.Continuous {
		return nil, nil
	}

	serverURL := cfg.PyroscopeURL
	if serverURL == "" {
		serverURL = "http://pyroscope:4040"
	}
	environment := cfg.PyroscopeEnv
	if environment == "" {
		environment = "development"
	}
	version := cfg.ServiceVersion
	if version == "" {
		version = "unknown"
	}

	appName := serviceName
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   serverURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("application", appName),
		logger.String("server", serverURL),
		logger.String("environment", environment),
	)
	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
