package bootstrap

import (
	infragin "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/api"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/config"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/featured"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/feed"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/metrics"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/normalizer"
)

// SetupHTTPServer wires the feed services into the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	storage *Storage,
	m *metrics.Metrics,
	log infralogger.Logger,
) *infragin.Server {
	assembler := feed.NewAssembler(storage.Index, normalizer.New(), feed.WithMetrics(m))

	opts := []api.Option{api.WithMetrics(m)}
	if storage.Client != nil {
		opts = append(opts, api.WithRedisPing(infraredis.PingFunc(storage.Client)))
	}

	return api.NewRouter(assembler, featured.NewService(), cfg, opts...).NewServer(log)
}
