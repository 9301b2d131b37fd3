// Package feed assembles the news feed from the PathIndex.
package feed

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/domain"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/metrics"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/normalizer"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/store"
)

// ErrEmptyStore is returned when the PathIndex is absent or empty.
var ErrEmptyStore = errors.New("no articles found in datastore")

// Normalizer converts one article file into a normalized record.
type Normalizer interface {
	Normalize(path string) (domain.NormalizedArticle, error)
}

// Assembler builds feeds from an IndexStore.
type Assembler struct {
	store      store.IndexStore
	normalizer Normalizer
	key        string
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithMetrics records skips and assembly outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// WithKey overrides the index key. Defaults to store.PathIndexKey.
func WithKey(key string) Option {
	return func(a *Assembler) { a.key = key }
}

// NewAssembler creates an Assembler.
func NewAssembler(s store.IndexStore, n Normalizer, opts ...Option) *Assembler {
	a := &Assembler{
		store:      s,
		normalizer: n,
		key:        store.PathIndexKey,
		tracer:     otel.Tracer("newsfeed/feed"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble reads the PathIndex and normalizes every listed file in order.
// Missing files are skipped; any other failure aborts the assembly.
func (a *Assembler) Assemble(ctx context.Context) (*domain.Feed, error) {
	ctx, span := a.tracer.Start(ctx, "feed.Assemble")
	defer span.End()

	start := time.Now()
	f, err := a.assemble(ctx, span)

	switch {
	case errors.Is(err, ErrEmptyStore):
		a.metrics.ObserveFeed(metrics.OutcomeEmpty, 0, time.Since(start))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.metrics.ObserveFeed(metrics.OutcomeError, 0, time.Since(start))
	default:
		a.metrics.ObserveFeed(metrics.OutcomeOK, len(f.Articles), time.Since(start))
	}
	return f, err
}

func (a *Assembler) assemble(ctx context.Context, span trace.Span) (*domain.Feed, error) {
	paths, err := a.store.GetPaths(ctx, a.key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, ErrEmptyStore
	}
	if err != nil {
		return nil, fmt.Errorf("read path index: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrEmptyStore
	}
	span.SetAttributes(attribute.Int("feed.paths", len(paths)))

	f := &domain.Feed{Articles: make([]domain.NormalizedArticle, 0, len(paths))}
	for article, err := range a.Articles(ctx, paths) {
		if err != nil {
			return nil, err
		}
		f.Articles = append(f.Articles, article)
	}
	f.Skipped = len(paths) - len(f.Articles)

	span.SetAttributes(
		attribute.Int("feed.articles", len(f.Articles)),
		attribute.Int("feed.skipped", f.Skipped),
	)
	return f, nil
}

// Articles lazily normalizes paths in order. Files that no longer exist
// are logged and skipped. The first other error is yielded and ends the
// sequence, as does cancellation of ctx.
func (a *Assembler) Articles(ctx context.Context, paths []string) iter.Seq2[domain.NormalizedArticle, error] {
	return func(yield func(domain.NormalizedArticle, error) bool) {
		log := logger.FromContext(ctx)

		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				yield(domain.NormalizedArticle{}, err)
				return
			}

			article, err := a.normalizer.Normalize(path)
			if errors.Is(err, normalizer.ErrNotFound) {
				log.Warn("Skipping missing article file", logger.String("path", path))
				a.metrics.ObserveSkip()
				continue
			}
			if err != nil {
				yield(domain.NormalizedArticle{}, err)
				return
			}
			if !yield(article, nil) {
				return
			}
		}
	}
}
