package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"algowatch/internal/patterns/metrics"
	"algowatch/internal/patterns/models"
	reportmodels "algowatch/internal/report/models"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/requestcontext"
)

// SharedFactsReader is the cross-owner report read. It returns shared reports
// only.
type SharedFactsReader interface {
	ListSharedFacts(ctx context.Context, placeID string) ([]reportmodels.SharedFacts, error)
}

// Cache stores summaries per place. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, placeID string) (*models.Summary, error)
	Set(ctx context.Context, placeID string, summary *models.Summary) error
	Invalidate(ctx context.Context, placeID string) error
}

// Service aggregates shared reports into counts.
type Service struct {
	reader    SharedFactsReader
	cache     Cache
	group     singleflight.Group
	minSample int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

// loadTimeout bounds a shared store read, which no single caller's
// cancellation can stop.
const loadTimeout = 10 * time.Second

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache serves repeated lookups from c until its entries expire or are
// invalidated.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMinSample withholds counts below n. Zero disables suppression.
func WithMinSample(n int) Option {
	return func(s *Service) {
		s.minSample = n
	}
}

func New(reader SharedFactsReader, opts ...Option) (*Service, error) {
	if reader == nil {
		return nil, errors.New("shared facts reader is required")
	}
	s := &Service{
		reader: reader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.minSample < 0 {
		return nil, errors.New("min sample must not be negative")
	}
	return s, nil
}

// Aggregate counts tags and care settings over shared reports, optionally for
// one place. Concurrent misses for the same place share one store read.
func (s *Service) Aggregate(ctx context.Context, placeID string) (*models.Summary, error) {
	if cached := s.fromCache(ctx, placeID); cached != nil {
		return cached, nil
	}

	ch := s.group.DoChan(placeID, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.load(loadCtx, placeID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeInternal, "failed to load patterns")
	case res = <-ch:
	}
	if res.Err != nil {
		s.logger.ErrorContext(ctx, "failed to aggregate patterns",
			"error", res.Err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(res.Err, dErrors.CodeInternal, "failed to load patterns")
	}
	summary := res.Val.(models.Summary).Clone()
	return &summary, nil
}

func (s *Service) load(ctx context.Context, placeID string) (models.Summary, error) {
	facts, err := s.reader.ListSharedFacts(ctx, placeID)
	if err != nil {
		return models.Summary{}, err
	}
	summary := models.Summarize(facts).Suppress(s.minSample)
	if summary.Suppressed && s.metrics != nil {
		s.metrics.Suppressions.Inc()
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, placeID, &summary); err != nil {
			s.logger.WarnContext(ctx, "failed to cache pattern summary",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary for placeID.
func (s *Service) Invalidate(ctx context.Context, placeID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, placeID)
}

func (s *Service) fromCache(ctx context.Context, placeID string) *models.Summary {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, placeID)
	if err != nil {
		s.logger.WarnContext(ctx, "pattern cache read failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if cached == nil {
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		return nil
	}
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return cached
}
