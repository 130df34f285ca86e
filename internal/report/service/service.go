package service

import (
	"context"
	"errors"
	"log/slog"

	"algowatch/internal/audit"
	"algowatch/internal/phi"
	"algowatch/internal/report/metrics"
	"algowatch/internal/report/models"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/platform/sentinel"
	"algowatch/pkg/requestcontext"
)

// OwnerStore acts as the caller.
type OwnerStore interface {
	CreateReport(ctx context.Context, owner id.UserID, report *models.Report) error
	ListReports(ctx context.Context, owner id.UserID) ([]*models.Report, error)
}

// AuditPublisher receives report events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CacheInvalidator is told when shared facts for a place change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, placeID string) error
}

// Service accepts disclosure reports.
type Service struct {
	store       OwnerStore
	logger      *slog.Logger
	metrics     *metrics.Metrics
	auditor     AuditPublisher
	invalidator CacheInvalidator
}

type Option func(*Service)

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

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

// WithCacheInvalidator drops cached pattern summaries when a shared report
// lands.
func WithCacheInvalidator(invalidator CacheInvalidator) Option {
	return func(s *Service) {
		s.invalidator = invalidator
	}
}

func New(store OwnerStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("report store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateReport is the authoritative checkpoint: the text rules run again here
// regardless of what the transport already checked.
func (s *Service) CreateReport(ctx context.Context, owner id.UserID, draft models.Draft) (*models.Report, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Not authenticated")
	}

	report, err := models.NewReport(id.NewReportID(), owner, draft, requestcontext.Now(ctx))
	if err != nil {
		s.rejected(ctx, draft, err)
		return nil, err
	}

	if err := s.store.CreateReport(ctx, owner, report); err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "service temporarily unavailable")
		}
		s.logger.ErrorContext(ctx, "failed to store report",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create report")
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated(string(report.Visibility))
	}
	if report.Visibility.IsShared() && s.invalidator != nil {
		s.invalidate(ctx, report.PlaceID)
	}
	s.emit(ctx, owner, report)
	return report, nil
}

// ListMine returns the caller's reports, newest first.
func (s *Service) ListMine(ctx context.Context, owner id.UserID) ([]*models.Report, error) {
	reports, err := s.store.ListReports(ctx, owner)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list reports",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return reports, nil
}

func (s *Service) rejected(ctx context.Context, draft models.Draft, err error) {
	reason := "invalid"
	switch {
	case phi.ContainsSensitiveInfo(draft.ShortText):
		reason = "phi"
	case dErrors.HasCode(err, dErrors.CodeValidation) && len([]rune(draft.ShortText)) > models.MaxShortTextLength:
		reason = "too_long"
	}
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
	s.logger.InfoContext(ctx, "report rejected",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
}

// invalidate drops both the place summary and the global summary.
func (s *Service) invalidate(ctx context.Context, placeID string) {
	places := []string{""}
	if placeID != "" {
		places = append(places, placeID)
	}
	for _, p := range places {
		if err := s.invalidator.Invalidate(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate pattern cache",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

func (s *Service) emit(ctx context.Context, owner id.UserID, report *models.Report) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:       audit.ActionReportCreated,
		UserID:       owner.String(),
		ResourceType: "report",
		ResourceID:   report.ID.String(),
		Attributes: map[string]string{
			"visibility":   string(report.Visibility),
			"care_setting": string(report.CareSetting),
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", audit.ActionReportCreated,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
