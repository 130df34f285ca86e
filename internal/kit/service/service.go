package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"algowatch/internal/audit"
	"algowatch/internal/kit/metrics"
	"algowatch/internal/kit/models"
	"algowatch/internal/phi"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/platform/sentinel"
	"algowatch/pkg/requestcontext"
)

// OwnerStore acts as the caller. Every method takes the acting owner and
// never touches rows owned by anyone else.
type OwnerStore interface {
	CreateKit(ctx context.Context, owner id.UserID, kit *models.Kit) error
	GetKit(ctx context.Context, owner id.UserID, kitID id.KitID) (*models.Kit, error)
	ListKits(ctx context.Context, owner id.UserID) ([]*models.Kit, error)
	DeleteKit(ctx context.Context, owner id.UserID, kitID id.KitID) error
	CreatePublication(ctx context.Context, owner id.UserID, pub *models.Publication) error
	DeletePublication(ctx context.Context, owner id.UserID, kitID id.KitID) (bool, error)
}

// SystemReader reads across owners. It has no write methods.
type SystemReader interface {
	FindKit(ctx context.Context, kitID id.KitID) (*models.Kit, error)
	ListLibrary(ctx context.Context, filter models.LibraryFilter) ([]models.LibraryEntry, error)
}

// AuditPublisher receives lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// DuplicationScope bounds which source kits DuplicateKit may read.
type DuplicationScope string

const (
	// ScopeOwnedOrPublished allows the caller's own kits and published kits.
	ScopeOwnedOrPublished DuplicationScope = "owned_or_published"
	// ScopeAny allows any kit that exists.
	ScopeAny DuplicationScope = "any"
)

const maxLocationBucketLength = 64

// Service manages the kit lifecycle.
type Service struct {
	owner   OwnerStore
	system  SystemReader
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer
	scope   DuplicationScope
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

func WithDuplicationScope(scope DuplicationScope) Option {
	return func(s *Service) {
		s.scope = scope
	}
}

func New(owner OwnerStore, system SystemReader, opts ...Option) (*Service, error) {
	if owner == nil {
		return nil, errors.New("owner store is required")
	}
	if system == nil {
		return nil, errors.New("system reader is required")
	}
	s := &Service{
		owner:  owner,
		system: system,
		logger: slog.Default(),
		tracer: otel.Tracer("algowatch/kit"),
		scope:  ScopeOwnedOrPublished,
	}
	for _, opt := range opts {
		opt(s)
	}
	switch s.scope {
	case ScopeOwnedOrPublished, ScopeAny:
	default:
		return nil, errors.New("unknown duplication scope " + string(s.scope))
	}
	return s, nil
}

// CreateKit stores generated content under owner. Generated text is screened
// here because this is the last point before it is persisted.
func (s *Service) CreateKit(ctx context.Context, owner id.UserID, content models.Content) (*models.Kit, error) {
	ctx, span := s.tracer.Start(ctx, "kit.CreateKit", trace.WithAttributes(
		attribute.String("kit.audience", string(content.Audience)),
		attribute.String("kit.care_setting", string(content.CareSetting)),
	))
	defer span.End()

	if pattern, found := phi.MatchAny(content.FreeText()...); found {
		span.SetAttributes(attribute.String("phi.pattern", string(pattern)))
		s.logger.WarnContext(ctx, "kit rejected at storage boundary",
			"pattern", pattern,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.New(dErrors.CodeValidation, phi.RejectionMessage)
	}

	kit, err := models.NewKit(id.NewKitID(), owner, content, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.owner.CreateKit(ctx, owner, kit); err != nil {
		return nil, s.storeError(ctx, span, "create kit", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementKitsCreated("saved")
	}
	s.emit(ctx, audit.ActionKitCreated, owner, kit.ID, map[string]string{
		"care_setting": string(kit.Content.CareSetting),
	})
	return kit, nil
}

// DuplicateKit copies a kit's content into a new kit owned by caller. The
// source is read through the system handle; the write goes through the
// caller's own handle.
func (s *Service) DuplicateKit(ctx context.Context, caller id.UserID, sourceID id.KitID) (*models.Kit, error) {
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveDuplicate(start)
	}
	ctx, span := s.tracer.Start(ctx, "kit.DuplicateKit", trace.WithAttributes(
		attribute.String("kit.source_id", sourceID.String()),
		attribute.String("kit.duplication_scope", string(s.scope)),
	))
	defer span.End()

	if caller.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Not authenticated")
	}

	source, err := s.system.FindKit(ctx, sourceID)
	if err != nil {
		return nil, s.storeError(ctx, span, "find source kit", err)
	}
	if s.scope == ScopeOwnedOrPublished && source.OwnerID != caller && !source.Published {
		span.SetStatus(codes.Error, "source kit outside duplication scope")
		return nil, dErrors.New(dErrors.CodeNotFound, "Kit not found")
	}

	dup, err := source.DuplicateFor(id.NewKitID(), caller, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.owner.CreateKit(ctx, caller, dup); err != nil {
		return nil, s.storeError(ctx, span, "create duplicate kit", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementKitsCreated("duplicated")
	}
	s.emit(ctx, audit.ActionKitDuplicated, caller, dup.ID, map[string]string{
		"source_kit_id": sourceID.String(),
	})
	return dup, nil
}

// SetPublication publishes or unpublishes a kit the caller owns. Publishing
// an already published kit is a conflict; unpublishing an unpublished kit
// succeeds without change.
func (s *Service) SetPublication(ctx context.Context, caller id.UserID, change models.PublicationChange) error {
	ctx, span := s.tracer.Start(ctx, "kit.SetPublication", trace.WithAttributes(
		attribute.String("kit.id", change.KitID.String()),
		attribute.Bool("kit.share", change.Share),
	))
	defer span.End()

	kit, err := s.owner.GetKit(ctx, caller, change.KitID)
	if err != nil {
		return s.storeError(ctx, span, "get kit", err)
	}

	if !change.Share {
		removed, err := s.owner.DeletePublication(ctx, caller, kit.ID)
		if err != nil {
			return s.storeError(ctx, span, "delete publication", err)
		}
		if removed {
			if s.metrics != nil {
				s.metrics.IncrementPublication("unpublish")
			}
			s.emit(ctx, audit.ActionKitUnpublished, caller, kit.ID, nil)
		}
		return nil
	}

	if len(change.LocationBucket) > maxLocationBucketLength {
		return dErrors.New(dErrors.CodeValidation, "location bucket is too long")
	}
	if phi.ContainsSensitiveInfo(change.DisplayName) || phi.ContainsSensitiveInfo(change.LocationBucket) {
		return dErrors.New(dErrors.CodeValidation, phi.RejectionMessage)
	}

	mode := change.DisplayMode
	if mode == "" {
		mode = models.DisplayAnonymous
	}
	pub := models.NewPublication(id.NewPublicationID(), kit, mode, change.DisplayName, change.LocationBucket, requestcontext.Now(ctx))
	if err := s.owner.CreatePublication(ctx, caller, pub); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			span.SetStatus(codes.Error, "already published")
			return dErrors.New(dErrors.CodeConflict, "kit is already published")
		}
		return s.storeError(ctx, span, "create publication", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementPublication("publish")
	}
	s.emit(ctx, audit.ActionKitPublished, caller, kit.ID, map[string]string{
		"display_mode": string(mode),
		"care_setting": string(pub.CareSetting),
	})
	return nil
}

func (s *Service) GetKit(ctx context.Context, caller id.UserID, kitID id.KitID) (*models.Kit, error) {
	kit, err := s.owner.GetKit(ctx, caller, kitID)
	if err != nil {
		return nil, s.storeError(ctx, nil, "get kit", err)
	}
	return kit, nil
}

func (s *Service) ListKits(ctx context.Context, caller id.UserID) ([]*models.Kit, error) {
	kits, err := s.owner.ListKits(ctx, caller)
	if err != nil {
		return nil, s.storeError(ctx, nil, "list kits", err)
	}
	return kits, nil
}

// DeleteKit removes a kit the caller owns together with its publication.
func (s *Service) DeleteKit(ctx context.Context, caller id.UserID, kitID id.KitID) error {
	if err := s.owner.DeleteKit(ctx, caller, kitID); err != nil {
		return s.storeError(ctx, nil, "delete kit", err)
	}
	s.emit(ctx, audit.ActionKitDeleted, caller, kitID, nil)
	return nil
}

// Library lists every published kit, newest first.
func (s *Service) Library(ctx context.Context, filter models.LibraryFilter) ([]models.LibraryEntry, error) {
	entries, err := s.system.ListLibrary(ctx, filter)
	if err != nil {
		return nil, s.storeError(ctx, nil, "list library", err)
	}
	return entries, nil
}

// storeError translates store sentinels into domain errors.
func (s *Service) storeError(ctx context.Context, span trace.Span, op string, err error) error {
	if span != nil {
		span.SetStatus(codes.Error, op)
		span.RecordError(err)
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Kit not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "kit already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		s.logger.ErrorContext(ctx, "kit store unavailable", "op", op, "error", err,
			"request_id", requestcontext.RequestID(ctx))
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "service temporarily unavailable")
	default:
		s.logger.ErrorContext(ctx, "kit store failed", "op", op, "error", err,
			"request_id", requestcontext.RequestID(ctx))
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
	}
}

func (s *Service) emit(ctx context.Context, action audit.Action, user id.UserID, kitID id.KitID, attrs map[string]string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Action:       action,
		UserID:       user.String(),
		ResourceType: "kit",
		ResourceID:   kitID.String(),
		Attributes:   attrs,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
