package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"algowatch/internal/generation/metrics"
	"algowatch/internal/generation/models"
	"algowatch/internal/phi"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/requestcontext"
)

// Provider performs one structured completion. It must force a call to
// prompt.ToolName and return that call's raw JSON arguments. Non-2xx
// responses are reported as *models.StatusError and a response without the
// call as models.ErrNoToolCall.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt models.Prompt) ([]byte, error)
}

// failures maps each kind to its client-facing error.
var failures = map[models.Kind]struct {
	code    dErrors.Code
	message string
}{
	models.KindUnavailable:    {dErrors.CodeUnavailable, "AI generation is not configured"},
	models.KindRateLimited:    {dErrors.CodeRateLimited, "Rate limit exceeded. Please try again later."},
	models.KindQuotaExhausted: {dErrors.CodeQuotaExhausted, "AI credits exhausted. Please add credits."},
	models.KindFailed:         {dErrors.CodeUpstream, "AI generation failed"},
}

// Service orchestrates kit generation against a completion provider.
type Service struct {
	provider     Provider
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	screenOutput bool
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

// WithOutputScreening runs generated text through the PHI filter and turns a
// match into a generation failure.
func WithOutputScreening(enabled bool) Option {
	return func(s *Service) {
		s.screenOutput = enabled
	}
}

// New constructs a Service. A nil provider means no credential is configured;
// every call then fails with KindUnavailable.
func New(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   slog.Default(),
		tracer:   otel.Tracer("algowatch/generation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateKit makes exactly one provider call and returns its structured
// payload. There is no retry.
func (s *Service) GenerateKit(ctx context.Context, req models.Request) (*models.Result, error) {
	start := time.Now()
	if s.metrics != nil {
		defer s.metrics.ObserveGenerate(start)
	}

	ctx, span := s.tracer.Start(ctx, "generation.GenerateKit", trace.WithAttributes(
		attribute.String("kit.audience", string(req.Audience)),
		attribute.String("kit.tone", string(req.Tone)),
		attribute.String("kit.care_setting", string(req.CareSetting)),
		attribute.Int("kit.tag_count", len(req.Tags)),
	))
	defer span.End()

	if s.provider == nil {
		return nil, s.fail(ctx, span, models.KindUnavailable, errors.New("no provider credential configured"))
	}
	span.SetAttributes(attribute.String("generation.provider", s.provider.Name()))

	raw, err := s.provider.Complete(ctx, BuildPrompt(req))
	if err != nil {
		var statusErr *models.StatusError
		if errors.As(err, &statusErr) {
			s.logger.ErrorContext(ctx, "generation provider returned error status",
				"provider", statusErr.Provider,
				"status", statusErr.StatusCode,
				"body", statusErr.Body,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, s.fail(ctx, span, models.KindForStatus(statusErr.StatusCode), err)
		}
		return nil, s.fail(ctx, span, models.KindFailed, err)
	}

	var result models.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, s.fail(ctx, span, models.KindFailed, err)
	}
	if err := result.Complete(); err != nil {
		return nil, s.fail(ctx, span, models.KindFailed, err)
	}

	if s.screenOutput {
		if pattern, found := screen(&result); found {
			return nil, s.fail(ctx, span, models.KindFailed, errors.New("generated text matched PHI pattern "+string(pattern)))
		}
	}

	if s.metrics != nil {
		s.metrics.IncrementOutcome("success")
	}
	return &result, nil
}

func screen(result *models.Result) (phi.Pattern, bool) {
	return phi.MatchAny(append([]string{result.Letter, result.Explainer}, result.Checklist.Texts()...)...)
}

func (s *Service) fail(ctx context.Context, span trace.Span, kind models.Kind, cause error) error {
	span.SetStatus(codes.Error, string(kind))
	span.RecordError(cause)
	if s.metrics != nil {
		s.metrics.IncrementOutcome(string(kind))
	}
	s.logger.WarnContext(ctx, "kit generation failed",
		"kind", kind,
		"error", cause,
		"request_id", requestcontext.RequestID(ctx),
	)
	f := failures[kind]
	return dErrors.Wrap(&models.FailureError{Kind: kind, Err: cause}, f.code, f.message)
}
