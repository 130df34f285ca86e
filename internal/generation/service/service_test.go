package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"algowatch/internal/generation/metrics"
	"algowatch/internal/generation/models"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
)

type fakeProvider struct {
	raw     []byte
	err     error
	calls   int
	prompts []models.Prompt
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, prompt models.Prompt) ([]byte, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.raw, f.err
}

const validPayload = `{"letter":"Dear compliance team,","checklist":[{"section":"Before","items":["Gather notices","Request the policy"]}],"explainer":"Risk scores estimate future cost."}`

type GenerationServiceSuite struct {
	suite.Suite
	ctx     context.Context
	logger  *slog.Logger
	metrics *metrics.Metrics
	req     models.Request
}

func TestGenerationServiceSuite(t *testing.T) {
	suite.Run(t, new(GenerationServiceSuite))
}

func (s *GenerationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.req = models.Request{
		Tags:        []id.SituationTag{id.TagDeniedService, id.TagRiskScoreUsed},
		Audience:    id.AudienceHospitalCompliance,
		Tone:        id.ToneFirm,
		Role:        id.RoleCaregiver,
		CareSetting: id.CareSettingHospitalDischarge,
	}
}

func (s *GenerationServiceSuite) newService(p Provider, opts ...Option) *Service {
	opts = append([]Option{WithLogger(s.logger), WithMetrics(s.metrics)}, opts...)
	return New(p, opts...)
}

func (s *GenerationServiceSuite) TestSuccessReturnsPayloadVerbatim() {
	provider := &fakeProvider{raw: []byte(validPayload)}
	result, err := s.newService(provider).GenerateKit(s.ctx, s.req)

	s.Require().NoError(err)
	s.Equal("Dear compliance team,", result.Letter)
	s.Equal(id.Checklist{{Section: "Before", Items: []string{"Gather notices", "Request the policy"}}}, result.Checklist)
	s.Equal("Risk scores estimate future cost.", result.Explainer)
	s.Equal(1, provider.calls)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Requests.WithLabelValues("success")))
}

func (s *GenerationServiceSuite) TestFailureClassification() {
	tests := []struct {
		name     string
		provider Provider
		kind     models.Kind
		code     dErrors.Code
		status   int
	}{
		{"missing credential", nil, models.KindUnavailable, dErrors.CodeUnavailable, http.StatusServiceUnavailable},
		{"provider throttles", &fakeProvider{err: &models.StatusError{Provider: "fake", StatusCode: 429}}, models.KindRateLimited, dErrors.CodeRateLimited, http.StatusTooManyRequests},
		{"billing exhausted", &fakeProvider{err: &models.StatusError{Provider: "fake", StatusCode: 402}}, models.KindQuotaExhausted, dErrors.CodeQuotaExhausted, http.StatusPaymentRequired},
		{"other status", &fakeProvider{err: &models.StatusError{Provider: "fake", StatusCode: 500}}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"no tool call", &fakeProvider{err: models.ErrNoToolCall}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"transport error", &fakeProvider{err: errors.New("connection reset")}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"malformed arguments", &fakeProvider{raw: []byte(`{"letter":`)}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"null arguments", &fakeProvider{raw: []byte(`null`)}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"empty arguments", &fakeProvider{raw: []byte(`{}`)}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"letter only", &fakeProvider{raw: []byte(`{"letter":"x"}`)}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"empty checklist", &fakeProvider{raw: []byte(`{"letter":"x","checklist":[],"explainer":"y"}`)}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
		{"unnamed section", &fakeProvider{raw: []byte(`{"letter":"x","checklist":[{"section":" ","items":["a"]}],"explainer":"y"}`)}, models.KindFailed, dErrors.CodeUpstream, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			result, err := s.newService(tt.provider).GenerateKit(s.ctx, s.req)
			s.Nil(result)
			s.Require().Error(err)
			s.Equal(tt.kind, models.KindOf(err))
			s.True(dErrors.HasCode(err, tt.code))
			s.Equal(tt.status, dErrors.ToHTTPStatus(tt.code))
		})
	}
}

func (s *GenerationServiceSuite) TestNoRetryOnFailure() {
	provider := &fakeProvider{err: &models.StatusError{Provider: "fake", StatusCode: 503}}
	_, err := s.newService(provider).GenerateKit(s.ctx, s.req)
	s.Error(err)
	s.Equal(1, provider.calls)
}

func (s *GenerationServiceSuite) TestOutputScreening() {
	leaky := `{"letter":"Call me at 555-123-4567","checklist":[{"section":"Steps","items":["Ask for the policy"]}],"explainer":"ok"}`

	s.Run("disabled by default passes text through", func() {
		result, err := s.newService(&fakeProvider{raw: []byte(leaky)}).GenerateKit(s.ctx, s.req)
		s.Require().NoError(err)
		s.Contains(result.Letter, "555-123-4567")
	})

	s.Run("enabled turns a match into a failure", func() {
		_, err := s.newService(&fakeProvider{raw: []byte(leaky)}, WithOutputScreening(true)).GenerateKit(s.ctx, s.req)
		s.Require().Error(err)
		s.Equal(models.KindFailed, models.KindOf(err))
	})

	s.Run("enabled checks checklist items", func() {
		raw := `{"letter":"ok","checklist":[{"section":"Steps","items":["email a@b.co"]}],"explainer":"ok"}`
		_, err := s.newService(&fakeProvider{raw: []byte(raw)}, WithOutputScreening(true)).GenerateKit(s.ctx, s.req)
		s.Equal(models.KindFailed, models.KindOf(err))
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(models.Request{
		Tags:        []id.SituationTag{id.TagPriorAuthDenied, id.TagCareDelayed},
		Audience:    id.AudienceHospitalCompliance,
		Tone:        id.ToneCollaborative,
		Role:        id.RolePatient,
		CareSetting: id.CareSettingInsurerCareManagement,
	})

	assert.Equal(t, "generate_advocacy_kit", prompt.ToolName)
	assert.Contains(t, prompt.User, "What happened: prior auth denied, care delayed")
	assert.Contains(t, prompt.User, "Audience: hospital compliance")
	assert.Contains(t, prompt.User, "Care setting: insurer care management")
	assert.Contains(t, prompt.System, "Never name specific institutions, vendors, or individuals")
	assert.Contains(t, prompt.System, "Never claim wrongdoing")

	require.Equal(t, false, prompt.Schema["additionalProperties"])
	assert.Equal(t, []string{"letter", "checklist", "explainer"}, prompt.Schema["required"])
	props := prompt.Schema["properties"].(map[string]any)
	checklist := props["checklist"].(map[string]any)
	item := checklist["items"].(map[string]any)
	assert.Equal(t, []string{"section", "items"}, item["required"])
}
