package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"algowatch/internal/audit"
	"algowatch/internal/report/metrics"
	"algowatch/internal/report/models"
	"algowatch/internal/report/store"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
)

type recordingAuditor struct {
	events []audit.Event
}

func (r *recordingAuditor) Emit(_ context.Context, event audit.Event) error {
	r.events = append(r.events, event)
	return nil
}

type recordingInvalidator struct {
	places []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, placeID string) error {
	r.places = append(r.places, placeID)
	return nil
}

type ReportServiceSuite struct {
	suite.Suite
	ctx         context.Context
	store       *store.InMemoryStore
	auditor     *recordingAuditor
	invalidator *recordingInvalidator
	metrics     *metrics.Metrics
	service     *Service
	owner       id.UserID
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemoryStore()
	s.auditor = &recordingAuditor{}
	s.invalidator = &recordingInvalidator{}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.owner = id.UserID(uuid.New())
	svc, err := New(s.store.Owner(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithAuditPublisher(s.auditor),
		WithCacheInvalidator(s.invalidator),
	)
	s.Require().NoError(err)
	s.service = svc
}

func sharedDraft(text string) models.Draft {
	return models.Draft{
		CareSetting: id.CareSettingHospitalDischarge,
		Tags:        []id.SituationTag{id.TagDischargedEarly, id.TagNoExplanation},
		ShortText:   text,
		PlaceID:     "place_mercy_general",
		PlaceName:   "Mercy General",
		Visibility:  models.VisibilitySharedAnonymous,
	}
}

func (s *ReportServiceSuite) TestCreateReport() {
	s.Run("clean text within limit is stored", func() {
		report, err := s.service.CreateReport(s.ctx, s.owner, sharedDraft("Sent home two days after surgery."))
		s.Require().NoError(err)
		s.Equal(s.owner, report.OwnerID)
		s.Equal(1, s.store.Count())
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ReportsCreated.WithLabelValues("shared_anonymous")))
	})

	s.Run("text over 280 characters is rejected", func() {
		_, err := s.service.CreateReport(s.ctx, s.owner, sharedDraft(strings.Repeat("a", 281)))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		de, _ := dErrors.As(err)
		s.Equal("Text exceeds 280 characters.", de.Message)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ReportsRejected.WithLabelValues("too_long")))
	})

	s.Run("PHI is rejected at any length", func() {
		for _, text := range []string{"ssn 123-45-6789", strings.Repeat("b ", 150) + "call 555-123-4567"} {
			_, err := s.service.CreateReport(s.ctx, s.owner, sharedDraft(text))
			s.Require().Error(err)
			de, _ := dErrors.As(err)
			s.Equal("Text contains potential personal health information. Please remove it.", de.Message)
		}
		s.Equal(float64(2), testutil.ToFloat64(s.metrics.ReportsRejected.WithLabelValues("phi")))
	})

	s.Run("nothing rejected was stored", func() {
		s.Equal(1, s.store.Count())
	})

	s.Run("anonymous caller is rejected", func() {
		_, err := s.service.CreateReport(s.ctx, id.UserID{}, sharedDraft(""))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ReportServiceSuite) TestSharedReportInvalidatesPatterns() {
	_, err := s.service.CreateReport(s.ctx, s.owner, sharedDraft(""))
	s.Require().NoError(err)
	s.Equal([]string{"", "place_mercy_general"}, s.invalidator.places)

	private := sharedDraft("")
	private.Visibility = models.VisibilityPrivate
	_, err = s.service.CreateReport(s.ctx, s.owner, private)
	s.Require().NoError(err)
	s.Len(s.invalidator.places, 2)
}

func (s *ReportServiceSuite) TestAuditEventHasNoText() {
	_, err := s.service.CreateReport(s.ctx, s.owner, sharedDraft("They cited my risk score."))
	s.Require().NoError(err)
	s.Require().Len(s.auditor.events, 1)
	event := s.auditor.events[0]
	s.Equal(audit.ActionReportCreated, event.Action)
	for _, v := range event.Attributes {
		s.NotContains(v, "risk score")
	}
}

func (s *ReportServiceSuite) TestListMine() {
	other := id.UserID(uuid.New())
	_, err := s.service.CreateReport(s.ctx, s.owner, sharedDraft("mine"))
	s.Require().NoError(err)
	_, err = s.service.CreateReport(s.ctx, other, sharedDraft("theirs"))
	s.Require().NoError(err)

	reports, err := s.service.ListMine(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(reports, 1)
	s.Equal("mine", reports[0].ShortText)
}

type failingStore struct{}

func (failingStore) CreateReport(context.Context, id.UserID, *models.Report) error {
	return errors.New("disk full")
}

func (failingStore) ListReports(context.Context, id.UserID) ([]*models.Report, error) {
	return nil, errors.New("disk full")
}

func TestStoreFailureIsInternal(t *testing.T) {
	svc, err := New(failingStore{}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	_, err = svc.CreateReport(context.Background(), id.UserID(uuid.New()), sharedDraft(""))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.ListMine(context.Background(), id.UserID(uuid.New()))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
