package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"algowatch/internal/audit"
	"algowatch/internal/kit/metrics"
	"algowatch/internal/kit/models"
	"algowatch/internal/kit/store"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
	"algowatch/pkg/platform/sentinel"
	"algowatch/pkg/requestcontext"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAuditor) Emit(_ context.Context, event audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingAuditor) actions() []audit.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Action, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func sampleContent() models.Content {
	return models.Content{
		Audience:    id.AudienceInsurer,
		Tone:        id.ToneFirm,
		Role:        id.RolePatient,
		CareSetting: id.CareSettingInsurerCareManagement,
		Tags:        []string{"denied_service", "risk_score_used"},
		Letter:      "Dear care management team, please explain the risk score used.",
		Checklist: id.Checklist{
			{Section: "Before you send", Items: []string{"Collect denial notices", "Note the dates of each call"}},
			{Section: "After you send", Items: []string{"Follow up in two weeks"}},
		},
		Explainer: "Risk scores estimate future cost and can shape care decisions.",
	}
}

func messageOf(err error) string {
	if de, ok := dErrors.As(err); ok {
		return de.Message
	}
	return ""
}

type KitServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemoryStore
	auditor *recordingAuditor
	metrics *metrics.Metrics
	service *Service
	alice   id.UserID
	bob     id.UserID
}

func TestKitServiceSuite(t *testing.T) {
	suite.Run(t, new(KitServiceSuite))
}

func (s *KitServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = store.NewInMemoryStore()
	s.auditor = &recordingAuditor{}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.alice = id.UserID(uuid.New())
	s.bob = id.UserID(uuid.New())
	s.service = s.newService()
}

func (s *KitServiceSuite) newService(opts ...Option) *Service {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithAuditPublisher(s.auditor),
	}
	svc, err := New(s.store.Owner(), s.store.System(), append(base, opts...)...)
	s.Require().NoError(err)
	return svc
}

func (s *KitServiceSuite) createKit(owner id.UserID) *models.Kit {
	kit, err := s.service.CreateKit(s.ctx, owner, sampleContent())
	s.Require().NoError(err)
	return kit
}

func (s *KitServiceSuite) publish(owner id.UserID, kitID id.KitID) error {
	return s.service.SetPublication(s.ctx, owner, models.PublicationChange{KitID: kitID, Share: true})
}

func (s *KitServiceSuite) TestCreateKit() {
	s.Run("stores kit under owner with default category", func() {
		kit := s.createKit(s.alice)

		stored, err := s.service.GetKit(s.ctx, s.alice, kit.ID)
		s.Require().NoError(err)
		s.Equal(s.alice, stored.OwnerID)
		s.Equal(models.DefaultCategory, stored.Content.CategorySlug)
		s.False(stored.Published)
		s.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), stored.CreatedAt)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.KitsCreated.WithLabelValues("saved")))
	})

	s.Run("rejects PHI in generated text before storing", func() {
		for name, mutate := range map[string]func(*models.Content){
			"letter":    func(c *models.Content) { c.Letter = "Call me at 555-123-4567" },
			"explainer": func(c *models.Content) { c.Explainer = "MRN 998877 was flagged" },
			"checklist": func(c *models.Content) { c.Checklist[1].Items[0] = "Email jane@example.com" },
		} {
			content := sampleContent()
			mutate(&content)

			_, err := s.service.CreateKit(s.ctx, s.bob, content)
			s.Require().Error(err, name)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), name)
			s.Contains(messageOf(err), "personal health information", name)
		}
		kits, err := s.service.ListKits(s.ctx, s.bob)
		s.Require().NoError(err)
		s.Empty(kits)
	})

	s.Run("audit event carries no free text", func() {
		for _, e := range s.auditor.events {
			for _, v := range e.Attributes {
				s.NotContains(v, "Dear care management team")
			}
		}
	})
}

func (s *KitServiceSuite) TestDuplicateKit() {
	s.Run("copies a published kit into the caller's library", func() {
		original := s.createKit(s.alice)
		s.Require().NoError(s.publish(s.alice, original.ID))
		before, err := s.service.GetKit(s.ctx, s.alice, original.ID)
		s.Require().NoError(err)

		dup, err := s.service.DuplicateKit(s.ctx, s.bob, original.ID)
		s.Require().NoError(err)

		s.NotEqual(original.ID, dup.ID)
		s.Equal(s.bob, dup.OwnerID)
		s.Empty(cmp.Diff(before.Content, dup.Content), "content must be copied field for field")

		after, err := s.service.GetKit(s.ctx, s.alice, original.ID)
		s.Require().NoError(err)
		s.Empty(cmp.Diff(before, after), "original must be unchanged")

		owned, err := s.service.GetKit(s.ctx, s.bob, dup.ID)
		s.Require().NoError(err)
		s.False(owned.Published)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.KitsCreated.WithLabelValues("duplicated")))
	})

	s.Run("copy is independent of the source", func() {
		original := s.createKit(s.alice)
		dup, err := s.service.DuplicateKit(s.ctx, s.alice, original.ID)
		s.Require().NoError(err)

		dup.Content.Checklist[0].Items[0] = "mutated"
		dup.Content.Tags[0] = "mutated"

		stored, err := s.service.GetKit(s.ctx, s.alice, original.ID)
		s.Require().NoError(err)
		s.Equal("Collect denial notices", stored.Content.Checklist[0].Items[0])
		s.Equal("denied_service", stored.Content.Tags[0])
	})

	s.Run("unpublished kit of another owner is not found", func() {
		private := s.createKit(s.alice)

		_, err := s.service.DuplicateKit(s.ctx, s.bob, private.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("any scope reads every existing kit", func() {
		private := s.createKit(s.alice)
		svc := s.newService(WithDuplicationScope(ScopeAny))

		dup, err := svc.DuplicateKit(s.ctx, s.bob, private.ID)
		s.Require().NoError(err)
		s.Equal(s.bob, dup.OwnerID)
	})

	s.Run("missing kit is not found", func() {
		_, err := s.service.DuplicateKit(s.ctx, s.bob, id.NewKitID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("Kit not found", messageOf(err))
	})

	s.Run("anonymous caller is rejected", func() {
		original := s.createKit(s.alice)
		_, err := s.service.DuplicateKit(s.ctx, id.UserID{}, original.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *KitServiceSuite) TestSetPublication() {
	s.Run("publish then unpublish leaves no publication", func() {
		kit := s.createKit(s.alice)

		s.Require().NoError(s.publish(s.alice, kit.ID))
		s.Equal(1, s.store.PublicationCount(kit.ID))

		err := s.service.SetPublication(s.ctx, s.alice, models.PublicationChange{KitID: kit.ID, Share: false})
		s.Require().NoError(err)
		s.Equal(0, s.store.PublicationCount(kit.ID))
	})

	s.Run("publishing twice is a conflict", func() {
		kit := s.createKit(s.alice)
		s.Require().NoError(s.publish(s.alice, kit.ID))

		err := s.publish(s.alice, kit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("kit is already published", messageOf(err))
		s.Equal(1, s.store.PublicationCount(kit.ID))
	})

	s.Run("unpublishing an unpublished kit is a no-op", func() {
		kit := s.createKit(s.alice)
		before := len(s.auditor.actions())

		err := s.service.SetPublication(s.ctx, s.alice, models.PublicationChange{KitID: kit.ID, Share: false})
		s.Require().NoError(err)
		s.Len(s.auditor.actions(), before)
	})

	s.Run("kit owned by someone else is not found", func() {
		kit := s.createKit(s.alice)

		err := s.publish(s.bob, kit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal(0, s.store.PublicationCount(kit.ID))
	})

	s.Run("display name and location are screened", func() {
		kit := s.createKit(s.alice)

		err := s.service.SetPublication(s.ctx, s.alice, models.PublicationChange{
			KitID: kit.ID, Share: true, DisplayMode: models.DisplayNamed, DisplayName: "jane@example.com",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		err = s.service.SetPublication(s.ctx, s.alice, models.PublicationChange{
			KitID: kit.ID, Share: true, LocationBucket: string(make([]byte, 65)),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(0, s.store.PublicationCount(kit.ID))
	})

	s.Run("library shows display name only when named", func() {
		named := s.createKit(s.bob)
		anon := s.createKit(s.bob)
		s.Require().NoError(s.service.SetPublication(s.ctx, s.bob, models.PublicationChange{
			KitID: named.ID, Share: true, DisplayMode: models.DisplayNamed, DisplayName: "Sam R",
		}))
		s.Require().NoError(s.service.SetPublication(s.ctx, s.bob, models.PublicationChange{
			KitID: anon.ID, Share: true, DisplayMode: models.DisplayAnonymous, DisplayName: "Sam R",
		}))

		entries, err := s.service.Library(s.ctx, models.LibraryFilter{})
		s.Require().NoError(err)
		names := map[id.KitID]string{}
		for _, e := range entries {
			names[e.KitID] = e.DisplayName
		}
		s.Equal("Sam R", names[named.ID])
		s.Equal("", names[anon.ID])
	})
}

func (s *KitServiceSuite) TestDeleteKit() {
	kit := s.createKit(s.alice)
	s.Require().NoError(s.publish(s.alice, kit.ID))

	s.Run("other owners cannot delete", func() {
		err := s.service.DeleteKit(s.ctx, s.bob, kit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("owner delete removes publication", func() {
		s.Require().NoError(s.service.DeleteKit(s.ctx, s.alice, kit.ID))
		s.Equal(0, s.store.PublicationCount(kit.ID))

		_, err := s.service.GetKit(s.ctx, s.alice, kit.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		entries, err := s.service.Library(s.ctx, models.LibraryFilter{})
		s.Require().NoError(err)
		s.Empty(entries)
	})
}

func (s *KitServiceSuite) TestAuditTrail() {
	kit := s.createKit(s.alice)
	s.Require().NoError(s.publish(s.alice, kit.ID))
	_, err := s.service.DuplicateKit(s.ctx, s.bob, kit.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.service.SetPublication(s.ctx, s.alice, models.PublicationChange{KitID: kit.ID}))

	s.Equal([]audit.Action{
		audit.ActionKitCreated,
		audit.ActionKitPublished,
		audit.ActionKitDuplicated,
		audit.ActionKitUnpublished,
	}, s.auditor.actions())
}

type failingOwnerStore struct {
	OwnerStore
	err error
}

func (f failingOwnerStore) GetKit(context.Context, id.UserID, id.KitID) (*models.Kit, error) {
	return nil, f.err
}

func TestStoreErrorTranslation(t *testing.T) {
	mem := store.NewInMemoryStore()
	tests := []struct {
		name string
		err  error
		code dErrors.Code
	}{
		{"not found", sentinel.ErrNotFound, dErrors.CodeNotFound},
		{"unavailable", sentinel.ErrUnavailable, dErrors.CodeUnavailable},
		{"unexpected", errors.New("connection reset"), dErrors.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(failingOwnerStore{OwnerStore: mem.Owner(), err: tt.err}, mem.System(),
				WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			require.NoError(t, err)

			_, err = svc.GetKit(context.Background(), id.UserID(uuid.New()), id.NewKitID())
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.code))
		})
	}
}

func TestNewRejectsUnknownScope(t *testing.T) {
	mem := store.NewInMemoryStore()
	_, err := New(mem.Owner(), mem.System(), WithDuplicationScope("everyone"))
	assert.Error(t, err)

	_, err = New(nil, mem.System())
	assert.Error(t, err)
}
