package store

import (
	"context"
	"sort"
	"sync"

	"algowatch/internal/report/models"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/sentinel"
)

// InMemoryStore keeps reports in process. Access goes through Owner() and
// System().
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[id.ReportID]*models.Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[id.ReportID]*models.Report)}
}

func (s *InMemoryStore) Owner() *InMemoryOwnerStore { return &InMemoryOwnerStore{s: s} }

func (s *InMemoryStore) System() *InMemorySystemReader { return &InMemorySystemReader{s: s} }

// Count returns the number of stored reports.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

type InMemoryOwnerStore struct{ s *InMemoryStore }

func (o *InMemoryOwnerStore) CreateReport(_ context.Context, owner id.UserID, report *models.Report) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if _, exists := o.s.reports[report.ID]; exists {
		return sentinel.ErrConflict
	}
	stored := *report
	stored.OwnerID = owner
	stored.Tags = append([]id.SituationTag(nil), report.Tags...)
	o.s.reports[report.ID] = &stored
	return nil
}

func (o *InMemoryOwnerStore) ListReports(_ context.Context, owner id.UserID) ([]*models.Report, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	out := make([]*models.Report, 0)
	for _, r := range o.s.reports {
		if r.OwnerID == owner {
			cp := *r
			cp.Tags = append([]id.SituationTag(nil), r.Tags...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// InMemorySystemReader reads across owners and has no write methods.
type InMemorySystemReader struct{ s *InMemoryStore }

// ListSharedFacts returns the facts of every shared report, optionally
// restricted to one place. Private reports are never returned.
func (r *InMemorySystemReader) ListSharedFacts(_ context.Context, placeID string) ([]models.SharedFacts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.SharedFacts, 0)
	for _, rep := range r.s.reports {
		if !rep.Visibility.IsShared() {
			continue
		}
		if placeID != "" && rep.PlaceID != placeID {
			continue
		}
		out = append(out, models.SharedFacts{
			CareSetting: rep.CareSetting,
			Tags:        append([]id.SituationTag(nil), rep.Tags...),
		})
	}
	return out, nil
}
