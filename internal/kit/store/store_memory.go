package store

import (
	"context"
	"sort"
	"sync"

	"algowatch/internal/kit/models"
	id "algowatch/pkg/domain"
	"algowatch/pkg/platform/sentinel"
)

// InMemoryStore keeps kits and publications in process. Access goes through
// Owner() and System(), mirroring the two Postgres handles.
type InMemoryStore struct {
	mu           sync.RWMutex
	kits         map[id.KitID]*models.Kit
	publications map[id.KitID]*models.Publication
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		kits:         make(map[id.KitID]*models.Kit),
		publications: make(map[id.KitID]*models.Publication),
	}
}

// Owner returns the caller-scoped handle.
func (s *InMemoryStore) Owner() *InMemoryOwnerStore { return &InMemoryOwnerStore{s: s} }

// System returns the cross-owner read handle.
func (s *InMemoryStore) System() *InMemorySystemReader { return &InMemorySystemReader{s: s} }

// PublicationCount returns the number of publication rows for kitID.
func (s *InMemoryStore) PublicationCount(kitID id.KitID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.publications[kitID]; ok {
		return 1
	}
	return 0
}

func (s *InMemoryStore) snapshot(k *models.Kit) *models.Kit {
	out := *k
	out.Content = k.Content.Clone()
	_, out.Published = s.publications[k.ID]
	return &out
}

type InMemoryOwnerStore struct{ s *InMemoryStore }

func (o *InMemoryOwnerStore) CreateKit(_ context.Context, owner id.UserID, kit *models.Kit) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if _, exists := o.s.kits[kit.ID]; exists {
		return sentinel.ErrConflict
	}
	stored := *kit
	stored.OwnerID = owner
	stored.Content = kit.Content.Clone()
	stored.Published = false
	o.s.kits[kit.ID] = &stored
	return nil
}

func (o *InMemoryOwnerStore) GetKit(_ context.Context, owner id.UserID, kitID id.KitID) (*models.Kit, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	kit, ok := o.s.kits[kitID]
	if !ok || kit.OwnerID != owner {
		return nil, sentinel.ErrNotFound
	}
	return o.s.snapshot(kit), nil
}

func (o *InMemoryOwnerStore) ListKits(_ context.Context, owner id.UserID) ([]*models.Kit, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	out := make([]*models.Kit, 0)
	for _, kit := range o.s.kits {
		if kit.OwnerID == owner {
			out = append(out, o.s.snapshot(kit))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (o *InMemoryOwnerStore) DeleteKit(_ context.Context, owner id.UserID, kitID id.KitID) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	kit, ok := o.s.kits[kitID]
	if !ok || kit.OwnerID != owner {
		return sentinel.ErrNotFound
	}
	delete(o.s.kits, kitID)
	delete(o.s.publications, kitID)
	return nil
}

func (o *InMemoryOwnerStore) CreatePublication(_ context.Context, owner id.UserID, pub *models.Publication) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	kit, ok := o.s.kits[pub.KitID]
	if !ok || kit.OwnerID != owner {
		return sentinel.ErrNotFound
	}
	if _, exists := o.s.publications[pub.KitID]; exists {
		return sentinel.ErrConflict
	}
	stored := *pub
	stored.PublisherID = owner
	stored.Tags = append([]string(nil), pub.Tags...)
	o.s.publications[pub.KitID] = &stored
	return nil
}

func (o *InMemoryOwnerStore) DeletePublication(_ context.Context, owner id.UserID, kitID id.KitID) (bool, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	pub, ok := o.s.publications[kitID]
	if !ok || pub.PublisherID != owner {
		return false, nil
	}
	delete(o.s.publications, kitID)
	return true, nil
}

// InMemorySystemReader reads across owners and has no write methods.
type InMemorySystemReader struct{ s *InMemoryStore }

func (r *InMemorySystemReader) FindKit(_ context.Context, kitID id.KitID) (*models.Kit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	kit, ok := r.s.kits[kitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.s.snapshot(kit), nil
}

func (r *InMemorySystemReader) ListLibrary(_ context.Context, filter models.LibraryFilter) ([]models.LibraryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.LibraryEntry, 0, len(r.s.publications))
	for _, pub := range r.s.publications {
		kit, ok := r.s.kits[pub.KitID]
		if !ok {
			continue
		}
		entry := models.LibraryEntry{
			PublicationID: pub.ID,
			KitID:         pub.KitID,
			DisplayMode:   pub.DisplayMode,
			DisplayName:   pub.DisplayName,
			CareSetting:   pub.CareSetting,
			Tags:          append([]string(nil), pub.Tags...),
			Audience:      kit.Content.Audience,
			Letter:        kit.Content.Letter,
			Explainer:     kit.Content.Explainer,
			SharedAt:      pub.CreatedAt,
		}
		if filter.Matches(entry) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SharedAt.After(out[j].SharedAt) })
	return out, nil
}
