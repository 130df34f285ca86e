package models

import (
	"strings"
	"time"

	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
)

// DefaultCategory is the only kit category offered today.
const DefaultCategory = "risk_stratification"

// Kit is a generated advocacy bundle. Invariants: exactly one owner; content
// is never edited after creation.
type Kit struct {
	ID        id.KitID
	OwnerID   id.UserID
	Content   Content
	CreatedAt time.Time
	// Published mirrors whether a publication row exists; it is read-only
	// and filled by stores.
	Published bool
}

// Content is every field copied verbatim when a kit is duplicated.
type Content struct {
	CategorySlug string
	Audience     id.Audience
	Tone         id.Tone
	Role         id.Role
	CareSetting  id.CareSetting
	Tags         []string
	Letter       string
	Checklist    id.Checklist
	Explainer    string
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	out := c
	out.Tags = append([]string(nil), c.Tags...)
	out.Checklist = c.Checklist.Clone()
	return out
}

// FreeText lists the generated text fields in storage order.
func (c Content) FreeText() []string {
	return append([]string{c.Letter, c.Explainer}, c.Checklist.Texts()...)
}

// NewKit builds a kit owned by owner.
func NewKit(kitID id.KitID, owner id.UserID, content Content, now time.Time) (*Kit, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "kit must have an owner")
	}
	if content.CategorySlug == "" {
		content.CategorySlug = DefaultCategory
	}
	return &Kit{ID: kitID, OwnerID: owner, Content: content, CreatedAt: now}, nil
}

// DuplicateFor copies every content field into a new kit owned by owner.
func (k *Kit) DuplicateFor(kitID id.KitID, owner id.UserID, now time.Time) (*Kit, error) {
	return NewKit(kitID, owner, k.Content.Clone(), now)
}

// DisplayMode controls how a publication credits its publisher.
type DisplayMode string

const (
	DisplayAnonymous DisplayMode = "anonymous"
	DisplayNamed     DisplayMode = "named"
)

// ParseDisplayMode defaults an empty mode to anonymous. "username" is the
// legacy wire name of named.
func ParseDisplayMode(raw string) (DisplayMode, error) {
	switch strings.TrimSpace(raw) {
	case "", string(DisplayAnonymous):
		return DisplayAnonymous, nil
	case string(DisplayNamed), "username":
		return DisplayNamed, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid display mode")
	}
}

// Publication makes a kit visible in the community library. At most one
// exists per kit; its existence is the kit's published state. CareSetting and
// Tags are a snapshot taken at publish time.
type Publication struct {
	ID             id.PublicationID
	KitID          id.KitID
	PublisherID    id.UserID
	DisplayMode    DisplayMode
	DisplayName    string
	CareSetting    id.CareSetting
	Tags           []string
	LocationBucket string
	CreatedAt      time.Time
}

// NewPublication snapshots kit for publisher.
func NewPublication(pubID id.PublicationID, kit *Kit, mode DisplayMode, displayName, locationBucket string, now time.Time) *Publication {
	if mode != DisplayNamed {
		displayName = ""
	}
	return &Publication{
		ID:             pubID,
		KitID:          kit.ID,
		PublisherID:    kit.OwnerID,
		DisplayMode:    mode,
		DisplayName:    displayName,
		CareSetting:    kit.Content.CareSetting,
		Tags:           append([]string(nil), kit.Content.Tags...),
		LocationBucket: locationBucket,
		CreatedAt:      now,
	}
}

// LibraryEntry is one published kit as shown to everyone. It carries no
// owner identifiers.
type LibraryEntry struct {
	PublicationID id.PublicationID
	KitID         id.KitID
	DisplayMode   DisplayMode
	DisplayName   string
	CareSetting   id.CareSetting
	Tags          []string
	Audience      id.Audience
	Letter        string
	Explainer     string
	SharedAt      time.Time
}

// LibraryFilter narrows the library listing. Empty fields match everything.
type LibraryFilter struct {
	CareSetting id.CareSetting
	Audience    id.Audience
}

// Matches reports whether entry passes the filter.
func (f LibraryFilter) Matches(entry LibraryEntry) bool {
	if f.CareSetting != "" && entry.CareSetting != f.CareSetting {
		return false
	}
	if f.Audience != "" && entry.Audience != f.Audience {
		return false
	}
	return true
}

// PublicationChange is a request to publish or unpublish one kit.
type PublicationChange struct {
	KitID          id.KitID
	Share          bool
	DisplayMode    DisplayMode
	DisplayName    string
	LocationBucket string
}
