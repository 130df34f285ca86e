package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"algowatch/internal/phi"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
)

// MaxShortTextLength is the longest free-text note a report may carry, in
// characters.
const MaxShortTextLength = 280

// TooLongMessage is returned verbatim when a note exceeds MaxShortTextLength.
const TooLongMessage = "Text exceeds 280 characters."

// Visibility controls whether a report counts toward community patterns.
type Visibility string

const (
	VisibilityPrivate         Visibility = "private"
	VisibilitySharedAnonymous Visibility = "shared_anonymous"
	VisibilitySharedUsername  Visibility = "shared_username"
)

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilitySharedAnonymous, VisibilitySharedUsername:
		return true
	}
	return false
}

// IsShared reports whether the report is visible to aggregation.
func (v Visibility) IsShared() bool {
	return v == VisibilitySharedAnonymous || v == VisibilitySharedUsername
}

// ParseVisibility defaults an empty value to private.
func ParseVisibility(raw string) (Visibility, error) {
	v := Visibility(strings.TrimSpace(raw))
	if v == "" {
		return VisibilityPrivate, nil
	}
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid visibility")
	}
	return v, nil
}

// Draft is a report as submitted, before it has an identity.
type Draft struct {
	KitID          *id.KitID
	CareSetting    id.CareSetting
	Tags           []id.SituationTag
	ShortText      string
	PlaceID        string
	PlaceName      string
	LocationBucket string
	Visibility     Visibility
}

// Check applies the free-text rules: PHI first, then length. It is the one
// rule set used at every checkpoint.
func (d Draft) Check() error {
	if d.ShortText == "" {
		return nil
	}
	if phi.ContainsSensitiveInfo(d.ShortText) {
		return dErrors.New(dErrors.CodeValidation, phi.RejectionMessage)
	}
	if utf8.RuneCountInString(d.ShortText) > MaxShortTextLength {
		return dErrors.New(dErrors.CodeValidation, TooLongMessage)
	}
	return nil
}

// Report is a de-identified account of one experience. Invariants: exactly
// one owner; ShortText is PHI-clean and at most MaxShortTextLength
// characters.
type Report struct {
	ID             id.ReportID
	OwnerID        id.UserID
	KitID          *id.KitID
	CareSetting    id.CareSetting
	Tags           []id.SituationTag
	ShortText      string
	PlaceID        string
	PlaceName      string
	LocationBucket string
	Visibility     Visibility
	CreatedAt      time.Time
}

// NewReport enforces the report invariants.
func NewReport(reportID id.ReportID, owner id.UserID, draft Draft, now time.Time) (*Report, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "report must have an owner")
	}
	if !draft.CareSetting.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid care setting")
	}
	if !draft.Visibility.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid visibility")
	}
	if err := draft.Check(); err != nil {
		return nil, err
	}
	return &Report{
		ID:             reportID,
		OwnerID:        owner,
		KitID:          draft.KitID,
		CareSetting:    draft.CareSetting,
		Tags:           append([]id.SituationTag(nil), draft.Tags...),
		ShortText:      draft.ShortText,
		PlaceID:        draft.PlaceID,
		PlaceName:      draft.PlaceName,
		LocationBucket: draft.LocationBucket,
		Visibility:     draft.Visibility,
		CreatedAt:      now,
	}, nil
}

// SharedFacts is the part of a shared report that aggregation may see. It
// carries no text and no identifiers.
type SharedFacts struct {
	CareSetting id.CareSetting
	Tags        []id.SituationTag
}
