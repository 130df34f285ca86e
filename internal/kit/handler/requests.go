package handler

import (
	"strings"
	"unicode/utf8"

	"algowatch/internal/kit/models"
	"algowatch/internal/phi"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
)

const maxDisplayNameLength = 80

// SaveKitRequest is the body of POST /kits: the generator inputs plus the
// generated result.
type SaveKitRequest struct {
	CategorySlug  string       `json:"category_slug"`
	Audience      string       `json:"audience"`
	Tone          string       `json:"tone"`
	Role          string       `json:"role"`
	CareSetting   string       `json:"care_setting"`
	Tags          []string     `json:"tags"`
	LetterText    string       `json:"letter_text"`
	ChecklistJSON id.Checklist `json:"checklist_json"`
	ExplainerText string       `json:"explainer_text"`

	content models.Content
}

func (r *SaveKitRequest) Validate() error {
	category := strings.TrimSpace(r.CategorySlug)
	if category != "" && category != models.DefaultCategory {
		return dErrors.New(dErrors.CodeValidation, "invalid category")
	}
	tags, err := id.ParseSituationTags(r.Tags, false)
	if err != nil {
		return err
	}
	audience, err := id.ParseAudience(r.Audience)
	if err != nil {
		return err
	}
	tone, err := id.ParseTone(r.Tone)
	if err != nil {
		return err
	}
	role, err := id.ParseRole(r.Role)
	if err != nil {
		return err
	}
	careSetting, err := id.ParseCareSetting(r.CareSetting)
	if err != nil {
		return err
	}
	if strings.TrimSpace(r.LetterText) == "" {
		return dErrors.New(dErrors.CodeValidation, "letter_text is required")
	}

	r.content = models.Content{
		CategorySlug: category,
		Audience:     audience,
		Tone:         tone,
		Role:         role,
		CareSetting:  careSetting,
		Tags:         id.TagStrings(tags),
		Letter:       r.LetterText,
		Checklist:    r.ChecklistJSON.Clone(),
		Explainer:    r.ExplainerText,
	}
	if _, found := phi.MatchAny(r.content.FreeText()...); found {
		return dErrors.New(dErrors.CodeValidation, phi.RejectionMessage)
	}
	return nil
}

// ToContent returns the parsed content; call after Validate.
func (r *SaveKitRequest) ToContent() models.Content {
	return r.content
}

// DuplicateKitRequest is the body of POST /duplicate-kit.
type DuplicateKitRequest struct {
	KitID string `json:"kitId"`

	kitID id.KitID
}

func (r *DuplicateKitRequest) Validate() error {
	kitID, err := id.ParseKitID(r.KitID)
	if err != nil {
		return err
	}
	r.kitID = kitID
	return nil
}

// ShareKitRequest is the body of POST /share-kit.
type ShareKitRequest struct {
	KitID          string `json:"kitId"`
	Share          bool   `json:"share"`
	DisplayMode    string `json:"displayMode"`
	DisplayName    string `json:"displayName"`
	LocationBucket string `json:"locationBucket"`

	change models.PublicationChange
}

func (r *ShareKitRequest) Validate() error {
	kitID, err := id.ParseKitID(r.KitID)
	if err != nil {
		return err
	}
	mode, err := models.ParseDisplayMode(r.DisplayMode)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(name) > maxDisplayNameLength {
		return dErrors.New(dErrors.CodeValidation, "display name is too long")
	}
	bucket := strings.TrimSpace(r.LocationBucket)
	if phi.ContainsSensitiveInfo(name) || phi.ContainsSensitiveInfo(bucket) {
		return dErrors.New(dErrors.CodeValidation, phi.RejectionMessage)
	}
	r.change = models.PublicationChange{
		KitID:          kitID,
		Share:          r.Share,
		DisplayMode:    mode,
		DisplayName:    name,
		LocationBucket: bucket,
	}
	return nil
}

// ToModel returns the parsed change; call after Validate.
func (r *ShareKitRequest) ToModel() models.PublicationChange {
	return r.change
}
