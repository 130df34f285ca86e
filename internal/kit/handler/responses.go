package handler

import (
	"time"

	"algowatch/internal/kit/models"
	id "algowatch/pkg/domain"
)

type IDResponse struct {
	ID string `json:"id"`
}

type KitResponse struct {
	ID            string       `json:"id"`
	CategorySlug  string       `json:"category_slug"`
	Audience      string       `json:"audience"`
	Tone          string       `json:"tone"`
	Role          string       `json:"role"`
	CareSetting   string       `json:"care_setting"`
	Tags          []string     `json:"tags"`
	LetterText    string       `json:"letter_text"`
	ChecklistJSON id.Checklist `json:"checklist_json"`
	ExplainerText string       `json:"explainer_text"`
	CreatedAt     time.Time    `json:"created_at"`
	Published     bool         `json:"published"`
}

type KitListResponse struct {
	Kits []KitResponse `json:"kits"`
}

// LibraryEntryResponse never carries owner identifiers.
type LibraryEntryResponse struct {
	ID            string    `json:"id"`
	KitID         string    `json:"kit_id"`
	DisplayMode   string    `json:"display_mode"`
	DisplayName   string    `json:"display_name,omitempty"`
	PublicTags    []string  `json:"public_tags"`
	CareSetting   string    `json:"care_setting"`
	Audience      string    `json:"audience"`
	LetterText    string    `json:"letter_text"`
	ExplainerText string    `json:"explainer_text"`
	SharedAt      time.Time `json:"shared_at"`
}

type LibraryResponse struct {
	Kits []LibraryEntryResponse `json:"kits"`
}

func toKitResponse(k *models.Kit) KitResponse {
	tags := k.Content.Tags
	if tags == nil {
		tags = []string{}
	}
	checklist := k.Content.Checklist
	if checklist == nil {
		checklist = id.Checklist{}
	}
	return KitResponse{
		ID:            k.ID.String(),
		CategorySlug:  k.Content.CategorySlug,
		Audience:      string(k.Content.Audience),
		Tone:          string(k.Content.Tone),
		Role:          string(k.Content.Role),
		CareSetting:   string(k.Content.CareSetting),
		Tags:          tags,
		LetterText:    k.Content.Letter,
		ChecklistJSON: checklist,
		ExplainerText: k.Content.Explainer,
		CreatedAt:     k.CreatedAt,
		Published:     k.Published,
	}
}

func toLibraryEntryResponse(e models.LibraryEntry) LibraryEntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := LibraryEntryResponse{
		ID:            e.PublicationID.String(),
		KitID:         e.KitID.String(),
		DisplayMode:   string(e.DisplayMode),
		PublicTags:    tags,
		CareSetting:   string(e.CareSetting),
		Audience:      string(e.Audience),
		LetterText:    e.Letter,
		ExplainerText: e.Explainer,
		SharedAt:      e.SharedAt,
	}
	if e.DisplayMode == models.DisplayNamed {
		resp.DisplayName = e.DisplayName
	}
	return resp
}
