package handler

import (
	"strings"

	"algowatch/internal/report/models"
	id "algowatch/pkg/domain"
	dErrors "algowatch/pkg/domain-errors"
)

const (
	maxPlaceFieldLength    = 200
	maxLocationBucketChars = 64
)

// CreateReportRequest is the body of POST /create-report.
type CreateReportRequest struct {
	CareSetting    string   `json:"care_setting"`
	Tags           []string `json:"tags"`
	Visibility     string   `json:"visibility"`
	ShortText      string   `json:"short_text"`
	KitID          string   `json:"kit_id"`
	PlaceID        string   `json:"place_id"`
	PlaceName      string   `json:"place_name"`
	LocationBucket string   `json:"location_bucket"`

	draft models.Draft
}

// Validate is the entry checkpoint. It applies the same text rules as the
// service.
func (r *CreateReportRequest) Validate() error {
	careSetting, err := id.ParseCareSetting(r.CareSetting)
	if err != nil {
		return err
	}
	tags, err := id.ParseSituationTags(r.Tags, true)
	if err != nil {
		return err
	}
	visibility, err := models.ParseVisibility(r.Visibility)
	if err != nil {
		return err
	}
	// The note is kept as submitted so the length rule counts every
	// character; a blank note counts as none.
	shortText := r.ShortText
	if strings.TrimSpace(shortText) == "" {
		shortText = ""
	}
	draft := models.Draft{
		CareSetting:    careSetting,
		Tags:           tags,
		ShortText:      shortText,
		PlaceID:        strings.TrimSpace(r.PlaceID),
		PlaceName:      strings.TrimSpace(r.PlaceName),
		LocationBucket: strings.TrimSpace(r.LocationBucket),
		Visibility:     visibility,
	}
	if raw := strings.TrimSpace(r.KitID); raw != "" {
		kitID, err := id.ParseKitID(raw)
		if err != nil {
			return err
		}
		draft.KitID = &kitID
	}
	if len(draft.PlaceID) > maxPlaceFieldLength || len(draft.PlaceName) > maxPlaceFieldLength {
		return dErrors.New(dErrors.CodeValidation, "place is too long")
	}
	if len(draft.LocationBucket) > maxLocationBucketChars {
		return dErrors.New(dErrors.CodeValidation, "location bucket is too long")
	}
	if err := draft.Check(); err != nil {
		return err
	}
	r.draft = draft
	return nil
}

// ToModel returns the parsed draft; call after Validate.
func (r *CreateReportRequest) ToModel() models.Draft {
	return r.draft
}
