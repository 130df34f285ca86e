package handler

import (
	"algowatch/internal/generation/models"
	id "algowatch/pkg/domain"
)

// GenerateKitRequest is the body of POST /generate-kit.
type GenerateKitRequest struct {
	Checklist   []string `json:"checklist"`
	Audience    string   `json:"audience"`
	Tone        string   `json:"tone"`
	Role        string   `json:"role"`
	CareSetting string   `json:"careSetting"`

	parsed models.Request
}

// Validate parses every field into the controlled vocabulary.
func (r *GenerateKitRequest) Validate() error {
	tags, err := id.ParseSituationTags(r.Checklist, false)
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
	r.parsed = models.Request{
		Tags:        tags,
		Audience:    audience,
		Tone:        tone,
		Role:        role,
		CareSetting: careSetting,
	}
	return nil
}

// ToModel returns the parsed request; call after Validate.
func (r *GenerateKitRequest) ToModel() models.Request {
	return r.parsed
}
