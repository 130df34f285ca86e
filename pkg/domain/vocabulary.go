package domain

import (
	"strings"

	dErrors "algowatch/pkg/domain-errors"
)

// Audience is who a generated letter is addressed to.
type Audience string

const (
	AudienceHospitalCompliance Audience = "hospital_compliance"
	AudienceInsurer            Audience = "insurer"
	AudienceRegulator          Audience = "regulator"
)

// Tone controls the register of a generated letter.
type Tone string

const (
	ToneNeutral       Tone = "neutral"
	ToneFirm          Tone = "firm"
	ToneCollaborative Tone = "collaborative"
)

// Role is the requester's relationship to the affected patient.
type Role string

const (
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
	RoleClinician Role = "clinician"
	RoleAdvocate  Role = "advocate"
)

// CareSetting is where the algorithmic decision happened.
type CareSetting string

const (
	CareSettingPrimaryCare           CareSetting = "primary_care"
	CareSettingHospitalDischarge     CareSetting = "hospital_discharge"
	CareSettingInsurerCareManagement CareSetting = "insurer_care_management"
	CareSettingSpecialty             CareSetting = "specialty"
	CareSettingOther                 CareSetting = "other"
)

// SituationTag is one item of the controlled "what happened" vocabulary.
// Invariant: reports accept every tag except TagDifferentTreatment, which only
// makes sense inside a generated kit.
type SituationTag string

const (
	TagDeniedService      SituationTag = "denied_service"
	TagAlgorithmMentioned SituationTag = "algorithm_mentioned"
	TagCostCited          SituationTag = "cost_cited"
	TagNoExplanation      SituationTag = "no_explanation"
	TagAppealDenied       SituationTag = "appeal_denied"
	TagDifferentTreatment SituationTag = "different_treatment"
	TagCareDelayed        SituationTag = "care_delayed"
	TagDischargedEarly    SituationTag = "discharged_early"
	TagPriorAuthDenied    SituationTag = "prior_auth_denied"
	TagRiskScoreUsed      SituationTag = "risk_score_used"
)

var (
	validAudiences = map[Audience]bool{
		AudienceHospitalCompliance: true,
		AudienceInsurer:            true,
		AudienceRegulator:          true,
	}
	validTones = map[Tone]bool{
		ToneNeutral:       true,
		ToneFirm:          true,
		ToneCollaborative: true,
	}
	validRoles = map[Role]bool{
		RolePatient:   true,
		RoleCaregiver: true,
		RoleClinician: true,
		RoleAdvocate:  true,
	}
	validCareSettings = map[CareSetting]bool{
		CareSettingPrimaryCare:           true,
		CareSettingHospitalDischarge:     true,
		CareSettingInsurerCareManagement: true,
		CareSettingSpecialty:             true,
		CareSettingOther:                 true,
	}
	validSituationTags = map[SituationTag]bool{
		TagDeniedService:      true,
		TagAlgorithmMentioned: true,
		TagCostCited:          true,
		TagNoExplanation:      true,
		TagAppealDenied:       true,
		TagDifferentTreatment: true,
		TagCareDelayed:        true,
		TagDischargedEarly:    true,
		TagPriorAuthDenied:    true,
		TagRiskScoreUsed:      true,
	}
)

func (a Audience) IsValid() bool     { return validAudiences[a] }
func (t Tone) IsValid() bool         { return validTones[t] }
func (r Role) IsValid() bool         { return validRoles[r] }
func (c CareSetting) IsValid() bool  { return validCareSettings[c] }
func (s SituationTag) IsValid() bool { return validSituationTags[s] }

// IsReportTag reports whether the tag may appear on a disclosure report.
func (s SituationTag) IsReportTag() bool {
	return s.IsValid() && s != TagDifferentTreatment
}

// Humanize renders an identifier for prose: underscores become spaces.
func Humanize(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

func parseEnum[T ~string](field, raw string, valid func(T) bool) (T, error) {
	value := T(strings.TrimSpace(raw))
	if value == "" {
		return "", dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if !valid(value) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid "+field)
	}
	return value, nil
}

// ParseAudience, ParseTone, ParseRole and ParseCareSetting construct enum
// values from request input. They fail with CodeValidation.
func ParseAudience(s string) (Audience, error) {
	return parseEnum("audience", s, Audience.IsValid)
}

func ParseTone(s string) (Tone, error) {
	return parseEnum("tone", s, Tone.IsValid)
}

func ParseRole(s string) (Role, error) {
	return parseEnum("role", s, Role.IsValid)
}

func ParseCareSetting(s string) (CareSetting, error) {
	return parseEnum("care setting", s, CareSetting.IsValid)
}

// ParseSituationTags validates and de-duplicates tags, preserving order.
// reportOnly restricts the vocabulary to the report subset.
func ParseSituationTags(raw []string, reportOnly bool) ([]SituationTag, error) {
	seen := make(map[SituationTag]struct{}, len(raw))
	tags := make([]SituationTag, 0, len(raw))
	for _, r := range raw {
		tag := SituationTag(strings.TrimSpace(r))
		if tag == "" {
			continue
		}
		ok := tag.IsValid()
		if reportOnly {
			ok = tag.IsReportTag()
		}
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid tag: "+string(tag))
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags, nil
}

// TagStrings converts tags for storage.
func TagStrings(tags []SituationTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
