package models

import (
	"errors"
	"strings"

	id "algowatch/pkg/domain"
)

// Request carries the classification inputs of one kit generation.
type Request struct {
	Tags        []id.SituationTag
	Audience    id.Audience
	Tone        id.Tone
	Role        id.Role
	CareSetting id.CareSetting
}

// Result is the structured payload the model returns through the forced tool
// call. It is passed to the caller unchanged.
type Result struct {
	Letter    string       `json:"letter"`
	Checklist id.Checklist `json:"checklist"`
	Explainer string       `json:"explainer"`
}

// ErrIncompletePayload is returned when the tool arguments decode but lack
// part of the kit.
var ErrIncompletePayload = errors.New("incomplete kit payload")

// Complete checks that every part of the kit is present: a letter, an
// explainer and at least one named checklist section.
func (r *Result) Complete() error {
	if r == nil || strings.TrimSpace(r.Letter) == "" || strings.TrimSpace(r.Explainer) == "" {
		return ErrIncompletePayload
	}
	if len(r.Checklist) == 0 {
		return ErrIncompletePayload
	}
	for _, section := range r.Checklist {
		if strings.TrimSpace(section.Section) == "" {
			return ErrIncompletePayload
		}
	}
	return nil
}

// Prompt is the provider-neutral completion contract: two instructions and one
// function the provider must call with arguments matching Schema.
type Prompt struct {
	System          string
	User            string
	ToolName        string
	ToolDescription string
	Schema          map[string]any
}
