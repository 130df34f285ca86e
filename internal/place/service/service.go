package service

import (
	"context"
	"strings"
	"unicode"

	"algowatch/internal/place/models"
	dErrors "algowatch/pkg/domain-errors"
)

// PendingAddress stands in for a real address until a geocoder is wired.
const PendingAddress = "Address will appear when Google Places is connected"

const maxQueryLength = 200

// StubResolver answers every query with one synthetic place whose id is
// derived from the query text.
type StubResolver struct{}

func NewStubResolver() *StubResolver {
	return &StubResolver{}
}

// Resolve returns exactly one place: "place_" followed by the query with each
// whitespace character replaced by "_", lowercased.
func (StubResolver) Resolve(_ context.Context, query string) ([]models.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "query is required")
	}
	if len(query) > maxQueryLength {
		return nil, dErrors.New(dErrors.CodeValidation, "query is too long")
	}
	return []models.Place{{
		PlaceID: "place_" + strings.ToLower(strings.Map(underscoreSpace, query)),
		Name:    query,
		Address: PendingAddress,
	}}, nil
}

func underscoreSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return '_'
	}
	return r
}
