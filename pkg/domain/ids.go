// Package domain holds identifier types shared by every bounded context.
//
// Each identifier is a distinct named UUID type so an owner id can never be
// passed where a kit id is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "algowatch/pkg/domain-errors"
)

type (
	// UserID identifies the caller as resolved by the identity provider.
	UserID uuid.UUID
	// KitID identifies an advocacy kit.
	KitID uuid.UUID
	// ReportID identifies a disclosure report.
	ReportID uuid.UUID
	// PublicationID identifies a shared-kit publication row.
	PublicationID uuid.UUID
)

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id KitID) String() string         { return uuid.UUID(id).String() }
func (id ReportID) String() string      { return uuid.UUID(id).String() }
func (id PublicationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id KitID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ReportID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id PublicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed ids serialize as plain UUID strings in JSON.
func (id KitID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ReportID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func NewKitID() KitID                 { return KitID(uuid.New()) }
func NewReportID() ReportID           { return ReportID(uuid.New()) }
func NewPublicationID() PublicationID { return PublicationID(uuid.New()) }

func parseUUID(kind, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

// ParseUserID parses a caller identity taken from a verified token subject.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID("user id", raw)
	return UserID(parsed), err
}

// ParseKitID parses a kit identifier from a request.
func ParseKitID(raw string) (KitID, error) {
	parsed, err := parseUUID("kit id", raw)
	return KitID(parsed), err
}

// ParseReportID parses a report identifier.
func ParseReportID(raw string) (ReportID, error) {
	parsed, err := parseUUID("report id", raw)
	return ReportID(parsed), err
}
