package audit

import "time"

// Action names a lifecycle change worth recording.
type Action string

const (
	ActionKitCreated     Action = "kit_created"
	ActionKitDuplicated  Action = "kit_duplicated"
	ActionKitDeleted     Action = "kit_deleted"
	ActionKitPublished   Action = "kit_published"
	ActionKitUnpublished Action = "kit_unpublished"
	ActionReportCreated  Action = "report_created"
)

// Event is emitted from domain logic. It carries identifiers and enumerations
// only; free text never enters the audit stream.
type Event struct {
	Timestamp    time.Time         `json:"timestamp"`
	Action       Action            `json:"action"`
	UserID       string            `json:"user_id"`
	ResourceType string            `json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	RequestID    string            `json:"request_id,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}
