package entity

import (
	"time"

	"github.com/google/uuid"
)

// One row of the append-only status/event log. A row either carries a status
// (changing the opportunity's current status) or an event; the log doubles as
// the audit trail. CreatedBy is null for system actions.
type HistoryRecord struct {
	Id             uuid.UUID
	OpportunityId  uuid.UUID
	CreatedAt      time.Time
	CreatedBy      uuid.NullUUID
	AuthorUsername string // resolved on read, "system" for null actors
	Kind           string
	Status         string
	Event          string
	Note           string
}

type HistoryOutputModel struct {
	Id        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	Author    string `json:"author"`
	Kind      string `json:"kind"`
	Status    string `json:"status,omitempty"`
	Event     string `json:"event,omitempty"`
	Note      string `json:"note,omitempty"`
}
