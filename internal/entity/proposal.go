package entity

import (
	"time"

	"github.com/google/uuid"
)

type Proposal struct {
	Id            uuid.UUID
	OpportunityId uuid.UUID
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Status        string
	Summary       string
	ProposedCost  float64
}

// service + repo input model
type CreateProposalInput struct {
	OpportunityId  string
	Summary        string
	ProposedCost   float64
	AuthorUsername string
	// Status starts as Draft, Id and timestamps set by the repo
}

type ProposalOutputModel struct {
	Id            string  `json:"id"`
	OpportunityId string  `json:"opportunityId"`
	Status        string  `json:"status"`
	Summary       string  `json:"summary"`
	ProposedCost  float64 `json:"proposedCost"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}
