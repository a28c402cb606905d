package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model: immutable root joined with its latest version and latest status.
// Currency is always computed from the append-only tables, never stored.
type Opportunity struct {
	Id                 uuid.UUID
	CreatedBy          uuid.UUID
	CreatedAt          time.Time
	Status             string
	VersionId          uuid.UUID // row id of the latest version, resolves attachments
	Version            int
	Title              string
	Teaser             string
	Description        string
	Location           string
	MaxBudget          float64
	EvaluationCriteria string
	ProposalDeadline   time.Time
	AssignmentDate     time.Time
	StartDate          time.Time
	CompletionDate     time.Time
}

// slim listing row
type OpportunitySlim struct {
	Id               uuid.UUID
	Title            string
	Status           string
	Version          int
	ProposalDeadline time.Time
	CreatedAt        time.Time
}

// service + repo input model
type CreateOpportunityInput struct {
	Title              string
	Teaser             string
	Description        string
	Location           string
	MaxBudget          float64
	EvaluationCriteria string
	ProposalDeadline   time.Time
	AssignmentDate     time.Time
	StartDate          time.Time
	CompletionDate     time.Time
	CreatorUsername    string
	AttachmentIds      []string
	// Id, CreatedAt, initial Draft status set by the repo
}

// Zero-valued fields carry forward from the previous version.
type EditOpportunityInput struct {
	Title              string
	Teaser             string
	Description        string
	Location           string
	MaxBudget          float64
	EvaluationCriteria string
	ProposalDeadline   time.Time
	AssignmentDate     time.Time
	StartDate          time.Time
	CompletionDate     time.Time
	// AttachmentIds nil keeps the previous version's links
	AttachmentIds []string
}

func (in *EditOpportunityInput) Empty() bool {
	return in.Title == "" && in.Teaser == "" && in.Description == "" &&
		in.Location == "" && in.MaxBudget == 0 && in.EvaluationCriteria == "" &&
		in.ProposalDeadline.IsZero() && in.AssignmentDate.IsZero() &&
		in.StartDate.IsZero() && in.CompletionDate.IsZero() &&
		in.AttachmentIds == nil
}

type OpportunityCounts struct {
	Views     int `json:"views"`
	Watchers  int `json:"watchers"`
	Proposals int `json:"proposals"`
}

// visibility filter pushed into listing SQL
type OpportunityFilter struct {
	Statuses   []string  // optional explicit status filter
	PublicOnly bool      // restrict to publicly visible statuses
	OwnedBy    uuid.UUID // with PublicOnly, also include rows created by this user
}

// controller models
type OpportunityOutputModel struct {
	Id                 string              `json:"id"`
	Status             string              `json:"status"`
	Version            int                 `json:"version"`
	CreatedBy          string              `json:"createdBy"`
	CreatedAt          string              `json:"createdAt"`
	Title              string              `json:"title"`
	Teaser             string              `json:"teaser"`
	Description        string              `json:"description"`
	Location           string              `json:"location"`
	MaxBudget          float64             `json:"maxBudget"`
	EvaluationCriteria string              `json:"evaluationCriteria"`
	ProposalDeadline   string              `json:"proposalDeadline,omitempty"`
	AssignmentDate     string              `json:"assignmentDate,omitempty"`
	StartDate          string              `json:"startDate,omitempty"`
	CompletionDate     string              `json:"completionDate,omitempty"`
	Attachments        []FileOutputModel   `json:"attachments"`
	Addenda            []AddendumOutputModel `json:"addenda"`
	History            []HistoryOutputModel  `json:"history,omitempty"`
	Counts             *OpportunityCounts    `json:"counts,omitempty"`
}

type OpportunitySlimOutputModel struct {
	Id               string `json:"id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	Version          int    `json:"version"`
	ProposalDeadline string `json:"proposalDeadline,omitempty"`
	CreatedAt        string `json:"createdAt"`
}
