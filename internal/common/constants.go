package common

// Opportunity statuses.
const (
	Draft      = "Draft"
	Published  = "Published"
	Evaluation = "Evaluation"
	Awarded    = "Awarded"
	Suspended  = "Suspended"
	Canceled   = "Canceled"
)

// History record kinds. A status row changes the opportunity's current
// status, an event row only documents something that happened.
const (
	KindStatus = "status"
	KindEvent  = "event"
)

// Lifecycle events recorded in the history log.
const (
	EventEdited         = "Edited"
	EventAddendumAdded  = "AddendumAdded"
	EventAddendumEdited = "AddendumEdited"
)

// User roles.
const (
	RoleVendor     = "Vendor"
	RoleGovernment = "Government"
	RoleAdmin      = "Admin"
)

// Proposal statuses.
const (
	ProposalDraft       = "Draft"
	ProposalSubmitted   = "Submitted"
	ProposalUnderReview = "UnderReview"
	ProposalAwarded     = "Awarded"
	ProposalNotAwarded  = "NotAwarded"
	ProposalWithdrawn   = "Withdrawn"
)

// PublicStatuses are the opportunity statuses visible to anonymous callers
// and vendors. Once published, the outcome of an opportunity stays public.
var PublicStatuses = []string{Published, Evaluation, Awarded}

var opportunityTransitions = map[string][]string{
	Draft:      {Published, Canceled},
	Published:  {Evaluation, Suspended, Canceled},
	Evaluation: {Awarded, Suspended, Canceled},
	Suspended:  {Published, Canceled},
	Awarded:    {},
	Canceled:   {},
}

var proposalTransitions = map[string][]string{
	ProposalDraft:       {ProposalSubmitted, ProposalWithdrawn},
	ProposalSubmitted:   {ProposalUnderReview, ProposalWithdrawn},
	ProposalUnderReview: {ProposalAwarded, ProposalNotAwarded},
	ProposalAwarded:     {},
	ProposalNotAwarded:  {},
	ProposalWithdrawn:   {},
}

func CanTransitionOpportunity(from string, to string) bool {
	return contains(opportunityTransitions[from], to)
}

func CanTransitionProposal(from string, to string) bool {
	return contains(proposalTransitions[from], to)
}

func IsPublicStatus(status string) bool {
	return contains(PublicStatuses, status)
}

// IsTerminalStatus reports whether no further transitions are possible, which
// also freezes edits, addenda and version restores.
func IsTerminalStatus(status string) bool {
	return len(opportunityTransitions[status]) == 0
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}

	return false
}
