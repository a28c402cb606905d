package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOpportunity(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{Draft, Published, true},
		{Draft, Canceled, true},
		{Draft, Evaluation, false},
		{Draft, Awarded, false},
		{Published, Evaluation, true},
		{Published, Suspended, true},
		{Published, Canceled, true},
		{Published, Draft, false},
		{Evaluation, Awarded, true},
		{Evaluation, Suspended, true},
		{Evaluation, Published, false},
		{Suspended, Published, true},
		{Suspended, Canceled, true},
		{Suspended, Evaluation, false},
		{Awarded, Canceled, false},
		{Canceled, Published, false},
		{"NoSuchStatus", Published, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransitionOpportunity(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionProposal(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{ProposalDraft, ProposalSubmitted, true},
		{ProposalDraft, ProposalWithdrawn, true},
		{ProposalDraft, ProposalAwarded, false},
		{ProposalSubmitted, ProposalUnderReview, true},
		{ProposalSubmitted, ProposalWithdrawn, true},
		{ProposalSubmitted, ProposalAwarded, false},
		{ProposalUnderReview, ProposalAwarded, true},
		{ProposalUnderReview, ProposalNotAwarded, true},
		{ProposalUnderReview, ProposalWithdrawn, false},
		{ProposalAwarded, ProposalNotAwarded, false},
		{ProposalWithdrawn, ProposalSubmitted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransitionProposal(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestIsPublicStatus(t *testing.T) {
	assert.True(t, IsPublicStatus(Published))
	assert.True(t, IsPublicStatus(Evaluation))
	assert.True(t, IsPublicStatus(Awarded))
	assert.False(t, IsPublicStatus(Draft))
	assert.False(t, IsPublicStatus(Suspended))
	assert.False(t, IsPublicStatus(Canceled))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(Awarded))
	assert.True(t, IsTerminalStatus(Canceled))
	assert.False(t, IsTerminalStatus(Draft))
	assert.False(t, IsTerminalStatus(Published))
	assert.False(t, IsTerminalStatus(Evaluation))
	assert.False(t, IsTerminalStatus(Suspended))
}
