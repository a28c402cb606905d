package service

import "errors"

var (
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrAddendumNotFound    = errors.New("addendum not found")
	ErrUserNotFound        = errors.New("user with given username not found")
	ErrNoSuchVersion       = errors.New("no such version")

	ErrUserHasNoAccessToOpportunity = errors.New("user doesn't have sufficient rights to access the opportunity")
	ErrUserHasNoAccessToProposal    = errors.New("user doesn't have sufficient rights to access the proposal")
	ErrUnauthorizedAnonymousAccess  = errors.New("try to pass username")
	ErrUserNotPermitted             = errors.New("user's role doesn't permit this action")

	ErrNoNewChanges                = errors.New("no new values")
	ErrInvalidStatusTransition     = errors.New("status transition is not allowed")
	ErrOpportunityClosedForChanges = errors.New("opportunity is in a terminal status and can't be changed")
	ErrNotAcceptingProposals       = errors.New("opportunity is not accepting proposals")
	ErrProposalNotEditable         = errors.New("proposal can only be edited while in draft")

	ErrAlreadySubscribed = errors.New("already watching this opportunity")
	ErrNotSubscribed     = errors.New("not watching this opportunity")

	// A join table row pointed at a record that no longer exists; the whole
	// read fails rather than returning a partial document.
	ErrLinkedRecordMissing = errors.New("opportunity references a missing linked record")
)
