package service

import (
	"context"
	"errors"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/repo/repo_errors"
)

type ProposalService struct {
	proposalRepo    repo.Proposal
	opportunityRepo repo.Opportunity
	userRepo        repo.User
}

func NewProposalService(repos *repo.Repositories) *ProposalService {
	return &ProposalService{
		proposalRepo:    repos.Proposal,
		opportunityRepo: repos.Opportunity,
		userRepo:        repos.User,
	}
}

func (s *ProposalService) requireUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (s *ProposalService) CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (*entity.ProposalOutputModel, error) {
	user, err := s.requireUser(ctx, input.AuthorUsername)
	if err != nil {
		return nil, err
	}
	if user.Role != common.RoleVendor {
		return nil, ErrUserNotPermitted
	}

	opp, err := s.opportunityRepo.GetOpportunityById(ctx, input.OpportunityId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOpportunityNotFound
		}

		return nil, err
	}
	if opp.Status != common.Published {
		return nil, ErrNotAcceptingProposals
	}

	id, err := s.proposalRepo.CreateProposal(ctx, input, user.Id)
	if err != nil {
		return nil, err
	}

	proposal, err := s.proposalRepo.GetProposalById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapProposal(proposal), nil
}

func (s *ProposalService) EditProposalById(ctx context.Context, id string, username string, summary string, proposedCost float64) (*entity.ProposalOutputModel, error) {
	if summary == "" && proposedCost == 0 {
		return nil, ErrNoNewChanges
	}

	proposal, _, err := s.requireAuthor(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if proposal.Status != common.ProposalDraft {
		return nil, ErrProposalNotEditable
	}

	if err = s.proposalRepo.EditProposalById(ctx, id, summary, proposedCost); err != nil {
		return nil, err
	}

	proposal, err = s.proposalRepo.GetProposalById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapProposal(proposal), nil
}

// UpdateProposalStatusById moves a proposal along its lifecycle. Authors may
// submit and withdraw their own proposals; decisions on reviewed proposals
// belong to the opportunity's owner or an admin.
func (s *ProposalService) UpdateProposalStatusById(ctx context.Context, id string, newStatus string, username string) (*entity.ProposalOutputModel, error) {
	proposal, err := s.proposalRepo.GetProposalById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProposalNotFound
		}

		return nil, err
	}

	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case common.ProposalSubmitted, common.ProposalWithdrawn:
		if proposal.CreatedBy != user.Id {
			return nil, ErrUserHasNoAccessToProposal
		}
	default:
		opp, err := s.opportunityRepo.GetOpportunityById(ctx, proposal.OpportunityId.String())
		if err != nil {
			return nil, err
		}
		if !canManage(user, opp) {
			return nil, ErrUserHasNoAccessToProposal
		}
	}

	if !common.CanTransitionProposal(proposal.Status, newStatus) {
		return nil, ErrInvalidStatusTransition
	}

	if err = s.proposalRepo.UpdateProposalStatusById(ctx, id, newStatus); err != nil {
		return nil, err
	}

	proposal, err = s.proposalRepo.GetProposalById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapProposal(proposal), nil
}

func (s *ProposalService) GetUserProposals(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.ProposalOutputModel, error) {
	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.GetProposalsByAuthor(ctx, user.Id, pg)
	if err != nil {
		return nil, err
	}

	return mapProposals(proposals), nil
}

func (s *ProposalService) GetProposalsForOpportunity(ctx context.Context, opportunityId string, username string, pg *entity.PaginationInput) ([]entity.ProposalOutputModel, error) {
	opp, err := s.opportunityRepo.GetOpportunityById(ctx, opportunityId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOpportunityNotFound
		}

		return nil, err
	}

	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !canManage(user, opp) {
		return nil, ErrUserHasNoAccessToOpportunity
	}

	proposals, err := s.proposalRepo.GetProposalsByOpportunityId(ctx, opp.Id, pg)
	if err != nil {
		return nil, err
	}

	return mapProposals(proposals), nil
}

func (s *ProposalService) requireAuthor(ctx context.Context, id string, username string) (*entity.Proposal, *entity.User, error) {
	proposal, err := s.proposalRepo.GetProposalById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrProposalNotFound
		}

		return nil, nil, err
	}

	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if proposal.CreatedBy != user.Id {
		return nil, nil, ErrUserHasNoAccessToProposal
	}

	return proposal, user, nil
}
