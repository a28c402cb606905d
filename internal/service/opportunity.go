package service

import (
	"context"
	"errors"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/repo/repo_errors"
)

type OpportunityService struct {
	opportunityRepo  repo.Opportunity
	historyRepo      repo.History
	addendumRepo     repo.Addendum
	attachmentRepo   repo.Attachment
	subscriptionRepo repo.Subscription
	userRepo         repo.User
}

func NewOpportunityService(repos *repo.Repositories) *OpportunityService {
	return &OpportunityService{
		opportunityRepo:  repos.Opportunity,
		historyRepo:      repos.History,
		addendumRepo:     repos.Addendum,
		attachmentRepo:   repos.Attachment,
		subscriptionRepo: repos.Subscription,
		userRepo:         repos.User,
	}
}

func (s *OpportunityService) requireUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

// canManage reports whether the user may see and change the opportunity's
// non-public state: its creator or any admin.
func canManage(user *entity.User, opp *entity.Opportunity) bool {
	return user.Role == common.RoleAdmin || opp.CreatedBy == user.Id
}

func (s *OpportunityService) CreateOpportunity(ctx context.Context, input *entity.CreateOpportunityInput) (*entity.OpportunityOutputModel, error) {
	user, err := s.requireUser(ctx, input.CreatorUsername)
	if err != nil {
		return nil, err
	}
	if user.Role != common.RoleGovernment && user.Role != common.RoleAdmin {
		return nil, ErrUserNotPermitted
	}

	id, err := s.opportunityRepo.CreateOpportunity(ctx, input, user.Id)
	if err != nil {
		return nil, err
	}

	return s.getOpportunityOutput(ctx, id.String(), true)
}

// GetOpportunityById resolves the displayed state of one opportunity: root +
// latest version + latest status, with attachments and addenda resolved into
// full records. Owners and admins additionally get the history log and
// view/watcher/proposal counts.
func (s *OpportunityService) GetOpportunityById(ctx context.Context, id string, username string, usernamePassed bool) (*entity.OpportunityOutputModel, error) {
	opp, err := s.opportunityRepo.GetOpportunityById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOpportunityNotFound
		}

		return nil, err
	}

	var user *entity.User
	if usernamePassed {
		user, err = s.requireUser(ctx, username)
		if err != nil {
			return nil, err
		}
	}

	if !common.IsPublicStatus(opp.Status) {
		if !usernamePassed {
			return nil, ErrUnauthorizedAnonymousAccess
		}
		if !canManage(user, opp) {
			return nil, ErrUserHasNoAccessToOpportunity
		}
	}

	includePrivate := usernamePassed && canManage(user, opp)
	output, err := s.buildOutput(ctx, opp, includePrivate)
	if err != nil {
		return nil, err
	}

	if err = s.opportunityRepo.RecordPageView(ctx, opp.Id); err != nil {
		return nil, err
	}

	return output, nil
}

func (s *OpportunityService) GetOpportunities(ctx context.Context, username string, usernamePassed bool, statuses []string, pg *entity.PaginationInput) ([]entity.OpportunitySlimOutputModel, error) {
	filter := &entity.OpportunityFilter{Statuses: statuses}

	if !usernamePassed {
		filter.PublicOnly = true
	} else {
		user, err := s.requireUser(ctx, username)
		if err != nil {
			return nil, err
		}

		switch user.Role {
		case common.RoleAdmin:
			// sees everything
		case common.RoleGovernment:
			filter.PublicOnly = true
			filter.OwnedBy = user.Id
		default:
			filter.PublicOnly = true
		}
	}

	opportunities, err := s.opportunityRepo.GetOpportunities(ctx, filter, pg)
	if err != nil {
		return nil, err
	}

	return mapSlims(opportunities), nil
}

func (s *OpportunityService) GetUserOpportunities(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.OpportunitySlimOutputModel, error) {
	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role != common.RoleGovernment && user.Role != common.RoleAdmin {
		return nil, ErrUserNotPermitted
	}

	opportunities, err := s.opportunityRepo.GetOpportunitiesByCreator(ctx, user.Id, pg)
	if err != nil {
		return nil, err
	}

	return mapSlims(opportunities), nil
}

func (s *OpportunityService) EditOpportunityById(ctx context.Context, id string, username string, input *entity.EditOpportunityInput) (*entity.OpportunityOutputModel, error) {
	if input.Empty() {
		return nil, ErrNoNewChanges
	}

	opp, user, err := s.requireManageable(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if common.IsTerminalStatus(opp.Status) {
		return nil, ErrOpportunityClosedForChanges
	}

	if err = s.opportunityRepo.EditOpportunityById(ctx, id, input, user.Id); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOpportunityNotFound
		}

		return nil, err
	}

	return s.getOpportunityOutput(ctx, id, true)
}

func (s *OpportunityService) UpdateOpportunityStatusById(ctx context.Context, id string, newStatus string, note string, username string) (*entity.OpportunityOutputModel, error) {
	opp, user, err := s.requireManageable(ctx, id, username)
	if err != nil {
		return nil, err
	}

	if !common.CanTransitionOpportunity(opp.Status, newStatus) {
		return nil, ErrInvalidStatusTransition
	}

	if err = s.historyRepo.AppendStatus(ctx, opp.Id, newStatus, user.Id, note); err != nil {
		return nil, err
	}

	return s.getOpportunityOutput(ctx, id, true)
}

func (s *OpportunityService) GetOpportunityHistory(ctx context.Context, id string, username string) ([]entity.HistoryOutputModel, error) {
	opp, _, err := s.requireManageable(ctx, id, username)
	if err != nil {
		return nil, err
	}

	records, err := s.historyRepo.GetHistory(ctx, opp.Id)
	if err != nil {
		return nil, err
	}

	return mapHistory(records), nil
}

func (s *OpportunityService) RestoreOpportunityVersion(ctx context.Context, id string, version int, username string) (*entity.OpportunityOutputModel, error) {
	opp, user, err := s.requireManageable(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if common.IsTerminalStatus(opp.Status) {
		return nil, ErrOpportunityClosedForChanges
	}

	if err = s.opportunityRepo.RestoreOpportunityVersion(ctx, id, version, user.Id); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrNoSuchVersion
		}

		return nil, err
	}

	return s.getOpportunityOutput(ctx, id, true)
}

func (s *OpportunityService) Subscribe(ctx context.Context, id string, username string) error {
	opp, user, err := s.requireVisible(ctx, id, username)
	if err != nil {
		return err
	}

	if err = s.subscriptionRepo.Subscribe(ctx, opp.Id, user.Id); err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return ErrAlreadySubscribed
		}

		return err
	}

	return nil
}

func (s *OpportunityService) Unsubscribe(ctx context.Context, id string, username string) error {
	opp, user, err := s.requireVisible(ctx, id, username)
	if err != nil {
		return err
	}

	if err = s.subscriptionRepo.Unsubscribe(ctx, opp.Id, user.Id); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrNotSubscribed
		}

		return err
	}

	return nil
}

func (s *OpportunityService) AddAddendum(ctx context.Context, id string, username string, description string) (*entity.AddendumOutputModel, error) {
	opp, user, err := s.requireManageable(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if common.IsTerminalStatus(opp.Status) {
		return nil, ErrOpportunityClosedForChanges
	}

	addendumId, err := s.addendumRepo.CreateAddendum(ctx, opp.Id, user.Id, description)
	if err != nil {
		return nil, err
	}

	return s.findAddendum(ctx, opp, addendumId.String())
}

func (s *OpportunityService) EditAddendumById(ctx context.Context, id string, addendumId string, username string, description string) (*entity.AddendumOutputModel, error) {
	opp, user, err := s.requireManageable(ctx, id, username)
	if err != nil {
		return nil, err
	}

	if err = s.addendumRepo.EditAddendumById(ctx, opp.Id, addendumId, user.Id, description); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAddendumNotFound
		}

		return nil, err
	}

	return s.findAddendum(ctx, opp, addendumId)
}

func (s *OpportunityService) RegisterFile(ctx context.Context, username string, input *entity.CreateFileInput) (*entity.FileOutputModel, error) {
	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role != common.RoleGovernment && user.Role != common.RoleAdmin {
		return nil, ErrUserNotPermitted
	}

	file, err := s.attachmentRepo.CreateFileRecord(ctx, input)
	if err != nil {
		return nil, err
	}

	return mapFile(file), nil
}

// requireManageable loads the opportunity and the user and checks the user
// may manage it (creator or admin).
func (s *OpportunityService) requireManageable(ctx context.Context, id string, username string) (*entity.Opportunity, *entity.User, error) {
	opp, err := s.opportunityRepo.GetOpportunityById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrOpportunityNotFound
		}

		return nil, nil, err
	}

	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if !canManage(user, opp) {
		return nil, nil, ErrUserHasNoAccessToOpportunity
	}

	return opp, user, nil
}

// requireVisible loads the opportunity and the user and checks the user may
// at least see it (public status, or creator/admin).
func (s *OpportunityService) requireVisible(ctx context.Context, id string, username string) (*entity.Opportunity, *entity.User, error) {
	opp, err := s.opportunityRepo.GetOpportunityById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrOpportunityNotFound
		}

		return nil, nil, err
	}

	user, err := s.requireUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if !common.IsPublicStatus(opp.Status) && !canManage(user, opp) {
		return nil, nil, ErrUserHasNoAccessToOpportunity
	}

	return opp, user, nil
}

func (s *OpportunityService) getOpportunityOutput(ctx context.Context, id string, includePrivate bool) (*entity.OpportunityOutputModel, error) {
	opp, err := s.opportunityRepo.GetOpportunityById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOpportunityNotFound
		}

		return nil, err
	}

	return s.buildOutput(ctx, opp, includePrivate)
}

// buildOutput resolves all linked records. A dangling attachment or addendum
// link fails the whole read.
func (s *OpportunityService) buildOutput(ctx context.Context, opp *entity.Opportunity, includePrivate bool) (*entity.OpportunityOutputModel, error) {
	files, err := s.attachmentRepo.GetFilesByVersionId(ctx, opp.VersionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrBrokenLink) {
			return nil, ErrLinkedRecordMissing
		}

		return nil, err
	}

	addenda, err := s.addendumRepo.GetAddendaByOpportunityId(ctx, opp.Id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrBrokenLink) {
			return nil, ErrLinkedRecordMissing
		}

		return nil, err
	}

	output := mapOpportunity(opp, files, addenda)
	if !includePrivate {
		return output, nil
	}

	records, err := s.historyRepo.GetHistory(ctx, opp.Id)
	if err != nil {
		return nil, err
	}
	output.History = mapHistory(records)

	counts, err := s.opportunityRepo.GetCounts(ctx, opp.Id)
	if err != nil {
		return nil, err
	}
	output.Counts = counts

	return output, nil
}

func (s *OpportunityService) findAddendum(ctx context.Context, opp *entity.Opportunity, addendumId string) (*entity.AddendumOutputModel, error) {
	addenda, err := s.addendumRepo.GetAddendaByOpportunityId(ctx, opp.Id)
	if err != nil {
		return nil, err
	}

	for _, addendum := range addenda {
		if addendum.Id.String() == addendumId {
			return mapAddendum(&addendum), nil
		}
	}

	return nil, ErrAddendumNotFound
}
