package service

import (
	"context"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"time"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) DoesUserExistById(_ context.Context, _ uuid.UUID) (bool, error) {
	return true, nil
}

type fakeOpportunityRepo struct {
	opportunity *entity.Opportunity
	counts      entity.OpportunityCounts

	createdInputs []*entity.CreateOpportunityInput
	editedInputs  []*entity.EditOpportunityInput
	restoreErr    error
	pageViews     int

	listedFilters []*entity.OpportunityFilter

	expired       []uuid.UUID
	evaluationErr map[uuid.UUID]error
	evaluated     []uuid.UUID
	listed        chan struct{}
}

func (f *fakeOpportunityRepo) CreateOpportunity(_ context.Context, input *entity.CreateOpportunityInput, _ uuid.UUID) (uuid.UUID, error) {
	f.createdInputs = append(f.createdInputs, input)
	return f.opportunity.Id, nil
}

func (f *fakeOpportunityRepo) GetOpportunityById(_ context.Context, _ string) (*entity.Opportunity, error) {
	if f.opportunity == nil {
		return nil, repo_errors.ErrNotFound
	}

	opp := *f.opportunity
	return &opp, nil
}

func (f *fakeOpportunityRepo) GetOpportunities(_ context.Context, filter *entity.OpportunityFilter, _ *entity.PaginationInput) ([]entity.OpportunitySlim, error) {
	f.listedFilters = append(f.listedFilters, filter)
	return nil, nil
}

func (f *fakeOpportunityRepo) GetOpportunitiesByCreator(_ context.Context, _ uuid.UUID, _ *entity.PaginationInput) ([]entity.OpportunitySlim, error) {
	return nil, nil
}

func (f *fakeOpportunityRepo) EditOpportunityById(_ context.Context, _ string, input *entity.EditOpportunityInput, _ uuid.UUID) error {
	f.editedInputs = append(f.editedInputs, input)
	return nil
}

func (f *fakeOpportunityRepo) RestoreOpportunityVersion(_ context.Context, _ string, _ int, _ uuid.UUID) error {
	return f.restoreErr
}

func (f *fakeOpportunityRepo) ListExpiredPublished(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	if f.listed != nil {
		defer func() { f.listed <- struct{}{} }()
	}

	return f.expired, nil
}

func (f *fakeOpportunityRepo) BeginEvaluation(_ context.Context, opportunityId uuid.UUID, _ time.Time) error {
	if err, ok := f.evaluationErr[opportunityId]; ok {
		return err
	}

	f.evaluated = append(f.evaluated, opportunityId)
	return nil
}

func (f *fakeOpportunityRepo) GetCounts(_ context.Context, _ uuid.UUID) (*entity.OpportunityCounts, error) {
	counts := f.counts
	return &counts, nil
}

func (f *fakeOpportunityRepo) RecordPageView(_ context.Context, _ uuid.UUID) error {
	f.pageViews++
	return nil
}

type fakeHistoryRepo struct {
	records  []entity.HistoryRecord
	statuses []string
	events   []string
}

func (f *fakeHistoryRepo) AppendStatus(_ context.Context, _ uuid.UUID, status string, _ uuid.UUID, _ string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeHistoryRepo) AppendEvent(_ context.Context, _ uuid.UUID, event string, _ uuid.UUID, _ string) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeHistoryRepo) GetHistory(_ context.Context, _ uuid.UUID) ([]entity.HistoryRecord, error) {
	return f.records, nil
}

type fakeAddendumRepo struct {
	addenda   []entity.Addendum
	createdId uuid.UUID
	getErr    error
	editErr   error
}

func (f *fakeAddendumRepo) CreateAddendum(_ context.Context, opportunityId uuid.UUID, authorId uuid.UUID, description string) (uuid.UUID, error) {
	f.createdId = uuid.New()
	f.addenda = append(f.addenda, entity.Addendum{
		Id:            f.createdId,
		OpportunityId: opportunityId,
		CreatedBy:     authorId,
		Description:   description,
	})

	return f.createdId, nil
}

func (f *fakeAddendumRepo) EditAddendumById(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID, _ string) error {
	return f.editErr
}

func (f *fakeAddendumRepo) GetAddendaByOpportunityId(_ context.Context, _ uuid.UUID) ([]entity.Addendum, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	return f.addenda, nil
}

type fakeAttachmentRepo struct {
	files  []entity.FileRecord
	getErr error
}

func (f *fakeAttachmentRepo) CreateFileRecord(_ context.Context, input *entity.CreateFileInput) (*entity.FileRecord, error) {
	return &entity.FileRecord{
		Id:          uuid.New(),
		Name:        input.Name,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
	}, nil
}

func (f *fakeAttachmentRepo) GetFilesByVersionId(_ context.Context, _ uuid.UUID) ([]entity.FileRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	return f.files, nil
}

type fakeSubscriptionRepo struct {
	subscribeErr   error
	unsubscribeErr error
	subscribed     []uuid.UUID
	unsubscribed   []uuid.UUID
}

func (f *fakeSubscriptionRepo) Subscribe(_ context.Context, _ uuid.UUID, userId uuid.UUID) error {
	if f.subscribeErr != nil {
		return f.subscribeErr
	}

	f.subscribed = append(f.subscribed, userId)
	return nil
}

func (f *fakeSubscriptionRepo) Unsubscribe(_ context.Context, _ uuid.UUID, userId uuid.UUID) error {
	if f.unsubscribeErr != nil {
		return f.unsubscribeErr
	}

	f.unsubscribed = append(f.unsubscribed, userId)
	return nil
}

type fakeProposalRepo struct {
	proposal *entity.Proposal
}

func (f *fakeProposalRepo) CreateProposal(_ context.Context, input *entity.CreateProposalInput, authorId uuid.UUID) (uuid.UUID, error) {
	f.proposal.CreatedBy = authorId
	f.proposal.Summary = input.Summary
	f.proposal.ProposedCost = input.ProposedCost
	return f.proposal.Id, nil
}

func (f *fakeProposalRepo) GetProposalById(_ context.Context, _ string) (*entity.Proposal, error) {
	if f.proposal == nil {
		return nil, repo_errors.ErrNotFound
	}

	proposal := *f.proposal
	return &proposal, nil
}

func (f *fakeProposalRepo) EditProposalById(_ context.Context, _ string, summary string, proposedCost float64) error {
	if summary != "" {
		f.proposal.Summary = summary
	}
	if proposedCost != 0 {
		f.proposal.ProposedCost = proposedCost
	}

	return nil
}

func (f *fakeProposalRepo) UpdateProposalStatusById(_ context.Context, _ string, newStatus string) error {
	f.proposal.Status = newStatus
	return nil
}

func (f *fakeProposalRepo) GetProposalsByAuthor(_ context.Context, _ uuid.UUID, _ *entity.PaginationInput) ([]entity.Proposal, error) {
	return []entity.Proposal{*f.proposal}, nil
}

func (f *fakeProposalRepo) GetProposalsByOpportunityId(_ context.Context, _ uuid.UUID, _ *entity.PaginationInput) ([]entity.Proposal, error) {
	return []entity.Proposal{*f.proposal}, nil
}

type fakeMetricsRepo struct {
	byStatus      []entity.StatusCount
	total         float64
	awarded       float64
	opportunities int
	proposals     int
}

func (f *fakeMetricsRepo) StatusCounts(_ context.Context) ([]entity.StatusCount, error) {
	return f.byStatus, nil
}

func (f *fakeMetricsRepo) BudgetTotals(_ context.Context) (float64, float64, error) {
	return f.total, f.awarded, nil
}

func (f *fakeMetricsRepo) CountOpportunities(_ context.Context) (int, error) {
	return f.opportunities, nil
}

func (f *fakeMetricsRepo) CountProposals(_ context.Context) (int, error) {
	return f.proposals, nil
}

func newTestRepos(opportunityRepo *fakeOpportunityRepo, userRepo *fakeUserRepo) (*repo.Repositories, *fakeHistoryRepo, *fakeAddendumRepo, *fakeAttachmentRepo, *fakeSubscriptionRepo) {
	historyRepo := &fakeHistoryRepo{}
	addendumRepo := &fakeAddendumRepo{}
	attachmentRepo := &fakeAttachmentRepo{}
	subscriptionRepo := &fakeSubscriptionRepo{}

	repos := &repo.Repositories{
		User:         userRepo,
		Opportunity:  opportunityRepo,
		History:      historyRepo,
		Addendum:     addendumRepo,
		Attachment:   attachmentRepo,
		Subscription: subscriptionRepo,
	}

	return repos, historyRepo, addendumRepo, attachmentRepo, subscriptionRepo
}
