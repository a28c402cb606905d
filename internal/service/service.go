package service

import (
	"context"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Opportunity interface {
	CreateOpportunity(ctx context.Context, input *entity.CreateOpportunityInput) (*entity.OpportunityOutputModel, error)
	GetOpportunityById(ctx context.Context, id string, username string, usernamePassed bool) (*entity.OpportunityOutputModel, error)
	GetOpportunities(ctx context.Context, username string, usernamePassed bool, statuses []string, pg *entity.PaginationInput) ([]entity.OpportunitySlimOutputModel, error)
	GetUserOpportunities(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.OpportunitySlimOutputModel, error)

	EditOpportunityById(ctx context.Context, id string, username string, input *entity.EditOpportunityInput) (*entity.OpportunityOutputModel, error)
	UpdateOpportunityStatusById(ctx context.Context, id string, newStatus string, note string, username string) (*entity.OpportunityOutputModel, error)
	GetOpportunityHistory(ctx context.Context, id string, username string) ([]entity.HistoryOutputModel, error)
	RestoreOpportunityVersion(ctx context.Context, id string, version int, username string) (*entity.OpportunityOutputModel, error)

	Subscribe(ctx context.Context, id string, username string) error
	Unsubscribe(ctx context.Context, id string, username string) error

	AddAddendum(ctx context.Context, id string, username string, description string) (*entity.AddendumOutputModel, error)
	EditAddendumById(ctx context.Context, id string, addendumId string, username string, description string) (*entity.AddendumOutputModel, error)

	RegisterFile(ctx context.Context, username string, input *entity.CreateFileInput) (*entity.FileOutputModel, error)
}

type Proposal interface {
	CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (*entity.ProposalOutputModel, error)
	EditProposalById(ctx context.Context, id string, username string, summary string, proposedCost float64) (*entity.ProposalOutputModel, error)
	UpdateProposalStatusById(ctx context.Context, id string, newStatus string, username string) (*entity.ProposalOutputModel, error)
	GetUserProposals(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.ProposalOutputModel, error)
	GetProposalsForOpportunity(ctx context.Context, opportunityId string, username string, pg *entity.PaginationInput) ([]entity.ProposalOutputModel, error)
}

type Report interface {
	GetOpportunityReport(ctx context.Context, username string) (*entity.OpportunityReport, error)
}

type Services struct {
	Diagnostics Diagnostics
	Opportunity Opportunity
	Proposal    Proposal
	Report      Report
}

func NewServices(repos *repo.Repositories) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Opportunity: NewOpportunityService(repos),
		Proposal:    NewProposalService(repos),
		Report:      NewReportService(repos),
	}
}
