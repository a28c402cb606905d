package repo

import (
	"context"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/pgdb"
	"procurement-marketplace-api/pkg/postgres"
	"time"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	DoesUserExistById(ctx context.Context, id uuid.UUID) (bool, error)
}

type Opportunity interface {
	CreateOpportunity(ctx context.Context, input *entity.CreateOpportunityInput, creatorId uuid.UUID) (uuid.UUID, error)
	GetOpportunityById(ctx context.Context, id string) (*entity.Opportunity, error)
	GetOpportunities(ctx context.Context, filter *entity.OpportunityFilter, pg *entity.PaginationInput) ([]entity.OpportunitySlim, error)
	GetOpportunitiesByCreator(ctx context.Context, creatorId uuid.UUID, pg *entity.PaginationInput) ([]entity.OpportunitySlim, error)
	EditOpportunityById(ctx context.Context, id string, input *entity.EditOpportunityInput, editorId uuid.UUID) error
	RestoreOpportunityVersion(ctx context.Context, id string, version int, editorId uuid.UUID) error
	ListExpiredPublished(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	BeginEvaluation(ctx context.Context, opportunityId uuid.UUID, now time.Time) error
	GetCounts(ctx context.Context, opportunityId uuid.UUID) (*entity.OpportunityCounts, error)
	RecordPageView(ctx context.Context, opportunityId uuid.UUID) error
}

type History interface {
	AppendStatus(ctx context.Context, opportunityId uuid.UUID, status string, actorId uuid.UUID, note string) error
	AppendEvent(ctx context.Context, opportunityId uuid.UUID, event string, actorId uuid.UUID, note string) error
	GetHistory(ctx context.Context, opportunityId uuid.UUID) ([]entity.HistoryRecord, error)
}

type Addendum interface {
	CreateAddendum(ctx context.Context, opportunityId uuid.UUID, authorId uuid.UUID, description string) (uuid.UUID, error)
	EditAddendumById(ctx context.Context, opportunityId uuid.UUID, addendumId string, editorId uuid.UUID, description string) error
	GetAddendaByOpportunityId(ctx context.Context, opportunityId uuid.UUID) ([]entity.Addendum, error)
}

type Attachment interface {
	CreateFileRecord(ctx context.Context, input *entity.CreateFileInput) (*entity.FileRecord, error)
	GetFilesByVersionId(ctx context.Context, versionId uuid.UUID) ([]entity.FileRecord, error)
}

type Subscription interface {
	Subscribe(ctx context.Context, opportunityId uuid.UUID, userId uuid.UUID) error
	Unsubscribe(ctx context.Context, opportunityId uuid.UUID, userId uuid.UUID) error
}

type Proposal interface {
	CreateProposal(ctx context.Context, input *entity.CreateProposalInput, authorId uuid.UUID) (uuid.UUID, error)
	GetProposalById(ctx context.Context, id string) (*entity.Proposal, error)
	EditProposalById(ctx context.Context, id string, summary string, proposedCost float64) error
	UpdateProposalStatusById(ctx context.Context, id string, newStatus string) error
	GetProposalsByAuthor(ctx context.Context, authorId uuid.UUID, pg *entity.PaginationInput) ([]entity.Proposal, error)
	GetProposalsByOpportunityId(ctx context.Context, opportunityId uuid.UUID, pg *entity.PaginationInput) ([]entity.Proposal, error)
}

type Metrics interface {
	StatusCounts(ctx context.Context) ([]entity.StatusCount, error)
	BudgetTotals(ctx context.Context) (float64, float64, error)
	CountOpportunities(ctx context.Context) (int, error)
	CountProposals(ctx context.Context) (int, error)
}

type Repositories struct {
	Diagnostics
	User
	Opportunity
	History
	Addendum
	Attachment
	Subscription
	Proposal
	Metrics
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:  pgdb.NewDiagnosticsRepo(p),
		User:         pgdb.NewUserRepo(p),
		Opportunity:  pgdb.NewOpportunityRepo(p),
		History:      pgdb.NewHistoryRepo(p),
		Addendum:     pgdb.NewAddendumRepo(p),
		Attachment:   pgdb.NewAttachmentRepo(p),
		Subscription: pgdb.NewSubscriptionRepo(p),
		Proposal:     pgdb.NewProposalRepo(p),
		Metrics:      pgdb.NewMetricsRepo(p),
	}
}
