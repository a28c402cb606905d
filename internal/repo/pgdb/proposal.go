package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const proposalColumns = "id, opportunity_id, created_by, created_at, updated_at, status, summary, proposed_cost"

type ProposalRepo struct {
	*postgres.Postgres
}

func NewProposalRepo(pgdb *postgres.Postgres) *ProposalRepo {
	return &ProposalRepo{pgdb}
}

func (r *ProposalRepo) CreateProposal(ctx context.Context, input *entity.CreateProposalInput, authorId uuid.UUID) (uuid.UUID, error) {
	opportunityUuid, err := uuid.Parse(input.OpportunityId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	createSql, args, _ := r.SqlBuilder.
		Insert("proposal").
		Columns("opportunity_id", "created_by", "status", "summary", "proposed_cost").
		Values(opportunityUuid, authorId, common.ProposalDraft, input.Summary, input.ProposedCost).
		Suffix("RETURNING id").
		ToSql()

	var proposalId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createSql, args...).Scan(&proposalId); err != nil {
		return uuid.Nil, err
	}

	return proposalId, nil
}

func (r *ProposalRepo) GetProposalById(ctx context.Context, id string) (*entity.Proposal, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposal").
		Where("id = ?", uuidForm).
		ToSql()

	var proposal entity.Proposal
	err = r.Database.QueryRowContext(ctx, getSql, args...).Scan(&proposal.Id, &proposal.OpportunityId,
		&proposal.CreatedBy, &proposal.CreatedAt, &proposal.UpdatedAt, &proposal.Status,
		&proposal.Summary, &proposal.ProposedCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &proposal, nil
}

func (r *ProposalRepo) EditProposalById(ctx context.Context, id string, summary string, proposedCost float64) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	builder := r.SqlBuilder.
		Update("proposal").
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm)

	if summary != "" {
		builder = builder.Set("summary", summary)
	}
	if proposedCost != 0 {
		builder = builder.Set("proposed_cost", proposedCost)
	}

	editSql, args, _ := builder.ToSql()
	_, err = r.Database.ExecContext(ctx, editSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *ProposalRepo) UpdateProposalStatusById(ctx context.Context, id string, newStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateSql, args, _ := r.SqlBuilder.
		Update("proposal").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	_, err = r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *ProposalRepo) GetProposalsByAuthor(ctx context.Context, authorId uuid.UUID, pg *entity.PaginationInput) ([]entity.Proposal, error) {
	listSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposal").
		Where("created_by = ?", authorId).
		OrderBy("created_at DESC, id DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.scanProposalRows(ctx, listSql, args)
}

func (r *ProposalRepo) GetProposalsByOpportunityId(ctx context.Context, opportunityId uuid.UUID, pg *entity.PaginationInput) ([]entity.Proposal, error) {
	listSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposal").
		Where("opportunity_id = ?", opportunityId).
		OrderBy("created_at DESC, id DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.scanProposalRows(ctx, listSql, args)
}

func (r *ProposalRepo) scanProposalRows(ctx context.Context, listSql string, args []interface{}) ([]entity.Proposal, error) {
	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proposals := make([]entity.Proposal, 0)
	for rows.Next() {
		var proposal entity.Proposal
		if err := rows.Scan(&proposal.Id, &proposal.OpportunityId, &proposal.CreatedBy,
			&proposal.CreatedAt, &proposal.UpdatedAt, &proposal.Status,
			&proposal.Summary, &proposal.ProposedCost); err != nil {
			return proposals, err
		}
		proposals = append(proposals, proposal)
	}
	if err = rows.Err(); err != nil {
		return proposals, err
	}

	return proposals, nil
}
