package pgdb

import (
	"context"
	"database/sql"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AddendumRepo struct {
	*postgres.Postgres
}

func NewAddendumRepo(pgdb *postgres.Postgres) *AddendumRepo {
	return &AddendumRepo{pgdb}
}

// CreateAddendum inserts the addendum and its AddendumAdded history row in
// one transaction so the audit trail can never miss a published clarification.
func (r *AddendumRepo) CreateAddendum(ctx context.Context, opportunityId uuid.UUID, authorId uuid.UUID, description string) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	createSql, args, _ := r.SqlBuilder.
		Insert("addendum").
		Columns("opportunity_id", "created_by", "description").
		Values(opportunityId, authorId, description).
		Suffix("RETURNING id").
		ToSql()

	var addendumId uuid.UUID
	if err = tx.QueryRowContext(ctx, createSql, args...).Scan(&addendumId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	eventSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "event").
		Values(opportunityId, authorId, common.KindEvent, common.EventAddendumAdded).
		ToSql()

	if _, err = tx.ExecContext(ctx, eventSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return addendumId, nil
}

func (r *AddendumRepo) EditAddendumById(ctx context.Context, opportunityId uuid.UUID, addendumId string, editorId uuid.UUID, description string) error {
	uuidForm, err := uuid.Parse(addendumId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	editSql, args, _ := r.SqlBuilder.
		Update("addendum").
		Set("description", description).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		Where("opportunity_id = ?", opportunityId).
		ToSql()

	result, err := tx.ExecContext(ctx, editSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrNotFound
	}

	eventSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "event").
		Values(opportunityId, editorId, common.KindEvent, common.EventAddendumEdited).
		ToSql()

	if _, err = tx.ExecContext(ctx, eventSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetAddendaByOpportunityId resolves every addendum with its author; an
// addendum whose author row is gone fails the read.
func (r *AddendumRepo) GetAddendaByOpportunityId(ctx context.Context, opportunityId uuid.UUID) ([]entity.Addendum, error) {
	getSql, args, _ := r.SqlBuilder.
		Select("a.id, a.opportunity_id, a.created_by, u.username, a.created_at, a.updated_at, a.description").
		From("addendum a").
		LeftJoin("app_user u ON u.id = a.created_by").
		Where("a.opportunity_id = ?", opportunityId).
		OrderBy("a.created_at ASC, a.id ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addenda := make([]entity.Addendum, 0)
	for rows.Next() {
		var addendum entity.Addendum
		var username sql.NullString
		if err := rows.Scan(&addendum.Id, &addendum.OpportunityId, &addendum.CreatedBy,
			&username, &addendum.CreatedAt, &addendum.UpdatedAt, &addendum.Description); err != nil {
			return addenda, err
		}
		if !username.Valid {
			return nil, repo_errors.ErrBrokenLink
		}
		addendum.AuthorUsername = username.String
		addenda = append(addenda, addendum)
	}
	if err = rows.Err(); err != nil {
		return addenda, err
	}

	return addenda, nil
}
