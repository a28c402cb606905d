package pgdb

import (
	"context"
	"errors"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type SubscriptionRepo struct {
	*postgres.Postgres
}

func NewSubscriptionRepo(pgdb *postgres.Postgres) *SubscriptionRepo {
	return &SubscriptionRepo{pgdb}
}

func (r *SubscriptionRepo) Subscribe(ctx context.Context, opportunityId uuid.UUID, userId uuid.UUID) error {
	subscribeSql, args, _ := r.SqlBuilder.
		Insert("subscription").
		Columns("opportunity_id", "user_id").
		Values(opportunityId, userId).
		ToSql()

	_, err := r.Database.ExecContext(ctx, subscribeSql, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return repo_errors.ErrAlreadyExists
		}

		return err
	}

	return nil
}

func (r *SubscriptionRepo) Unsubscribe(ctx context.Context, opportunityId uuid.UUID, userId uuid.UUID) error {
	unsubscribeSql, args, _ := r.SqlBuilder.
		Delete("subscription").
		Where("opportunity_id = ?", opportunityId).
		Where("user_id = ?", userId).
		ToSql()

	result, err := r.Database.ExecContext(ctx, unsubscribeSql, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}
