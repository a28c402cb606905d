package pgdb

import (
	"context"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

// HistoryRepo owns the append-only status/event log. Rows are never updated
// or deleted; the current status is whatever status-kind row sorts last.
type HistoryRepo struct {
	*postgres.Postgres
}

func NewHistoryRepo(pgdb *postgres.Postgres) *HistoryRepo {
	return &HistoryRepo{pgdb}
}

func (r *HistoryRepo) AppendStatus(ctx context.Context, opportunityId uuid.UUID, status string, actorId uuid.UUID, note string) error {
	appendSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "status", "note").
		Values(opportunityId, actorId, common.KindStatus, status, note).
		ToSql()

	_, err := r.Database.ExecContext(ctx, appendSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *HistoryRepo) AppendEvent(ctx context.Context, opportunityId uuid.UUID, event string, actorId uuid.UUID, note string) error {
	appendSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "event", "note").
		Values(opportunityId, actorId, common.KindEvent, event, note).
		ToSql()

	_, err := r.Database.ExecContext(ctx, appendSql, args...)
	if err != nil {
		return err
	}

	return nil
}

// GetHistory returns the full log oldest-first, with actor usernames
// resolved; rows written by the system carry a null actor.
func (r *HistoryRepo) GetHistory(ctx context.Context, opportunityId uuid.UUID) ([]entity.HistoryRecord, error) {
	historySql, args, _ := r.SqlBuilder.
		Select("oh.id, oh.opportunity_id, oh.created_at, oh.created_by, COALESCE(u.username, 'system'), " +
			"oh.kind, COALESCE(oh.status, ''), COALESCE(oh.event, ''), COALESCE(oh.note, '')").
		From("opportunity_history oh").
		LeftJoin("app_user u ON u.id = oh.created_by").
		Where("oh.opportunity_id = ?", opportunityId).
		OrderBy("oh.created_at ASC, oh.id ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, historySql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]entity.HistoryRecord, 0)
	for rows.Next() {
		var record entity.HistoryRecord
		if err := rows.Scan(&record.Id, &record.OpportunityId, &record.CreatedAt, &record.CreatedBy,
			&record.AuthorUsername, &record.Kind, &record.Status, &record.Event, &record.Note); err != nil {
			return records, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return records, err
	}

	return records, nil
}
