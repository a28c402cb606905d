package pgdb

import (
	"context"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

// MetricsRepo computes reporting aggregates over the same latest-version and
// latest-status joins the read path uses, so reports can never disagree with
// what a reader of the individual opportunity would see.
type MetricsRepo struct {
	*postgres.Postgres
}

func NewMetricsRepo(pgdb *postgres.Postgres) *MetricsRepo {
	return &MetricsRepo{pgdb}
}

func (r *MetricsRepo) StatusCounts(ctx context.Context) ([]entity.StatusCount, error) {
	countSql, args, _ := r.SqlBuilder.
		Select("h.status, COUNT(*)").
		From("opportunity o").
		InnerJoin(latestStatusJoin).
		GroupBy("h.status").
		OrderBy("h.status ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, countSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]entity.StatusCount, 0)
	for rows.Next() {
		var count entity.StatusCount
		if err := rows.Scan(&count.Status, &count.Count); err != nil {
			return counts, err
		}
		counts = append(counts, count)
	}
	if err = rows.Err(); err != nil {
		return counts, err
	}

	return counts, nil
}

// BudgetTotals returns the max-budget sum over all opportunities and over the
// awarded ones, both taken from the current version.
func (r *MetricsRepo) BudgetTotals(ctx context.Context) (float64, float64, error) {
	totalsSql, args, _ := r.SqlBuilder.
		Select("COALESCE(SUM(v.max_budget), 0)").
		Column(squirrel.Expr("COALESCE(SUM(v.max_budget) FILTER (WHERE h.status = ?), 0)", common.Awarded)).
		From("opportunity o").
		InnerJoin(latestVersionJoin).
		InnerJoin(latestStatusJoin).
		ToSql()

	var total, awarded float64
	if err := r.Database.QueryRowContext(ctx, totalsSql, args...).Scan(&total, &awarded); err != nil {
		return 0, 0, err
	}

	return total, awarded, nil
}

func (r *MetricsRepo) CountOpportunities(ctx context.Context) (int, error) {
	countSql, args, _ := r.SqlBuilder.
		Select("COUNT(*)").
		From("opportunity").
		ToSql()

	var count int
	if err := r.Database.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *MetricsRepo) CountProposals(ctx context.Context) (int, error) {
	countSql, args, _ := r.SqlBuilder.
		Select("COUNT(*)").
		From("proposal").
		ToSql()

	var count int
	if err := r.Database.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
