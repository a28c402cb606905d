package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"procurement-marketplace-api/pkg/postgres"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// The displayed state of an opportunity is always root + latest version +
// latest status, resolved through correlated subqueries. Nothing about the
// current state is ever written back onto the root row.
const (
	latestVersionJoin = `opportunity_version v ON v.opportunity_id = o.id AND v.id = (
		SELECT id FROM opportunity_version
		WHERE opportunity_id = o.id
		ORDER BY created_at DESC, id DESC
		LIMIT 1)`

	latestStatusJoin = `opportunity_history h ON h.opportunity_id = o.id AND h.id = (
		SELECT id FROM opportunity_history
		WHERE opportunity_id = o.id AND kind = 'status'
		ORDER BY created_at DESC, id DESC
		LIMIT 1)`

	opportunityColumns = "o.id, o.created_by, o.created_at, h.status, " +
		"v.id, v.version, v.title, v.teaser, v.description, v.location, v.max_budget, " +
		"v.evaluation_criteria, v.proposal_deadline, v.assignment_date, v.start_date, v.completion_date"

	versionColumns = "title, teaser, description, location, max_budget, evaluation_criteria, " +
		"proposal_deadline, assignment_date, start_date, completion_date"
)

type OpportunityRepo struct {
	*postgres.Postgres
}

func NewOpportunityRepo(pgdb *postgres.Postgres) *OpportunityRepo {
	return &OpportunityRepo{pgdb}
}

// versionContent is the editable payload of a single version row.
type versionContent struct {
	title              string
	teaser             string
	description        string
	location           string
	maxBudget          float64
	evaluationCriteria string
	proposalDeadline   sql.NullTime
	assignmentDate     sql.NullTime
	startDate          sql.NullTime
	completionDate     sql.NullTime
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func (r *OpportunityRepo) CreateOpportunity(ctx context.Context, input *entity.CreateOpportunityInput, creatorId uuid.UUID) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	createOpportunitySql, args, _ := r.SqlBuilder.
		Insert("opportunity").
		Columns("created_by").
		Values(creatorId).
		Suffix("RETURNING id").
		ToSql()

	var opportunityId uuid.UUID
	if err = tx.QueryRowContext(ctx, createOpportunitySql, args...).Scan(&opportunityId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	createVersionSql, args, _ := r.SqlBuilder.
		Insert("opportunity_version").
		Columns("opportunity_id", "version", "title", "teaser", "description", "location",
			"max_budget", "evaluation_criteria", "proposal_deadline", "assignment_date",
			"start_date", "completion_date").
		Values(opportunityId, 1, input.Title, input.Teaser, input.Description, input.Location,
			input.MaxBudget, input.EvaluationCriteria, nullTime(input.ProposalDeadline),
			nullTime(input.AssignmentDate), nullTime(input.StartDate), nullTime(input.CompletionDate)).
		Suffix("RETURNING id").
		ToSql()

	var versionId uuid.UUID
	if err = tx.QueryRowContext(ctx, createVersionSql, args...).Scan(&versionId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = linkAttachments(ctx, tx, r.SqlBuilder, versionId, input.AttachmentIds); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	initialStatusSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "status").
		Values(opportunityId, creatorId, common.KindStatus, common.Draft).
		ToSql()

	if _, err = tx.ExecContext(ctx, initialStatusSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return opportunityId, nil
}

func (r *OpportunityRepo) GetOpportunityById(ctx context.Context, id string) (*entity.Opportunity, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getOpportunitySql, args, _ := r.SqlBuilder.
		Select(opportunityColumns).
		From("opportunity o").
		InnerJoin(latestVersionJoin).
		InnerJoin(latestStatusJoin).
		Where("o.id = ?", uuidForm).
		ToSql()

	var opp entity.Opportunity
	var deadline, assignment, start, completion sql.NullTime
	row := r.Database.QueryRowContext(ctx, getOpportunitySql, args...)
	err = row.Scan(&opp.Id, &opp.CreatedBy, &opp.CreatedAt, &opp.Status,
		&opp.VersionId, &opp.Version, &opp.Title, &opp.Teaser, &opp.Description, &opp.Location,
		&opp.MaxBudget, &opp.EvaluationCriteria, &deadline, &assignment, &start, &completion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	opp.ProposalDeadline = deadline.Time
	opp.AssignmentDate = assignment.Time
	opp.StartDate = start.Time
	opp.CompletionDate = completion.Time

	return &opp, nil
}

func (r *OpportunityRepo) GetOpportunities(ctx context.Context, filter *entity.OpportunityFilter, pg *entity.PaginationInput) ([]entity.OpportunitySlim, error) {
	builder := r.SqlBuilder.
		Select("o.id, v.title, h.status, v.version, v.proposal_deadline, o.created_at").
		From("opportunity o").
		InnerJoin(latestVersionJoin).
		InnerJoin(latestStatusJoin)

	if filter.PublicOnly {
		visible := squirrel.Or{squirrel.Eq{"h.status": common.PublicStatuses}}
		if filter.OwnedBy != uuid.Nil {
			visible = append(visible, squirrel.Eq{"o.created_by": filter.OwnedBy})
		}
		builder = builder.Where(visible)
	}

	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"h.status": filter.Statuses})
	}

	listSql, args, _ := builder.
		OrderBy("o.created_at DESC, o.id DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.scanSlimRows(ctx, listSql, args)
}

func (r *OpportunityRepo) GetOpportunitiesByCreator(ctx context.Context, creatorId uuid.UUID, pg *entity.PaginationInput) ([]entity.OpportunitySlim, error) {
	listSql, args, _ := r.SqlBuilder.
		Select("o.id, v.title, h.status, v.version, v.proposal_deadline, o.created_at").
		From("opportunity o").
		InnerJoin(latestVersionJoin).
		InnerJoin(latestStatusJoin).
		Where("o.created_by = ?", creatorId).
		OrderBy("o.created_at DESC, o.id DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.scanSlimRows(ctx, listSql, args)
}

func (r *OpportunityRepo) scanSlimRows(ctx context.Context, listSql string, args []interface{}) ([]entity.OpportunitySlim, error) {
	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opportunities := make([]entity.OpportunitySlim, 0)
	for rows.Next() {
		var slim entity.OpportunitySlim
		var deadline sql.NullTime
		if err := rows.Scan(&slim.Id, &slim.Title, &slim.Status, &slim.Version, &deadline, &slim.CreatedAt); err != nil {
			return opportunities, err
		}
		slim.ProposalDeadline = deadline.Time
		opportunities = append(opportunities, slim)
	}
	if err = rows.Err(); err != nil {
		return opportunities, err
	}

	return opportunities, nil
}

// EditOpportunityById appends a new version row; blank input fields carry
// forward from the previous version and attachments are relinked for the new
// row. The edit itself lands in the history log.
func (r *OpportunityRepo) EditOpportunityById(ctx context.Context, id string, input *entity.EditOpportunityInput, editorId uuid.UUID) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	getLatestSql, args, _ := r.SqlBuilder.
		Select("id, version, " + versionColumns).
		From("opportunity_version").
		Where("opportunity_id = ?", uuidForm).
		OrderBy("created_at DESC, id DESC").
		Limit(1).
		Suffix("FOR UPDATE").
		ToSql()

	var prevId uuid.UUID
	var prevVersion int
	var prev versionContent
	err = tx.QueryRowContext(ctx, getLatestSql, args...).Scan(&prevId, &prevVersion,
		&prev.title, &prev.teaser, &prev.description, &prev.location, &prev.maxBudget,
		&prev.evaluationCriteria, &prev.proposalDeadline, &prev.assignmentDate,
		&prev.startDate, &prev.completionDate)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	next := prev
	if input.Title != "" {
		next.title = input.Title
	}
	if input.Teaser != "" {
		next.teaser = input.Teaser
	}
	if input.Description != "" {
		next.description = input.Description
	}
	if input.Location != "" {
		next.location = input.Location
	}
	if input.MaxBudget != 0 {
		next.maxBudget = input.MaxBudget
	}
	if input.EvaluationCriteria != "" {
		next.evaluationCriteria = input.EvaluationCriteria
	}
	if !input.ProposalDeadline.IsZero() {
		next.proposalDeadline = nullTime(input.ProposalDeadline)
	}
	if !input.AssignmentDate.IsZero() {
		next.assignmentDate = nullTime(input.AssignmentDate)
	}
	if !input.StartDate.IsZero() {
		next.startDate = nullTime(input.StartDate)
	}
	if !input.CompletionDate.IsZero() {
		next.completionDate = nullTime(input.CompletionDate)
	}

	newVersionId, err := insertVersion(ctx, tx, r.SqlBuilder, uuidForm, prevVersion+1, &next)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	if input.AttachmentIds == nil {
		err = copyAttachments(ctx, tx, prevId, newVersionId)
	} else {
		err = linkAttachments(ctx, tx, r.SqlBuilder, newVersionId, input.AttachmentIds)
	}
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	editedEventSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "event").
		Values(uuidForm, editorId, common.KindEvent, common.EventEdited).
		ToSql()

	if _, err = tx.ExecContext(ctx, editedEventSql, args...); err != nil {
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

// RestoreOpportunityVersion copies the content of an earlier numbered version
// forward as a brand-new version row. The chain stays append-only, so the
// audit trail keeps both the restore and everything it skipped over.
func (r *OpportunityRepo) RestoreOpportunityVersion(ctx context.Context, id string, version int, editorId uuid.UUID) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	getVersionSql, args, _ := r.SqlBuilder.
		Select("id, " + versionColumns).
		From("opportunity_version").
		Where("opportunity_id = ?", uuidForm).
		Where("version = ?", version).
		ToSql()

	var restoredId uuid.UUID
	var content versionContent
	err = tx.QueryRowContext(ctx, getVersionSql, args...).Scan(&restoredId,
		&content.title, &content.teaser, &content.description, &content.location,
		&content.maxBudget, &content.evaluationCriteria, &content.proposalDeadline,
		&content.assignmentDate, &content.startDate, &content.completionDate)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	maxVersionSql, args, _ := r.SqlBuilder.
		Select("MAX(version)").
		From("opportunity_version").
		Where("opportunity_id = ?", uuidForm).
		ToSql()

	var maxVersion int
	if err = tx.QueryRowContext(ctx, maxVersionSql, args...).Scan(&maxVersion); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	newVersionId, err := insertVersion(ctx, tx, r.SqlBuilder, uuidForm, maxVersion+1, &content)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	if err = copyAttachments(ctx, tx, restoredId, newVersionId); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	restoredEventSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "event", "note").
		Values(uuidForm, editorId, common.KindEvent, common.EventEdited,
			fmt.Sprintf("restored version %d", version)).
		ToSql()

	if _, err = tx.ExecContext(ctx, restoredEventSql, args...); err != nil {
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

// ListExpiredPublished returns opportunities whose current status is
// Published and whose current version's proposal deadline has passed.
func (r *OpportunityRepo) ListExpiredPublished(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	listSql, args, _ := r.SqlBuilder.
		Select("o.id").
		From("opportunity o").
		InnerJoin(latestVersionJoin).
		InnerJoin(latestStatusJoin).
		Where("h.status = ?", common.Published).
		Where("v.proposal_deadline IS NOT NULL").
		Where("v.proposal_deadline <= ?", now).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return ids, err
	}

	return ids, nil
}

// BeginEvaluation moves one expired opportunity into Evaluation and bulk
// moves its submitted proposals to UnderReview, in a single transaction. The
// expiry condition is re-checked inside the transaction so a concurrent sweep
// or status change makes this a no-op instead of a duplicate transition.
func (r *OpportunityRepo) BeginEvaluation(ctx context.Context, opportunityId uuid.UUID, now time.Time) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	recheckSql, args, _ := r.SqlBuilder.
		Select("o.id").
		From("opportunity o").
		InnerJoin(latestVersionJoin).
		InnerJoin(latestStatusJoin).
		Where("o.id = ?", opportunityId).
		Where("h.status = ?", common.Published).
		Where("v.proposal_deadline IS NOT NULL").
		Where("v.proposal_deadline <= ?", now).
		ToSql()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, recheckSql, args...).Scan(&id)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	evaluationSql, args, _ := r.SqlBuilder.
		Insert("opportunity_history").
		Columns("opportunity_id", "created_by", "kind", "status", "created_at").
		Values(opportunityId, nil, common.KindStatus, common.Evaluation, now).
		ToSql()

	if _, err = tx.ExecContext(ctx, evaluationSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	moveProposalsSql, args, _ := r.SqlBuilder.
		Update("proposal").
		Set("status", common.ProposalUnderReview).
		Set("updated_at", now).
		Where("opportunity_id = ?", opportunityId).
		Where("status = ?", common.ProposalSubmitted).
		ToSql()

	if _, err = tx.ExecContext(ctx, moveProposalsSql, args...); err != nil {
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

func (r *OpportunityRepo) GetCounts(ctx context.Context, opportunityId uuid.UUID) (*entity.OpportunityCounts, error) {
	counts := &entity.OpportunityCounts{}

	countQueries := []struct {
		table string
		dest  *int
	}{
		{"opportunity_page_view", &counts.Views},
		{"subscription", &counts.Watchers},
		{"proposal", &counts.Proposals},
	}

	for _, q := range countQueries {
		countSql, args, _ := r.SqlBuilder.
			Select("COUNT(*)").
			From(q.table).
			Where("opportunity_id = ?", opportunityId).
			ToSql()

		if err := r.Database.QueryRowContext(ctx, countSql, args...).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return counts, nil
}

func (r *OpportunityRepo) RecordPageView(ctx context.Context, opportunityId uuid.UUID) error {
	viewSql, args, _ := r.SqlBuilder.
		Insert("opportunity_page_view").
		Columns("opportunity_id").
		Values(opportunityId).
		ToSql()

	_, err := r.Database.ExecContext(ctx, viewSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, builder squirrel.StatementBuilderType, opportunityId uuid.UUID, version int, content *versionContent) (uuid.UUID, error) {
	insertSql, args, _ := builder.
		Insert("opportunity_version").
		Columns("opportunity_id", "version", "title", "teaser", "description", "location",
			"max_budget", "evaluation_criteria", "proposal_deadline", "assignment_date",
			"start_date", "completion_date").
		Values(opportunityId, version, content.title, content.teaser, content.description,
			content.location, content.maxBudget, content.evaluationCriteria,
			content.proposalDeadline, content.assignmentDate, content.startDate, content.completionDate).
		Suffix("RETURNING id").
		ToSql()

	var versionId uuid.UUID
	if err := tx.QueryRowContext(ctx, insertSql, args...).Scan(&versionId); err != nil {
		return uuid.Nil, err
	}

	return versionId, nil
}

func linkAttachments(ctx context.Context, tx *sql.Tx, builder squirrel.StatementBuilderType, versionId uuid.UUID, fileIds []string) error {
	for _, fileId := range fileIds {
		fileUuid, err := uuid.Parse(fileId)
		if err != nil {
			return repo_errors.ErrNotFound
		}

		linkSql, args, _ := builder.
			Insert("version_attachment").
			Columns("version_id", "file_id").
			Values(versionId, fileUuid).
			ToSql()

		if _, err := tx.ExecContext(ctx, linkSql, args...); err != nil {
			return err
		}
	}

	return nil
}

func copyAttachments(ctx context.Context, tx *sql.Tx, fromVersionId uuid.UUID, toVersionId uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO version_attachment (version_id, file_id)
		 SELECT $1, file_id FROM version_attachment WHERE version_id = $2`,
		toVersionId, fromVersionId)

	return err
}
