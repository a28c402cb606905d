package pgdb

import (
	"context"
	"database/sql"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type AttachmentRepo struct {
	*postgres.Postgres
}

func NewAttachmentRepo(pgdb *postgres.Postgres) *AttachmentRepo {
	return &AttachmentRepo{pgdb}
}

func (r *AttachmentRepo) CreateFileRecord(ctx context.Context, input *entity.CreateFileInput) (*entity.FileRecord, error) {
	createSql, args, _ := r.SqlBuilder.
		Insert("file_record").
		Columns("name", "content_type", "size_bytes").
		Values(input.Name, input.ContentType, input.SizeBytes).
		Suffix("RETURNING id, created_at").
		ToSql()

	file := entity.FileRecord{
		Name:        input.Name,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
	}
	err := r.Database.QueryRowContext(ctx, createSql, args...).Scan(&file.Id, &file.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// GetFilesByVersionId resolves every attachment link of a version into a full
// file record. A link whose file record is gone fails the whole read.
func (r *AttachmentRepo) GetFilesByVersionId(ctx context.Context, versionId uuid.UUID) ([]entity.FileRecord, error) {
	getSql, args, _ := r.SqlBuilder.
		Select("f.id, f.created_at, f.name, f.content_type, f.size_bytes").
		From("version_attachment va").
		LeftJoin("file_record f ON f.id = va.file_id").
		Where("va.version_id = ?", versionId).
		OrderBy("f.name ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]entity.FileRecord, 0)
	for rows.Next() {
		var id uuid.NullUUID
		var createdAt sql.NullTime
		var name, contentType sql.NullString
		var sizeBytes sql.NullInt64
		if err := rows.Scan(&id, &createdAt, &name, &contentType, &sizeBytes); err != nil {
			return files, err
		}
		if !id.Valid {
			return nil, repo_errors.ErrBrokenLink
		}
		files = append(files, entity.FileRecord{
			Id:          id.UUID,
			CreatedAt:   createdAt.Time,
			Name:        name.String,
			ContentType: contentType.String,
			SizeBytes:   sizeBytes.Int64,
		})
	}
	if err = rows.Err(); err != nil {
		return files, err
	}

	return files, nil
}
