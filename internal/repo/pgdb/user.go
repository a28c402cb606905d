package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"procurement-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	getSql, args, _ := r.SqlBuilder.
		Select("id, username, role, created_at").
		From("app_user").
		Where("username = ?", username).
		ToSql()

	var user entity.User
	err := r.Database.QueryRowContext(ctx, getSql, args...).
		Scan(&user.Id, &user.Username, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) DoesUserExistById(ctx context.Context, id uuid.UUID) (bool, error) {
	getSql, args, _ := r.SqlBuilder.
		Select("id").
		From("app_user").
		Where("id = ?", id).
		ToSql()

	var uid uuid.UUID
	err := r.Database.QueryRowContext(ctx, getSql, args...).Scan(&uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
