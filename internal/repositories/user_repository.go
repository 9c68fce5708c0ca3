package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"delay-tracker/internal/entities"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/types"
)

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id int64) (*entities.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entities.User, error)
	DelayReporters(ctx context.Context) ([]types.Reporter, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) findOne(ctx context.Context, cond sq.Sqlizer) (*entities.User, error) {
	query, args, err := psql.Select(
		"id", "first_name", "last_name", "username", "password_hash", "role", "branch_id",
	).
		From("users").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u entities.User
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash, &u.Role, &u.BranchID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("execute user query: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"username": username})
}

// DelayReporters lists users who have reported at least one delay, for the
// dashboard filter dropdown.
func (r *UserRepository) DelayReporters(ctx context.Context) ([]types.Reporter, error) {
	query, args, err := psql.Select(
		"DISTINCT u.id", "u.first_name", "u.last_name", "u.username",
	).
		From("users u").
		Join("orders o ON o.delay_reported_by = u.id").
		OrderBy("u.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reporters query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute reporters query: %w", err)
	}
	defer rows.Close()

	var reporters []types.Reporter
	for rows.Next() {
		var rep types.Reporter
		if err := rows.Scan(&rep.ID, &rep.FirstName, &rep.LastName, &rep.Username); err != nil {
			return nil, fmt.Errorf("scan reporter: %w", err)
		}
		reporters = append(reporters, rep)
	}
	return reporters, rows.Err()
}
