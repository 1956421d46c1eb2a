package user

import (
	"context"
	"database/sql"
	"errors"

	"storekeep-be/internal/fault"
	"storekeep-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	var u User
	var roles string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, identifier, email, name, roles FROM users WHERE identifier = $1",
		identifier,
	).Scan(&u.ID, &u.Identifier, &u.Email, &u.Name, &roles)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("no user with identifier %q", identifier)
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to read user",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return nil, fault.Internal(err, "read user")
	}

	u.Roles = ParseRoles(roles)
	return &u, nil
}
