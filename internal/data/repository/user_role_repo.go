package repository

import (
	"context"
	"fmt"

	"medpages/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserRoleRepository interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}

type userRoleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRoleRepository(db database.Querier, log *zap.Logger) UserRoleRepository {
	return &userRoleRepository{
		db:  db,
		log: log.With(zap.String("repository", "user_role")),
	}
}

func (r *userRoleRepository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_roles
			WHERE user_id = $1 AND role = $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, role).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check user role",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("role", role),
		)
		return false, fmt.Errorf("check role %s for user %s: %w", role, userID.String(), err)
	}

	return exists, nil
}
