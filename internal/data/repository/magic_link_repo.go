package repository

import (
	"context"
	"fmt"

	"medpages/internal/data/entity"
	"medpages/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MagicLinkRepository interface {
	Create(ctx context.Context, token *entity.MagicLinkToken) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MagicLinkToken, error)
	MarkRedeemed(ctx context.Context, id uuid.UUID) error
}

type magicLinkRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMagicLinkRepository(db database.Querier, log *zap.Logger) MagicLinkRepository {
	return &magicLinkRepository{
		db:  db,
		log: log.With(zap.String("repository", "magic_link")),
	}
}

func (r *magicLinkRepository) Create(ctx context.Context, token *entity.MagicLinkToken) error {
	query := `
		INSERT INTO magic_link_tokens (id, user_id, secret_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.SecretHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create magic link token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create magic link for user %s: %w", token.UserID.String(), err)
	}

	return nil
}

func (r *magicLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MagicLinkToken, error) {
	query := `
		SELECT id, user_id, secret_hash, expires_at, redeemed_at, created_at
		FROM magic_link_tokens
		WHERE id = $1
	`

	var token entity.MagicLinkToken
	err := r.db.QueryRow(ctx, query, id).Scan(
		&token.ID,
		&token.UserID,
		&token.SecretHash,
		&token.ExpiresAt,
		&token.RedeemedAt,
		&token.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find magic link token",
			zap.Error(err),
			zap.String("token_id", id.String()),
		)
		return nil, fmt.Errorf("find magic link %s: %w", id.String(), err)
	}

	return &token, nil
}

func (r *magicLinkRepository) MarkRedeemed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE magic_link_tokens
		SET redeemed_at = NOW()
		WHERE id = $1 AND redeemed_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark magic link redeemed",
			zap.Error(err),
			zap.String("token_id", id.String()),
		)
		return fmt.Errorf("redeem magic link %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("magic link %s not found or already redeemed", id.String())
	}

	return nil
}
