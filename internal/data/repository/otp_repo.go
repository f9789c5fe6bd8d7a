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

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTPCode) error
	FindByEmail(ctx context.Context, email string) (*entity.OTPCode, error)
	MarkVerified(ctx context.Context, otpID uuid.UUID) error
	Delete(ctx context.Context, otpID uuid.UUID) error
	DeleteByEmail(ctx context.Context, email string) error
}

type otpRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOTPRepository(db database.Querier, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTPCode) error {
	query := `
		INSERT INTO otp_codes (id, email, code, display_name, expires_at, verified, created_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.Email,
		otp.Code,
		otp.DisplayName,
		otp.ExpiresAt,
		otp.Verified,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP code",
			zap.Error(err),
			zap.String("email", otp.Email),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}

	return nil
}

func (r *otpRepository) FindByEmail(ctx context.Context, email string) (*entity.OTPCode, error) {
	// Newest first: creation deletes older codes, but the ordering keeps the
	// lookup deterministic even if a stale row survives.
	query := `
		SELECT id, email, code, display_name, expires_at, verified, created_at
		FROM otp_codes
		WHERE email = lower($1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTPCode
	err := r.db.QueryRow(ctx, query, email).Scan(
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&otp.DisplayName,
		&otp.ExpiresAt,
		&otp.Verified,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP code",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find OTP for %s: %w", email, err)
	}

	return &otp, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, otpID uuid.UUID) error {
	query := `
		UPDATE otp_codes
		SET verified = true
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to mark OTP verified",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return fmt.Errorf("mark OTP %s verified: %w", otpID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP %s not found", otpID.String())
	}

	return nil
}

func (r *otpRepository) Delete(ctx context.Context, otpID uuid.UUID) error {
	query := `
		DELETE FROM otp_codes
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to delete OTP code",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return fmt.Errorf("delete OTP %s: %w", otpID.String(), err)
	}

	return nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `
		DELETE FROM otp_codes
		WHERE email = lower($1)
	`

	_, err := r.db.Exec(ctx, query, email)
	if err != nil {
		r.log.Error("Failed to delete OTP codes for email",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("delete OTPs for %s: %w", email, err)
	}

	return nil
}
