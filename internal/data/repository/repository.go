package repository

import (
	"context"
	"fmt"

	"medpages/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	UserRole  UserRoleRepository
	Session   SessionRepository
	MagicLink MagicLinkRepository
	OTP       OTPRepository
	Page      LandingPageRepository
	Outbox    OutboxRepository

	// TxRunner replaces the pool-backed transaction path when set.
	// Repositories built without a pool install their own rollback
	// semantics here.
	TxRunner func(ctx context.Context, fn func(tx *Repository) error) error

	db  database.PgxIface
	log *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		UserRole:  NewUserRoleRepository(db, log),
		Session:   NewSessionRepository(db, log),
		MagicLink: NewMagicLinkRepository(db, log),
		OTP:       NewOTPRepository(db, log),
		Page:      NewLandingPageRepository(db, log),
		Outbox:    NewOutboxRepository(db, log),

		db:  db,
		log: log,
	}
}

// WithTx runs fn with a Repository whose members share one transaction.
// Commit happens only when fn returns nil.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.TxRunner != nil {
		return r.TxRunner(ctx, fn)
	}
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txRepo := &Repository{
		User:      NewUserRepository(tx, r.log),
		UserRole:  NewUserRoleRepository(tx, r.log),
		Session:   NewSessionRepository(tx, r.log),
		MagicLink: NewMagicLinkRepository(tx, r.log),
		OTP:       NewOTPRepository(tx, r.log),
		Page:      NewLandingPageRepository(tx, r.log),
		Outbox:    NewOutboxRepository(tx, r.log),
		log:       r.log,
	}

	if err := fn(txRepo); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
