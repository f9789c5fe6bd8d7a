package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	BaseSimple
	UserID           uuid.UUID  `db:"user_id"`
	AccessToken      string     `db:"access_token"`
	RefreshToken     string     `db:"refresh_token"`
	ExpiresAt        time.Time  `db:"expires_at"`
	RefreshExpiresAt time.Time  `db:"refresh_expires_at"`
	RevokedAt        *time.Time `db:"revoked_at"`
}

// MagicLinkToken is a single-use credential minted during OTP verification
// and redeemed immediately to produce a session. Only a bcrypt hash of the
// secret half is stored; the wire form is "<id>.<secret>".
type MagicLinkToken struct {
	BaseSimple
	UserID     uuid.UUID  `db:"user_id"`
	SecretHash []byte     `db:"secret_hash"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RedeemedAt *time.Time `db:"redeemed_at"`
}
