package entity

import (
	"time"
)

// OTPCode is a pending emailed login code. At most one live row exists per
// email: the request flow deletes prior codes before inserting a new one.
type OTPCode struct {
	BaseSimple
	Email       string    `db:"email"`
	Code        string    `db:"code"`
	DisplayName *string   `db:"display_name"`
	ExpiresAt   time.Time `db:"expires_at"`
	Verified    bool      `db:"verified"`
}

func (o *OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
