package response

import "time"

type SessionResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type VerifyOTPResponse struct {
	Success bool             `json:"success"`
	UserID  string           `json:"user_id"`
	Session *SessionResponse `json:"session"`
}

type RequestOTPResponse struct {
	Success bool `json:"success"`
}
