package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"medpages/internal/data/entity"
	"medpages/internal/data/repository"
	"medpages/internal/dto/request"
	"medpages/internal/dto/response"
	"medpages/internal/gateway"
	"medpages/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors the handler maps to HTTP statuses. Messages stay generic
// so responses never reveal whether an email has a pending code.
var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidCode  = errors.New("invalid code")
	ErrCodeExpired  = errors.New("code expired")
	ErrCodeUsed     = errors.New("code already used")
)

// Brute-force friction: responses to probing inputs are artificially slowed.
const (
	badCodeDelay  = 800 * time.Millisecond
	mismatchDelay = 1000 * time.Millisecond
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService interface {
	RequestOTP(ctx context.Context, req *request.RequestOTPRequest) error
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.VerifyOTPResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type authService struct {
	repo   *repository.Repository
	mailer gateway.Mailer
	config *utils.Config
	log    *zap.Logger

	// Injected so tests don't pay the real delays.
	sleep func(time.Duration)
}

func NewAuthService(
	repo *repository.Repository,
	mailer gateway.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		mailer: mailer,
		config: config,
		log:    log,
		sleep:  time.Sleep,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return email != "" && len(email) <= 255 && emailRe.MatchString(email)
}

// validCodeFormat checks the submitted code against the configured length
// before any lookup happens, so length is tunable without touching this path.
func (s *authService) validCodeFormat(code string) bool {
	length := s.config.OTP.Length
	if length <= 0 {
		length = 6
	}
	if len(code) != length {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (s *authService) RequestOTP(ctx context.Context, req *request.RequestOTPRequest) error {
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	code := utils.GenerateOTP(s.config.OTP.Length)
	expiresAt := time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	var displayName *string
	if name := strings.TrimSpace(req.Name); name != "" {
		displayName = &name
	}

	otp := &entity.OTPCode{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		Email:       email,
		Code:        code,
		DisplayName: displayName,
		ExpiresAt:   expiresAt,
		Verified:    false,
	}

	// Replace-then-insert keeps at most one live code per email.
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.OTP.DeleteByEmail(ctx, email); err != nil {
			return err
		}
		return tx.OTP.Create(ctx, otp)
	})
	if err != nil {
		s.log.Error("Failed to store OTP code", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to generate code")
	}

	// Delivery is best-effort; the caller gets success either way so the
	// endpoint can't be used to enumerate accounts.
	go s.deliverOTP(email, req.Name, code)

	s.log.Info("OTP code issued",
		zap.String("email", email),
		zap.Time("expires_at", expiresAt),
	)

	return nil
}

func (s *authService) deliverOTP(email, name, code string) {
	if err := s.mailer.SendOTPEmail(email, name, code, s.config.OTP.ExpiryMinutes); err != nil {
		s.log.Error("Failed to send OTP email", zap.Error(err), zap.String("email", email))
	}
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.VerifyOTPResponse, error) {
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	if !s.validCodeFormat(req.Code) {
		s.sleep(badCodeDelay)
		return nil, ErrInvalidCode
	}

	otp, err := s.repo.OTP.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to look up OTP code", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to verify code")
	}
	if otp == nil {
		s.sleep(badCodeDelay)
		return nil, ErrInvalidCode
	}

	if otp.Expired(time.Now()) {
		return nil, ErrCodeExpired
	}

	if otp.Verified {
		return nil, ErrCodeUsed
	}

	if otp.Code != req.Code {
		s.sleep(mismatchDelay)
		return nil, ErrInvalidCode
	}

	// Consume the code and mint the session in one transaction: the code is
	// only gone once a session exists.
	var resp *response.VerifyOTPResponse
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.OTP.MarkVerified(ctx, otp.ID); err != nil {
			return err
		}

		user, err := tx.User.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			now := time.Now()
			user = &entity.User{
				Base: entity.Base{
					ID:        utils.GenerateUUID(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				Email:       email,
				DisplayName: otp.DisplayName,
				IsActive:    true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return err
			}
			s.log.Info("User provisioned", zap.String("user_id", user.ID.String()))
		}

		session, err := s.mintSession(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		if err := tx.OTP.Delete(ctx, otp.ID); err != nil {
			return err
		}

		resp = &response.VerifyOTPResponse{
			Success: true,
			UserID:  user.ID.String(),
			Session: &response.SessionResponse{
				AccessToken:      session.AccessToken,
				RefreshToken:     session.RefreshToken,
				ExpiresAt:        session.ExpiresAt,
				RefreshExpiresAt: session.RefreshExpiresAt,
			},
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to consume OTP code", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to verify code")
	}

	s.log.Info("OTP verified", zap.String("email", email), zap.String("user_id", resp.UserID))

	return resp, nil
}

// mintSession produces a session by generating a single-use magic-link token
// and redeeming it immediately, so this login path is identical to the one an
// emailed link would take.
func (s *authService) mintSession(ctx context.Context, tx *repository.Repository, userID uuid.UUID) (*entity.Session, error) {
	secret := utils.GenerateSecret(32)
	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash magic link secret: %w", err)
	}

	now := time.Now()
	link := &entity.MagicLinkToken{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		UserID:     userID,
		SecretHash: secretHash,
		ExpiresAt:  now.Add(time.Duration(s.config.Session.MagicLinkExpiryMins) * time.Minute),
	}

	if err := tx.MagicLink.Create(ctx, link); err != nil {
		return nil, err
	}

	return s.redeemMagicLink(ctx, tx, link.ID.String()+"."+secret)
}

// redeemMagicLink validates a "<id>.<secret>" token and exchanges it for an
// access/refresh session pair.
func (s *authService) redeemMagicLink(ctx context.Context, tx *repository.Repository, token string) (*entity.Session, error) {
	idPart, secret, found := strings.Cut(token, ".")
	if !found {
		return nil, errors.New("malformed magic link token")
	}

	linkID, err := utils.ParseUUID(idPart)
	if err != nil {
		return nil, errors.New("malformed magic link token")
	}

	link, err := tx.MagicLink.FindByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.RedeemedAt != nil || time.Now().After(link.ExpiresAt) {
		return nil, errors.New("magic link invalid or expired")
	}

	if err := bcrypt.CompareHashAndPassword(link.SecretHash, []byte(secret)); err != nil {
		return nil, errors.New("magic link secret mismatch")
	}

	if err := tx.MagicLink.MarkRedeemed(ctx, linkID); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		UserID:           link.UserID,
		AccessToken:      utils.GenerateSecret(32),
		RefreshToken:     utils.GenerateSecret(32),
		ExpiresAt:        now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
		RefreshExpiresAt: now.AddDate(0, 0, s.config.Session.RefreshExpiryDays),
	}

	if err := tx.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	if err := s.repo.Session.Revoke(ctx, accessToken); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("Session revoked")
	return nil
}
