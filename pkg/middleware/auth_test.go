package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medpages/internal/data/entity"
	"medpages/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSessionRepo struct {
	session *entity.Session
}

func (s *stubSessionRepo) Create(ctx context.Context, session *entity.Session) error { return nil }

func (s *stubSessionRepo) FindValidSession(ctx context.Context, accessToken string) (*entity.Session, error) {
	if s.session != nil && s.session.AccessToken == accessToken {
		return s.session, nil
	}
	return nil, nil
}

func (s *stubSessionRepo) Revoke(ctx context.Context, accessToken string) error { return nil }

type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}

type stubRoleRepo struct {
	admins map[uuid.UUID]bool
}

func (s *stubRoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	return role == entity.RoleAdmin && s.admins[userID], nil
}

func validSession(userID uuid.UUID) *entity.Session {
	return &entity.Session{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:      userID,
		AccessToken: "tok-valid",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthSessionMissingHeader(t *testing.T) {
	var called bool
	h := AuthSession(&stubSessionRepo{}, zap.NewNop())(okHandler(&called))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthSessionMalformedHeader(t *testing.T) {
	var called bool
	h := AuthSession(&stubSessionRepo{}, zap.NewNop())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	req.Header.Set("Authorization", "Token abc")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthSessionUnknownToken(t *testing.T) {
	var called bool
	h := AuthSession(&stubSessionRepo{}, zap.NewNop())(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	req.Header.Set("Authorization", "Bearer nope")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthSessionSetsPrincipal(t *testing.T) {
	userID := uuid.New()
	repo := &stubSessionRepo{session: validSession(userID)}

	var gotUser uuid.UUID
	var gotToken string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = utils.GetUserIDFromContext(r.Context())
		gotToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	req.Header.Set("Authorization", "Bearer tok-valid")

	rec := httptest.NewRecorder()
	AuthSession(repo, zap.NewNop())(inner).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, "tok-valid", gotToken)
}

func TestAdminOnly(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()

	users := &stubUserRepo{}
	roles := &stubRoleRepo{admins: map[uuid.UUID]bool{adminID: true}}

	tests := []struct {
		name     string
		ctxUser  *uuid.UUID
		user     *entity.User
		wantCode int
	}{
		{
			name:     "no principal",
			ctxUser:  nil,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown user",
			ctxUser:  &userID,
			user:     nil,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "authenticated non-admin",
			ctxUser:  &userID,
			user:     &entity.User{Base: entity.Base{ID: userID}, Email: "dr.silva@example.com"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin",
			ctxUser:  &adminID,
			user:     &entity.User{Base: entity.Base{ID: adminID}, Email: "admin@example.com"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users.user = tt.user

			var called bool
			h := AdminOnly(users, roles, zap.NewNop())(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
			if tt.ctxUser != nil {
				req = req.WithContext(utils.SetUserContext(req.Context(), *tt.ctxUser))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, called)
		})
	}
}
