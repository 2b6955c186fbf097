package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type revokedSession struct {
	jti string
	exp time.Time
}

type fakeSessions struct {
	revoked []revokedSession
}

func (f *fakeSessions) Revoke(jti string, expiresAt time.Time) {
	f.revoked = append(f.revoked, revokedSession{jti: jti, exp: expiresAt})
}

func withPassword(t *testing.T, u *entity.User, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	u.PasswordHash = &h
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	factory := newFakeFactory()
	factory.db.addUser("taken@example.com")
	svc := NewAuthService(factory, &fakeMailer{}, nil, &fakeSessions{}, testSecret, nopLogger())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "taken@example.com", Password: "secret1", FullName: "A"})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "new@example.com", Password: "secret1", FullName: "B"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)

	created := factory.db.users[resp.Id]
	require.NotNil(t, created)
	assert.Equal(t, entity.UserStatusPending, created.Status)
	require.Len(t, factory.db.verifyToken, 1)
	assert.Len(t, factory.db.verifyToken[0].Token, 6)
}

func TestLogin(t *testing.T) {
	factory := newFakeFactory()
	active := factory.db.addUser("active@example.com")
	withPassword(t, active, "secret1")

	pending := factory.db.addUser("pending@example.com")
	withPassword(t, pending, "secret1")
	pending.Status = entity.UserStatusPending
	pending.EmailVerified = false

	blocked := factory.db.addUser("blocked@example.com")
	withPassword(t, blocked, "secret1")
	blocked.Status = entity.UserStatusBlocked

	recorder := events.NewRecorder()
	svc := NewAuthService(factory, &fakeMailer{}, recorder, &fakeSessions{}, testSecret, nopLogger())

	cases := []struct {
		name     string
		email    string
		password string
		code     int
	}{
		{"unknown user", "ghost@example.com", "secret1", http.StatusUnauthorized},
		{"wrong password", "active@example.com", "nope", http.StatusUnauthorized},
		{"unverified", "pending@example.com", "secret1", http.StatusForbidden},
		{"blocked", "blocked@example.com", "secret1", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: tc.email, Password: tc.password}, "127.0.0.1", "test")
			assert.Equal(t, tc.code, apperror.CodeOf(err))
		})
	}

	t.Run("success issues a revocable token", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "active@example.com", Password: "secret1", RememberMe: true}, "127.0.0.1", "test")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, active.Id, resp.User.Id)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		assert.Equal(t, active.Id.String(), claims["user_id"])
		assert.NotEmpty(t, claims["jti"])

		assert.Contains(t, recorder.Types(), events.UserLogin)
	})
}

func TestRefresh(t *testing.T) {
	factory := newFakeFactory()
	user := factory.db.addUser("a@example.com")
	withPassword(t, user, "secret1")
	svc := NewAuthService(factory, &fakeMailer{}, nil, &fakeSessions{}, testSecret, nopLogger())

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "a@example.com", Password: "secret1", RememberMe: true}, "", "")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "made-up"})
	assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))

	factory.db.refresh[hashToken(login.RefreshToken)].ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
}

func TestLogoutRevokesSession(t *testing.T) {
	factory := newFakeFactory()
	sessions := &fakeSessions{}
	svc := NewAuthService(factory, &fakeMailer{}, nil, sessions, testSecret, nopLogger())
	exp := time.Now().Add(time.Hour)

	resp, err := svc.Logout(context.Background(), "jti-1", exp, "refresh-raw")
	require.NoError(t, err)

	assert.Equal(t, "/", resp.Redirect)
	require.Len(t, sessions.revoked, 1)
	assert.Equal(t, "jti-1", sessions.revoked[0].jti)
	assert.Equal(t, exp, sessions.revoked[0].exp)
	assert.Equal(t, []string{hashToken("refresh-raw")}, factory.db.revoked)
}

func TestLogoutWithoutRefreshTokenSkipsStorage(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAuthService(factory, &fakeMailer{}, nil, &fakeSessions{}, testSecret, nopLogger())

	_, err := svc.Logout(context.Background(), "jti-2", time.Now().Add(time.Hour), "")
	require.NoError(t, err)
	assert.Zero(t, factory.calls)
}
