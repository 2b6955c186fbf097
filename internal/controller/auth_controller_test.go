package controller

import (
	"context"
	"net/http"
	"testing"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	service.IAuthService

	loginErr    error
	loginIP     string
	logoutJTI   string
	logoutExp   time.Time
	logoutToken string
}

func (f *fakeAuthService) Login(ctx context.Context, req *dto.LoginRequest, ip, ua string) (*dto.LoginResponse, error) {
	f.loginIP = ip
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.LoginResponse{AccessToken: "token", User: dto.UserDTO{Email: req.Email}}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, jti string, exp time.Time, refreshToken string) (*dto.LogoutResponse, error) {
	f.logoutJTI, f.logoutExp, f.logoutToken = jti, exp, refreshToken
	return &dto.LogoutResponse{Redirect: "/"}, nil
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	return nil
}

func TestLoginValidatesBody(t *testing.T) {
	svc := &fakeAuthService{}
	app := newTestApp(NewAuthController(svc, fakeAuth(uuid.New())))

	resp, env := do(t, app, "POST", "/api/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, env.Errors)

	resp, env = do(t, app, "POST", "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.NotEmpty(t, svc.loginIP)
}

func TestLoginPassesServiceErrorCode(t *testing.T) {
	svc := &fakeAuthService{loginErr: apperror.Forbidden("email not verified")}
	app := newTestApp(NewAuthController(svc, fakeAuth(uuid.New())))

	resp, env := do(t, app, "POST", "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "email not verified", env.Message)
}

func TestLogoutRevokesPresentedToken(t *testing.T) {
	svc := &fakeAuthService{}
	app := newTestApp(NewAuthController(svc, fakeAuth(uuid.New())))

	resp, env := do(t, app, "POST", "/api/auth/logout", map[string]string{"refresh_token": "r-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"redirect":"/"}`, string(env.Data))
	assert.Equal(t, testTokenID, svc.logoutJTI)
	assert.True(t, svc.logoutExp.Equal(testTokenExp))
	assert.Equal(t, "r-1", svc.logoutToken)

	// body is optional
	resp, _ = do(t, app, "POST", "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, svc.logoutToken)
}

func TestLogoutRequiresAuth(t *testing.T) {
	app := newTestApp(NewAuthController(&fakeAuthService{}, fakeAuth(uuid.Nil)))

	resp, _ := do(t, app, "POST", "/api/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestForgotPasswordAlwaysSucceeds(t *testing.T) {
	app := newTestApp(NewAuthController(&fakeAuthService{}, fakeAuth(uuid.Nil)))

	resp, env := do(t, app, "POST", "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}
