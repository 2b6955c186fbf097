package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type IOAuthService interface {
	GetLoginURL(provider string) (url string, state string, err error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	JwtSecret    string
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	jwtSecret  string
	logger     logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, cfg OAuthConfig, log logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	log.Info("OAuth", "Google sign-in configured", map[string]interface{}{
		"enabled":      cfg.ClientID != "",
		"redirect_url": cfg.RedirectURL,
	})

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		jwtSecret:  cfg.JwtSecret,
		logger:     log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, string, error) {
	if provider != ProviderGoogle {
		return "", "", apperror.BadRequest("unsupported provider")
	}
	if s.googleConf.ClientID == "" {
		return "", "", apperror.Unavailable("google sign-in is not configured")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), state, nil
}

func (s *oauthService) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	resp, err := s.googleConf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("failed reading user info: %w", err)
	}
	if gu.Email == "" {
		return nil, fmt.Errorf("google account has no email")
	}
	return &gu, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "OAuth.HandleCallback")
	defer span.End()

	if provider != ProviderGoogle {
		return nil, apperror.BadRequest("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAuth", "Code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, recordError(span, apperror.Unauthorized("google sign-in failed"))
	}

	gu, err := s.fetchGoogleUser(ctx, token)
	if err != nil {
		s.logger.Error("OAuth", "Failed to fetch google profile", map[string]interface{}{"error": err.Error()})
		return nil, recordError(span, apperror.BadGateway("could not read google profile"))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: gu.Email})
	if err != nil {
		return nil, recordError(span, err)
	}

	// A soft-deleted account signing in again is restored rather than duplicated
	if user == nil {
		user, err = uow.UserRepository().FindOneUnscoped(ctx, specification.ByEmail{Email: gu.Email})
		if err != nil {
			return nil, recordError(span, err)
		}
		if user != nil {
			if err := uow.UserRepository().Restore(ctx, user.Id); err != nil {
				return nil, recordError(span, err)
			}
			s.logger.Info("OAuth", "Restored soft-deleted user", map[string]interface{}{"user_id": user.Id})
		}
	}

	if user == nil {
		now := time.Now()
		user = &entity.User{
			Id:            uuid.New(),
			Email:         gu.Email,
			FullName:      gu.Name,
			Role:          entity.UserRoleUser,
			Status:        entity.UserStatusActive,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, recordError(span, err)
		}
		s.logger.Info("OAuth", "Created user from google profile", map[string]interface{}{"user_id": user.Id})
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperror.Forbidden("user account is blocked")
	}

	if err := uow.UserRepository().SaveUserProvider(ctx, &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   ProviderGoogle,
		ProviderUserId: gu.ID,
		AvatarURL:      gu.Picture,
		CreatedAt:      time.Now(),
	}); err != nil {
		return nil, recordError(span, fmt.Errorf("failed to save provider info: %w", err))
	}

	signedToken, err := signAccessToken(s.jwtSecret, user, time.Now())
	if err != nil {
		return nil, recordError(span, err)
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User:        toUserDTO(user),
	}, nil
}
