package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/mailer"
	"mitr-be/internal/repository/specification"
	"mitr-be/internal/repository/unitofwork"
	"mitr-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	otpTTL          = 15 * time.Minute
	resetTokenTTL   = time.Hour

	// LogoutRedirect is where the client lands after signing out.
	LogoutRedirect = "/"
)

// SessionRevoker remembers access tokens ended by logout until they expire.
type SessionRevoker interface {
	Revoke(jti string, expiresAt time.Time)
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	Logout(ctx context.Context, jti string, expiresAt time.Time, refreshToken string) (*dto.LogoutResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher events.Publisher
	sessions       SessionRevoker
	jwtSecret      string
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	sessions SessionRevoker,
	jwtSecret string,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		sessions:       sessions,
		jwtSecret:      jwtSecret,
		logger:         log,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// signAccessToken issues an HS256 token carrying a unique jti so a single
// session can be revoked without touching the others.
func signAccessToken(secret string, user *entity.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(accessTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func toUserDTO(user *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:       user.Id,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx, span := tracer.Start(ctx, "Auth.Register")
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, recordError(span, err)
	}
	if existing != nil {
		return nil, apperror.BadRequest("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, recordError(span, err)
	}
	hashStr := string(hash)

	now := time.Now()
	user := &entity.User{
		Id:            uuid.New(),
		Email:         req.Email,
		FullName:      req.FullName,
		PasswordHash:  &hashStr,
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, recordError(span, err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, recordError(span, err)
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, recordError(span, err)
	}

	verificationToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	}
	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, recordError(span, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, recordError(span, err)
	}

	s.logger.Debug("Auth", "Verification code issued", map[string]interface{}{"email": user.Email})

	go func() {
		if err := s.emailService.SendOTP(user.Email, otpCode); err != nil {
			s.logger.Error("Auth", "Failed to send verification email", map[string]interface{}{"email": user.Email, "error": err.Error()})
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}
	if user.Status == entity.UserStatusActive {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.UserOwnedBy{UserID: user.Id},
		specification.ByToken{Token: req.Token},
	)
	if err != nil {
		return err
	}
	if tokenEntity == nil {
		return apperror.BadRequest("invalid otp code")
	}
	if time.Now().After(tokenEntity.ExpiresAt) {
		return apperror.BadRequest("otp code expired")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ActivateUser(ctx, user.Id); err != nil {
		return err
	}
	if err := uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenEntity.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "Auth.Login")
	defer span.End()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, recordError(span, err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if user.PasswordHash == nil {
		return nil, apperror.BadRequest("this account signs in with Google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, apperror.Forbidden("user account is blocked")
	}
	if user.Status == entity.UserStatusPending || !user.EmailVerified {
		return nil, apperror.Forbidden("email not verified, please check your inbox for the otp code")
	}

	now := time.Now()
	signedToken, err := signAccessToken(s.jwtSecret, user, now)
	if err != nil {
		return nil, recordError(span, err)
	}

	var rawRefreshToken string
	if req.RememberMe {
		rawRefreshToken = uuid.NewString()
		refreshToken := &entity.UserRefreshToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			TokenHash: hashToken(rawRefreshToken),
			ExpiresAt: now.Add(refreshTokenTTL),
			CreatedAt: now,
			IpAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := uow.UserRepository().CreateRefreshToken(ctx, refreshToken); err != nil {
			return nil, recordError(span, fmt.Errorf("failed to create session: %w", err))
		}
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.UserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
		"device":  userAgent,
		"time":    now.Format(time.RFC822),
	}))

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		User:         toUserDTO(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserRepository().FindRefreshToken(ctx, hashToken(req.RefreshToken))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if stored == nil || stored.Revoked || now.After(stored.ExpiresAt) {
		return nil, apperror.Unauthorized("refresh token is invalid or expired")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: stored.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("refresh token is invalid or expired")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, apperror.Forbidden("user account is blocked")
	}

	signedToken, err := signAccessToken(s.jwtSecret, user, now)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: req.RefreshToken,
		User:         toUserDTO(user),
	}, nil
}

// Logout ends the presented access token immediately and, when given, the
// remember-me refresh token as well.
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time, refreshToken string) (*dto.LogoutResponse, error) {
	if jti != "" && s.sessions != nil {
		s.sessions.Revoke(jti, expiresAt)
	}

	if refreshToken != "" {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken)); err != nil {
			return nil, err
		}
	}

	return &dto.LogoutResponse{Redirect: LogoutRedirect}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		// Same answer whether or not the address exists
		return nil
	}

	token := uuid.NewString()
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if err := s.emailService.SendResetToken(user.Email, token); err != nil {
			s.logger.Error("Auth", "Failed to send reset password email", map[string]interface{}{"email": user.Email, "error": err.Error()})
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tokenEntity, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil {
		return err
	}
	if tokenEntity == nil {
		return apperror.BadRequest("invalid or expired token")
	}
	if tokenEntity.Used {
		return apperror.BadRequest("this password reset link has already been used")
	}
	if time.Now().After(tokenEntity.ExpiresAt) {
		return apperror.BadRequest("this password reset link has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, tokenEntity.UserId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().MarkTokenUsed(ctx, tokenEntity.Id); err != nil {
		return err
	}

	return uow.Commit()
}
