package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/auth"
	"github.com/ruralcare/health-api/pkg/errors"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/security"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	hasher   security.PasswordHasher
	jwt      auth.JWTService
	notifier *NotificationService
	logger   *logger.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	hasher security.PasswordHasher,
	jwt auth.JWTService,
	notifier *NotificationService,
	logger *logger.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		jwt:      jwt,
		notifier: notifier,
		logger:   logger,
	}
}

// Login authenticates by email and password. Unknown email and wrong password
// report the same error so the endpoint does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.Unauthorized(err)
	}
	if !user.IsActive {
		return nil, errors.Unauthorized(nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized(err)
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, errors.Internal(err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error(err, "Failed to record login time", "user_id", user.ID.String())
	}

	return &model.LoginResponse{
		Token:                 token,
		RequirePasswordChange: user.RequirePasswordChange,
		User:                  user,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, claims model.TokenClaims, req *model.ChangePasswordRequest) error {
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return errors.BadRequest("current password is incorrect", err)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return errors.BadRequest("invalid new password", err)
	}

	user.PasswordHash = hash
	user.RequirePasswordChange = false
	return s.users.Update(ctx, user)
}

// ForgotPassword emails a one-time reset link. Unknown emails succeed quietly
// for the same enumeration reason as Login.
func (s *AuthService) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return errors.Internal(err)
	}
	token := hex.EncodeToString(raw)

	reset := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.tokens.CreateResetToken(ctx, reset); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account.\n"+
			"Use this token within the next hour: %s\n\n"+
			"If you did not request a reset, you can ignore this email.\n",
		user.FirstName, token)

	if err := s.notifier.SendEmail(ctx, user.Email, "Password reset", body); err != nil {
		s.logger.Error(err, "Failed to send reset email", "user_id", user.ID.String())
		return errors.Internal(err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	reset, err := s.tokens.GetResetToken(ctx, req.Token)
	if err != nil {
		return errors.BadRequest("invalid or expired reset token", err)
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return errors.BadRequest("invalid or expired reset token", nil)
	}

	user, err := s.users.Get(ctx, reset.UserID)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return errors.BadRequest("invalid new password", err)
	}

	user.PasswordHash = hash
	user.RequirePasswordChange = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.tokens.MarkUsed(ctx, reset.ID)
}
