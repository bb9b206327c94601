package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/errors"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/security"
)

const tempPasswordLength = 12

type UserService struct {
	users    repository.UserRepository
	hasher   security.PasswordHasher
	notifier *NotificationService
	logger   *logger.Logger
}

func NewUserService(
	users repository.UserRepository,
	hasher security.PasswordHasher,
	notifier *NotificationService,
	logger *logger.Logger,
) *UserService {
	return &UserService{
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

// Create provisions an account with a generated temporary password. The
// password is emailed and never returned through the API; the first login
// forces a change.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, errors.Conflict("a user with this email already exists", nil)
	}

	temp, err := security.GeneratePassword(tempPasswordLength)
	if err != nil {
		return nil, errors.Internal(err)
	}
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		return nil, errors.Internal(err)
	}

	user := &model.User{
		Email:                 req.Email,
		PasswordHash:          hash,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Role:                  model.Role(req.Role),
		IsActive:              true,
		RequirePasswordChange: true,
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}
	if req.ClinicID != "" {
		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			return nil, errors.BadRequest("invalid clinic id", err)
		}
		user.ClinicID = &clinicID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you.\n\n"+
			"Email: %s\nTemporary password: %s\n\n"+
			"You will be asked to choose a new password on first login.\n",
		user.FirstName, user.Email, temp)

	if err := s.notifier.SendEmail(ctx, user.Email, "Your account", body); err != nil {
		// The account exists; the admin can trigger a password reset instead.
		s.logger.Error(err, "Failed to send welcome email", "user_id", user.ID.String())
	}

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.users.Update(ctx, user)
}
