package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "recycle-rewards-backend/internal/common/errors"
	"recycle-rewards-backend/internal/common/logger"
	"recycle-rewards-backend/internal/common/validation"
	"recycle-rewards-backend/internal/features/user/models"
	"recycle-rewards-backend/internal/features/user/repository"
	userredis "recycle-rewards-backend/internal/features/user/repository/redis"
)

var ErrUserNotFound = errors.New("user not found")

// UserService manages accounts and the settings surface: profile edits,
// avatar updates and the two-step password change.
type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input models.ProfileUpdate) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, contentType string, sizeBytes int64, avatarURL string) (*models.User, error)
	InitiateChangePassword(ctx context.Context, id, currentPassword string) error
	ConfirmChangePassword(ctx context.Context, id, code, newPassword string) error
	CreditZoints(ctx context.Context, id string, amount int64) error
}

type userService struct {
	repo  repository.UserRepository
	codes repository.CodeRepository
}

func NewUserService(repo repository.UserRepository, codes repository.CodeRepository) UserService {
	return &userService{
		repo:  repo,
		codes: codes,
	}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userredis.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.NewStorageError("get user", err)
	}

	return user, nil
}

// UpdateProfile applies partial edits; fields left nil in the input stay
// untouched. Validation failures abort the whole update.
func (s *userService) UpdateProfile(ctx context.Context, id string, input models.ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validation.ValidateName(*input.Name); err != nil {
			return nil, apperrors.NewValidationError("name", err.Error())
		}
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		if err := validation.ValidateEmail(*input.Email); err != nil {
			return nil, apperrors.NewValidationError("email", err.Error())
		}
		user.Email = strings.TrimSpace(*input.Email)
	}

	if input.Phone != nil {
		if err := validation.ValidatePhone(*input.Phone); err != nil {
			return nil, apperrors.NewValidationError("phone", err.Error())
		}
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if input.Bank != nil {
		if err := validateBank(input.Bank); err != nil {
			return nil, err
		}
		user.Bank = input.Bank
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.NewStorageError("update user", err)
	}

	logger.Info().Str("user_id", id).Msg("Profile updated")
	return user, nil
}

func (s *userService) CreditZoints(ctx context.Context, id string, amount int64) error {
	if amount <= 0 {
		return apperrors.NewValidationError("amount", "credit must be positive")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	user.ZointBalance += amount
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.NewStorageError("credit zoints", err)
	}

	logger.Info().
		Str("user_id", id).
		Int64("amount", amount).
		Int64("balance", user.ZointBalance).
		Msg("Zoints credited")
	return nil
}

func validateBank(bank *models.BankDetails) error {
	if err := validation.ValidateBankName(bank.BankName); err != nil {
		return apperrors.NewValidationError("bank_name", err.Error())
	}
	if err := validation.ValidateAccountName(bank.AccountName); err != nil {
		return apperrors.NewValidationError("account_name", err.Error())
	}
	if err := validation.ValidateAccountNumber(bank.AccountNumber); err != nil {
		return apperrors.NewValidationError("account_number", err.Error())
	}
	return nil
}

// ToUserResponse strips credentials from a user record for API responses.
func ToUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role,
		AvatarURL:          user.AvatarURL,
		ZointBalance:       user.ZointBalance,
		LifetimeRecycledKg: user.LifetimeRecycledKg,
		LifetimeBreakdown:  user.LifetimeBreakdown,
		Bank:               user.Bank,
		CreatedAt:          user.CreatedAt,
	}
}
