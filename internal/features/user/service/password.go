package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	apperrors "recycle-rewards-backend/internal/common/errors"
	"recycle-rewards-backend/internal/common/logger"
	userredis "recycle-rewards-backend/internal/features/user/repository/redis"
)

// InitiateChangePassword verifies the current password and issues a 6-digit
// verification code that is delivered out of band. The code lives in the
// code store with a short TTL; a repeated initiate overwrites it.
func (s *userService) InitiateChangePassword(ctx context.Context, id, currentPassword string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.New(apperrors.ErrCodePasswordMismatch, "Current password is incorrect")
	}

	code, err := generateCode()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to generate verification code")
	}

	if err := s.codes.SaveCode(ctx, id, code); err != nil {
		return apperrors.NewStorageError("save verification code", err)
	}

	// Delivery (SMS/email) is owned by the notification gateway; the code
	// is only logged at debug level for local development.
	logger.Debug().Str("user_id", id).Str("code", code).Msg("Password change code issued")
	logger.Info().Str("user_id", id).Msg("Password change initiated")
	return nil
}

// ConfirmChangePassword checks the verification code and installs the new
// password hash. A wrong code leaves the stored code in place so the user
// can retry until it expires.
func (s *userService) ConfirmChangePassword(ctx context.Context, id, code, newPassword string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	stored, err := s.codes.GetCode(ctx, id)
	if err != nil {
		if errors.Is(err, userredis.ErrNotFound) {
			return apperrors.New(apperrors.ErrCodeInvalidCode, "Verification code expired or not requested")
		}
		return apperrors.NewStorageError("get verification code", err)
	}

	if stored != code {
		return apperrors.New(apperrors.ErrCodeInvalidCode, "Invalid verification code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.NewStorageError("update password", err)
	}

	if err := s.codes.DeleteCode(ctx, id); err != nil {
		logger.Warn().Err(err).Str("user_id", id).Msg("Failed to delete used verification code")
	}

	logger.Info().Str("user_id", id).Msg("Password changed")
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
