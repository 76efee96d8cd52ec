package service

import (
	"context"
	"time"

	apperrors "recycle-rewards-backend/internal/common/errors"
	"recycle-rewards-backend/internal/common/logger"
	"recycle-rewards-backend/internal/common/validation"
	"recycle-rewards-backend/internal/features/user/models"
)

// UpdateAvatar validates an uploaded image's type and size, then records the
// URL the external image host assigned. Validation failures abort the update;
// the previous avatar is kept.
func (s *userService) UpdateAvatar(ctx context.Context, id, contentType string, sizeBytes int64, avatarURL string) (*models.User, error) {
	if err := validation.ValidateAvatarUpload(contentType, sizeBytes); err != nil {
		code := apperrors.ErrCodeUploadType
		if sizeBytes > validation.MaxAvatarSizeBytes {
			code = apperrors.ErrCodeUploadTooLarge
		}
		return nil, apperrors.Wrap(err, code, "Avatar upload rejected").
			WithDetail("content_type", contentType).
			WithDetail("size_bytes", sizeBytes)
	}

	if avatarURL == "" {
		return nil, apperrors.NewValidationError("avatar_url", "missing uploaded image URL")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = avatarURL
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.NewStorageError("update avatar", err)
	}

	logger.Info().Str("user_id", id).Msg("Avatar updated")
	return user, nil
}
