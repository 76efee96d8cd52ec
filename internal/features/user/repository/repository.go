package repository

import (
	"context"

	"recycle-rewards-backend/internal/features/user/models"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// CodeRepository stores short-lived verification codes for the two-step
// password change.
type CodeRepository interface {
	SaveCode(ctx context.Context, userID, code string) error
	GetCode(ctx context.Context, userID string) (string, error)
	DeleteCode(ctx context.Context, userID string) error
}
