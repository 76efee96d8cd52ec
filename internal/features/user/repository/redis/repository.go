package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"recycle-rewards-backend/internal/features/user/models"
	"recycle-rewards-backend/internal/features/user/repository"
)

var ErrNotFound = errors.New("user not found")

const codeTTL = 10 * time.Minute

type userRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) repository.UserRepository {
	return &userRepository{
		client: client,
	}
}

func userKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, userKey(user.ID), userJSON, 0).Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	userJSON, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	return r.Create(ctx, user)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, userKey(id)).Err()
}

type codeRepository struct {
	client *redis.Client
}

func NewCodeRepository(client *redis.Client) repository.CodeRepository {
	return &codeRepository{
		client: client,
	}
}

func codeKey(userID string) string {
	return fmt.Sprintf("pwchange:%s", userID)
}

func (r *codeRepository) SaveCode(ctx context.Context, userID, code string) error {
	return r.client.Set(ctx, codeKey(userID), code, codeTTL).Err()
}

func (r *codeRepository) GetCode(ctx context.Context, userID string) (string, error) {
	code, err := r.client.Get(ctx, codeKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", err
	}
	return code, nil
}

func (r *codeRepository) DeleteCode(ctx context.Context, userID string) error {
	return r.client.Del(ctx, codeKey(userID)).Err()
}
