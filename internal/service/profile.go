package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/repository"
	"github.com/inkwell-io/backend/internal/storage"
)

const profileImageCacheTTL = 5 * time.Minute

type ProfileService struct {
	accounts *repository.AccountRepository
	redis    *storage.RedisClient // nil disables caching
}

func NewProfileService(accounts *repository.AccountRepository, redis *storage.RedisClient) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		redis:    redis,
	}
}

// Sync writes the nickname and profile image carried in the session token
// onto the account. Returns (nil, nil) when the account does not exist.
func (s *ProfileService) Sync(ctx context.Context, accountID uuid.UUID, nickname, profileImageURL *string) (*models.Account, error) {
	matched, err := s.accounts.UpdateProfile(ctx, accountID, nickname, profileImageURL)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, nil
	}

	s.invalidateImageCache(ctx, accountID)

	return s.accounts.FindByID(ctx, accountID)
}

// ResolveProfileImage returns the account's profile image URL, or "" when
// none is set. Results are cached briefly: blog listings resolve images for
// several owners per request.
func (s *ProfileService) ResolveProfileImage(ctx context.Context, accountID uuid.UUID) (string, error) {
	cacheKey := fmt.Sprintf("profile:image:%s", accountID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
			return cached, nil
		}
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	imageURL := ""
	if account != nil && account.ProfileImageURL != nil {
		imageURL = *account.ProfileImageURL
	}

	if s.redis != nil {
		// A failed cache write only costs the next lookup a DB read.
		_ = s.redis.Set(ctx, cacheKey, imageURL, profileImageCacheTTL)
	}

	return imageURL, nil
}

func (s *ProfileService) invalidateImageCache(ctx context.Context, accountID uuid.UUID) {
	if s.redis == nil {
		return
	}

	s.redis.Del(ctx, fmt.Sprintf("profile:image:%s", accountID))
}
