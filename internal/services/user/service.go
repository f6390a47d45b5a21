// Package user serves account profile reads.
package user

import (
	"context"
	"fmt"

	"paisa/internal/models"
	"paisa/internal/repositories"
)

// Cache is the read-through account cache used for profile lookups.
type Cache interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	SetUser(ctx context.Context, user *models.User) error
}

type Service interface {
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
}

type service struct {
	users repositories.UserRepository
	cache Cache
}

func NewService(users repositories.UserRepository, cache Cache) Service {
	if users == nil {
		panic("user repository is required")
	}
	return &service{users: users, cache: cache}
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	if s.cache != nil {
		if user, err := s.cache.GetUser(ctx, userID); err == nil {
			return user, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if s.cache != nil {
		// Best effort; a cold cache only costs the next read.
		_ = s.cache.SetUser(ctx, user)
	}
	return user, nil
}
