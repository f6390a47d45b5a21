// Package auth implements registration and login for the wallet API.
// The ledger core only requires an authenticated user identity; this
// package produces it.
package auth

import (
	"context"
	"errors"
	"time"

	"paisa/internal/logger"
	"paisa/internal/models"
	"paisa/internal/repositories"
	"paisa/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const tokenTTL = 24 * time.Hour

type Service interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type service struct {
	users     repositories.UserRepository
	jwtSecret string
	log       *logrus.Logger
}

func NewService(users repositories.UserRepository, jwtSecret string, log *logrus.Logger) Service {
	if users == nil {
		panic("user repository is required")
	}
	if log == nil {
		log = logger.New()
	}
	return &service{
		users:     users,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (s *service) Register(ctx context.Context, name, email, password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return "", ErrEmailTaken
		}
		return "", err
	}

	return s.token(user)
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Info("login failed: wrong password")
		return "", ErrInvalidCredentials
	}

	return s.token(user)
}

func (s *service) token(user *models.User) (string, error) {
	return utils.GenerateToken(&models.UserClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, s.jwtSecret, tokenTTL)
}
