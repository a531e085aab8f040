package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
)

type AuthService struct {
	repo *repositories.Repository
}

func NewAuthService(repo *repositories.Repository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates a regular user. Input shape (length, charset,
// confirmation) is validated by the caller. The seeded admin's name is
// reserved.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if strings.EqualFold(username, config.AdminUsername()) {
		return nil, ErrUsernameTaken
	}
	users := s.repo.WithContext(ctx).Users

	existing, err := users.FindByUsername(username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &models.User{Username: username, Password: hash, Role: auth.RoleUser}
	if err := users.Create(u); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrUsernameTaken
		}
		return nil, apperr.Internal(err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the credentials and issues a token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := s.repo.WithContext(ctx).Users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	if u == nil || !auth.CheckPassword(u.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.Identity())
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, u, nil
}
