package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quillpost/internal/apperr"
	"quillpost/internal/log"
	"quillpost/internal/metrics"
	"quillpost/internal/models"
	"quillpost/internal/repository"
	"quillpost/internal/utils"
)

const PasswordMinLength = 6

// AccountService owns user accounts and the admin-managed group list.
type AccountService struct {
	users  repository.UserRepository
	groups repository.GroupRepository
}

func NewAccountService(repos *repository.Repositories) *AccountService {
	return &AccountService{users: repos.Users, groups: repos.Groups}
}

func (s *AccountService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(password) < PasswordMinLength {
		return nil, apperr.NewValidation("password", fmt.Sprintf("must be at least %d characters", PasswordMinLength))
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: username, Password: hash, Role: models.RoleUser}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConstraintViolation) {
			return nil, apperr.NewValidation("username", "username already taken")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns apperr.ErrUnauthorized for an unknown user or a wrong
// password without telling the two apart.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperr.ErrUnauthorized
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

func (s *AccountService) UserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AccountService) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// DeleteUser removes the account and everything it authored.
func (s *AccountService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().Uint(log.FieldUserID, user.ID).Str("username", username).Msg("user deleted")
	return nil
}

func (s *AccountService) CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error) {
	group := &models.Group{
		Title:       strings.TrimSpace(title),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := s.groups.Create(ctx, group); err != nil {
		if errors.Is(err, apperr.ErrConstraintViolation) {
			return nil, apperr.NewValidation("slug", "slug already in use")
		}
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group; its posts remain without one.
func (s *AccountService) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.groups.Delete(ctx, group.ID)
}
