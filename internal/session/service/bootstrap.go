package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/doormanhq/doorman/internal/session/domain"
	"github.com/doormanhq/doorman/internal/session/store"
	"github.com/doormanhq/doorman/pkg/cryptox"
	"github.com/doormanhq/doorman/pkg/idx"
)

// BootstrapService provisions the first account on an empty database so a
// fresh deployment has someone who can log in. It never touches a database
// that already has users.
type BootstrapService struct {
	Store  store.Store
	Logger *slog.Logger
}

// EnsureAdmin creates an admin user with the given credentials if and only
// if the users table is empty. Returns the created user's ID, or "" when
// nothing was done.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", nil
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return "", fmt.Errorf("check users: %w", err)
	}
	if !empty {
		return "", nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash bootstrap password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Administrator",
		Role:         "admin",
		PasswordHash: hash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		// A concurrent replica may have won the race; that's fine.
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", nil
		}
		return "", fmt.Errorf("create bootstrap user: %w", err)
	}

	s.Logger.Info("bootstrap admin created", "user_id", user.ID)
	return user.ID, nil
}
