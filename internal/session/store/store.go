package store

import (
	"context"
	"errors"

	"github.com/doormanhq/doorman/internal/session/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. The session core treats it as an external collaborator:
// user records are read per request, never cached.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id. Used by the resolver on every
	// guarded request.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during credential login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes a user. Outstanding tokens for the user stop
	// resolving on the next request.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty reports whether any users exist; drives first-run bootstrap.
	IsEmpty(ctx context.Context) (bool, error)
}
