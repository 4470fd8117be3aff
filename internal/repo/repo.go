package repo

import (
	"context"
	"errors"
	"time"

	"github.com/avolkov/auth-server/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserAlreadyExist = errors.New("user already exist")
)

// Store is the credential store port consumed by the auth core.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	AppendLoginAttempt(ctx context.Context, username string, success bool, at time.Time) error
	CountRecentFailures(ctx context.Context, username string, window time.Duration) (int64, error)
	SetLocked(ctx context.Context, username string, locked bool) error
}
