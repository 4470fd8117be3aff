package service

import (
	"context"
	"errors"
	"time"

	"github.com/avolkov/auth-server/internal/events"
	"github.com/avolkov/auth-server/internal/hash"
	"github.com/avolkov/auth-server/internal/lockout"
	"github.com/avolkov/auth-server/internal/logging"
	"github.com/avolkov/auth-server/internal/models"
	"github.com/avolkov/auth-server/internal/repo"
	"github.com/avolkov/auth-server/internal/tokens"
	"github.com/avolkov/auth-server/internal/validation"
)

const defaultRole = "user"

// EventPublisher receives auth lifecycle events. Optional; nil disables
// publication.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, username string) error
}

// AttemptAuditor mirrors login attempts into an external audit store.
// Optional; nil disables it.
type AttemptAuditor interface {
	IndexAttempt(ctx context.Context, username string, success bool, at time.Time) error
}

type AuthService struct {
	Store   repo.Store
	Tokens  *tokens.Manager
	Lockout *lockout.Policy

	PasswordMinLength int

	Events EventPublisher
	Audit  AttemptAuditor
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, username, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if !validation.ValidUsername(username) || !validation.ValidPassword(password, s.PasswordMinLength) {
		return ErrInvalidFormat
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         defaultRole,
	}
	if err := s.Store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return ErrAlreadyExists
		}
		l.Error("register_error", "error", err)
		return storeErr(err)
	}

	s.publish(ctx, events.TypeUserRegistered, username)
	l.Info("user_registered", "username", username)
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "reason", "unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr(err)
	}

	// Lock state wins over credential correctness.
	if !s.Lockout.AuthenticationAllowed(user) {
		l.Warn("login_failed", "reason", "account locked")
		return nil, ErrAccountLocked
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		if err := s.recordAttempt(ctx, username, false); err != nil {
			return nil, storeErr(err)
		}
		l.Warn("login_failed", "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	if err := s.recordAttempt(ctx, username, true); err != nil {
		return nil, storeErr(err)
	}

	accessToken, accessExp, err := s.Tokens.IssueAccess(user.Username, user.Role)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign access token", "error", err)
		return nil, err
	}
	refreshToken, refreshExp, err := s.Tokens.IssueRefresh(user.Username)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeUserLoggedIn, username)
	l.Info("login_successful")

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// role is re-read from the store rather than trusted from the old
// claims, so role changes take effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.Validate(refreshToken, tokens.KindRefresh)
	if err != nil {
		l.Warn("refresh_failed", "reason", "token rejected")
		return "", time.Time{}, ErrInvalidToken
	}

	user, err := s.Store.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("refresh_failed", "reason", "subject gone")
			return "", time.Time{}, ErrInvalidToken
		}
		return "", time.Time{}, storeErr(err)
	}

	accessToken, accessExp, err := s.Tokens.IssueAccess(user.Username, user.Role)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot sign access token", "error", err)
		return "", time.Time{}, err
	}
	return accessToken, accessExp, nil
}

// Validate reports whether the token is a live access token. It never
// consults the store: a token stays valid for its lifetime even if the
// account is locked or removed after issuance.
func (s *AuthService) Validate(tokenStr string) bool {
	_, err := s.Tokens.Validate(tokenStr, tokens.KindAccess)
	return err == nil
}

func (s *AuthService) recordAttempt(ctx context.Context, username string, success bool) error {
	now := time.Now()
	locked, err := s.Lockout.RecordAttempt(ctx, username, success)
	if err != nil {
		return err
	}
	if locked {
		s.publish(ctx, events.TypeAccountLocked, username)
	}

	if s.Audit != nil {
		if err := s.Audit.IndexAttempt(ctx, username, success, now); err != nil {
			logging.FromContext(ctx).Warn("audit_index_failed", "username", username, "error", err)
		}
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType, username string) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, eventType, username); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", eventType, "error", err)
	}
}
