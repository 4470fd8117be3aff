package lockout

import (
	"context"
	"time"

	"github.com/avolkov/auth-server/internal/logging"
	"github.com/avolkov/auth-server/internal/models"
	"github.com/avolkov/auth-server/internal/repo"
)

// Policy decides whether an account may authenticate and flips it to
// locked once too many failures pile up inside the trailing window.
type Policy struct {
	Store       repo.Store
	MaxAttempts int
	Window      time.Duration
}

func (p *Policy) AuthenticationAllowed(u *models.User) bool {
	return !u.Locked
}

// RecordAttempt appends the attempt and, for failures only, re-checks
// the threshold. The count and the lock flip are not atomic with the
// append: two concurrent failures may both observe the threshold and
// both lock, which is idempotent and accepted.
func (p *Policy) RecordAttempt(ctx context.Context, username string, success bool) (bool, error) {
	if err := p.Store.AppendLoginAttempt(ctx, username, success, time.Now()); err != nil {
		return false, err
	}
	if success {
		return false, nil
	}

	n, err := p.Store.CountRecentFailures(ctx, username, p.Window)
	if err != nil {
		return false, err
	}
	if n < int64(p.MaxAttempts) {
		return false, nil
	}

	if err := p.Store.SetLocked(ctx, username, true); err != nil {
		return false, err
	}
	logging.FromContext(ctx).Warn("account locked",
		"username", username, "failed_attempts", n, "window", p.Window.String())
	return true, nil
}

// Unlock is the Locked -> Open transition. No use case calls it: the
// system has no automatic or operator-driven unlock yet, and the hook
// exists so that gap stays visible instead of being papered over with
// an assumed expiry.
func (p *Policy) Unlock(ctx context.Context, username string) error {
	return p.Store.SetLocked(ctx, username, false)
}
