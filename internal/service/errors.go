package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat = errors.New("invalid credentials format")
	ErrAlreadyExists = errors.New("username already exists")

	// ErrInvalidCredentials deliberately covers both unknown user and
	// wrong password so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrAccountLocked = errors.New("account locked")
	ErrInvalidToken  = errors.New("invalid token")
	ErrStore         = errors.New("credential store failure")
)

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStore, err)
}
