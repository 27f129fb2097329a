package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNotEditable            = errors.New("only pending or rejected posts can be edited")
	ErrNotDeletable           = errors.New("approved posts cannot be deleted")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrConflict               = errors.New("username or email already exists")
	ErrAccountSuspended       = errors.New("account suspended")
	ErrBadCredentials         = errors.New("bad auth")
	ErrImageTooLarge          = errors.New("image too large")
	ErrInvalidImage           = errors.New("invalid image")
	ErrWeakPassword           = errors.New("password entropy is too low")
	ErrInvalidArgument        = errors.New("invalid argument")
)

type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance. Required: %s, Available: %s", e.Required.StringFixed(0), e.Available.StringFixed(0))
}
