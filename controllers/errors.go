package controllers

import (
	"errors"
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// respondError maps service errors onto the response taxonomy. Errors it
// does not know are returned to echo's HTTPErrorHandler.
func respondError(c echo.Context, err error) error {
	var balanceErr *service.InsufficientBalanceError
	switch {
	case errors.As(err, &balanceErr):
		return c.JSON(http.StatusBadRequest, responses.InsufficientBalance(balanceErr.Required, balanceErr.Available))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, responses.ForbiddenError)
	case errors.Is(err, service.ErrInvalidStateTransition):
		return c.JSON(http.StatusBadRequest, responses.InvalidStateTransitionError)
	case errors.Is(err, service.ErrNotEditable):
		return c.JSON(http.StatusBadRequest, responses.NotEditableError)
	case errors.Is(err, service.ErrNotDeletable):
		return c.JSON(http.StatusBadRequest, responses.NotDeletableError)
	case errors.Is(err, service.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError.WithMessage(err.Error()))
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusBadRequest, responses.ConflictError)
	case errors.Is(err, service.ErrBadCredentials):
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	case errors.Is(err, service.ErrAccountSuspended):
		return c.JSON(http.StatusUnauthorized, responses.AccountSuspendedError)
	case errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrWeakPassword):
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage(err.Error()))
	}
	return err
}

// bindAndValidate loads the request body into body and runs the validator.
// When it returns false the error response has already been written.
func bindAndValidate(c echo.Context, body interface{}) (bool, error) {
	if err := c.Bind(body); err != nil {
		c.Logger().Errorf("Failed to load request body: %v", err)
		return false, c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(body); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, responses.ValidationError(err))
	}
	return true, nil
}
