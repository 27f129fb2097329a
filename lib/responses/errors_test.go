package responses

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBadAuthErrorsNotAllowedForSentry(t *testing.T) {
	badAuthErrResponse := echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":   true,
		"code":    1,
		"message": "bad auth",
	})

	isAllowed := isErrAllowedForSentry(badAuthErrResponse)
	assert.False(t, isAllowed)
}

func TestNotBadAuthErrorsAllowedForSentry(t *testing.T) {
	notBadAuthErrResponse := echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":   true,
		"code":    2,
		"message": "not bad auth",
	})

	isAllowed := isErrAllowedForSentry(notBadAuthErrResponse)
	assert.True(t, isAllowed)
}

func TestNonErrorResponseErrorsAllowedForSentry(t *testing.T) {
	err := errors.New("random error")

	isAllowed := isErrAllowedForSentry(err)
	assert.True(t, isAllowed)
}

func TestInsufficientBalanceMessage(t *testing.T) {
	resp := InsufficientBalance(decimal.NewFromInt(50000), decimal.NewFromInt(49999))
	assert.Equal(t, "Insufficient balance. Required: 50000, Available: 49999", resp.Message)
	assert.Equal(t, http.StatusBadRequest, resp.HttpStatusCode)
	assert.Equal(t, 2, resp.Code)
}

func TestValidationErrorUsesFieldNames(t *testing.T) {
	type body struct {
		Title string `validate:"required"`
		Kind  string `validate:"oneof=a b"`
	}
	err := validator.New().Struct(&body{Kind: "c"})
	resp := ValidationError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.HttpStatusCode)
	assert.Equal(t, "field required", resp.Fields["Title"])
	assert.Equal(t, "must be one of: a b", resp.Fields["Kind"])
}
