package responses

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error          bool              `json:"error"`
	Code           int               `json:"code"`
	Message        string            `json:"message"`
	Fields         map[string]string `json:"fields,omitempty"`
	HttpStatusCode int               `json:"-"`
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var AccountSuspendedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "Account has been suspended. Please contact support for further assistance.",
	HttpStatusCode: 401,
}

var InvalidStateTransitionError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "invalid state transition",
	HttpStatusCode: 400,
}

var NotEditableError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "Only pending or rejected posts can be edited",
	HttpStatusCode: 400,
}

var NotDeletableError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "Cannot delete approved posts. Contact admin.",
	HttpStatusCode: 400,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "not found",
	HttpStatusCode: 404,
}

var ForbiddenError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "forbidden",
	HttpStatusCode: 403,
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var InvalidAmountError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "invalid amount",
	HttpStatusCode: 400,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var ConflictError = ErrorResponse{
	Error:          true,
	Code:           10,
	Message:        "username or email already registered",
	HttpStatusCode: 400,
}

// InsufficientBalance carries the required and available amounts in its message.
func InsufficientBalance(required, available decimal.Decimal) ErrorResponse {
	return ErrorResponse{
		Error:          true,
		Code:           2,
		Message:        fmt.Sprintf("Insufficient balance. Required: %s, Available: %s", required.StringFixed(0), available.StringFixed(0)),
		HttpStatusCode: 400,
	}
}

// WithMessage returns a copy of e with a more specific message.
func (e ErrorResponse) WithMessage(msg string) ErrorResponse {
	e.Message = msg
	return e
}

// ValidationError turns validator field errors into a 422 with one entry per field.
func ValidationError(err error) ErrorResponse {
	resp := ErrorResponse{
		Error:          true,
		Code:           9,
		Message:        "validation failed",
		Fields:         map[string]string{},
		HttpStatusCode: 422,
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			resp.Fields[fe.Field()] = describeFieldError(fe)
		}
		return resp
	}
	resp.Message = err.Error()
	return resp
}

// FieldErrors builds a 422 from errors found outside the validator.
func FieldErrors(fields map[string]string) ErrorResponse {
	return ErrorResponse{
		Error:          true,
		Code:           9,
		Message:        "validation failed",
		Fields:         fields,
		HttpStatusCode: 422,
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "invalid value"
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		resp := ErrorResponse{Error: true, Code: 8, Message: fmt.Sprint(he.Message), HttpStatusCode: he.Code}
		switch he.Code {
		case http.StatusNotFound:
			resp.Code = NotFoundError.Code
		case http.StatusUnauthorized:
			resp.Code = BadAuthError.Code
		case http.StatusForbidden:
			resp.Code = ForbiddenError.Code
		}
		c.JSON(he.Code, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// bad auth responses are expected noise and never reported
func isErrAllowedForSentry(err error) bool {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(echo.Map); ok {
			if code, ok := m["code"].(int); ok && code == BadAuthError.Code {
				return false
			}
		}
	}
	return true
}
