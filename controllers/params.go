package controllers

import (
	"fmt"
	"strconv"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/bdsvietnam/bdshub.go/lib/tokens"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// The helpers below read optional query parameters. A missing parameter
// yields nil, a malformed one an error naming the parameter.

func optInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

func optFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

func optBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &v, nil
}

func optDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

func intParam(c echo.Context, name string, def int) (int, error) {
	v, err := optInt(c, name)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

func pageParams(c echo.Context) (service.Page, error) {
	skip, err := intParam(c, "skip", 0)
	if err != nil {
		return service.Page{}, err
	}
	limit, err := intParam(c, "limit", 0)
	if err != nil {
		return service.Page{}, err
	}
	return service.Page{Skip: skip, Limit: limit}, nil
}

func currentUserID(c echo.Context) string {
	id, _ := c.Get(tokens.ContextUserID).(string)
	return id
}

// listResponse is the envelope of every paginated list.
type listResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}
