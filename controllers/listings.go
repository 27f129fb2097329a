package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func listingFilter(c echo.Context) (filter service.ListingFilter, err error) {
	if filter.Page, err = pageParams(c); err != nil {
		return filter, err
	}
	filter.Status = c.QueryParam("status")
	filter.City = c.QueryParam("city")
	filter.District = c.QueryParam("district")
	filter.SortBy = c.QueryParam("sort_by")
	filter.Order = c.QueryParam("order")
	if filter.MinPrice, err = optDecimal(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optDecimal(c, "max_price"); err != nil {
		return filter, err
	}
	if filter.MinArea, err = optFloat(c, "min_area"); err != nil {
		return filter, err
	}
	if filter.MaxArea, err = optFloat(c, "max_area"); err != nil {
		return filter, err
	}
	filter.Featured, err = optBool(c, "featured")
	return filter, err
}

func badQuery(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage(err.Error()))
}

// rejectNegativePrice writes a 422 when price is set and below zero.
func rejectNegativePrice(c echo.Context, price *decimal.Decimal) (bool, error) {
	if price != nil && price.IsNegative() {
		return false, c.JSON(http.StatusUnprocessableEntity, responses.FieldErrors(map[string]string{
			"price": "must be greater than or equal to 0",
		}))
	}
	return true, nil
}

func searchParams(c echo.Context) (string, service.Page, error) {
	page, err := pageParams(c)
	return c.QueryParam("q"), page, err
}
