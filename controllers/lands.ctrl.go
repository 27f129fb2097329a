package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// LandController : public land listings
type LandController struct {
	svc *service.BdshubService
}

func NewLandController(svc *service.BdshubService) *LandController {
	return &LandController{svc: svc}
}

// List godoc
// @Summary      List lands
// @Produce      json
// @Tags         Lands
// @Param        skip       query     int     false  "Offset"
// @Param        limit      query     int     false  "Page size, at most 100"
// @Param        status     query     string  false  "Status"
// @Param        land_type  query     string  false  "Land type"
// @Param        city       query     string  false  "City, partial match"
// @Param        min_price  query     number  false  "Minimum price"
// @Param        max_price  query     number  false  "Maximum price"
// @Success      200        {array}   models.Land
// @Router       /lands [get]
func (controller *LandController) List(c echo.Context) error {
	listing, err := listingFilter(c)
	if err != nil {
		return badQuery(c, err)
	}
	lands, err := controller.svc.ListLands(c.Request().Context(), service.LandFilter{
		ListingFilter: listing,
		LandType:      c.QueryParam("land_type"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lands)
}

func (controller *LandController) Featured(c echo.Context) error {
	limit, err := intParam(c, "limit", common.DefaultFeaturedLimit)
	if err != nil {
		return badQuery(c, err)
	}
	lands, err := controller.svc.FeaturedLands(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lands)
}

func (controller *LandController) Search(c echo.Context) error {
	q, page, err := searchParams(c)
	if err != nil {
		return badQuery(c, err)
	}
	lands, err := controller.svc.SearchLands(c.Request().Context(), q, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lands)
}

func (controller *LandController) Get(c echo.Context) error {
	land, err := controller.svc.GetLand(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, land)
}

func (controller *LandController) Create(c echo.Context) error {
	var body service.LandInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if ok, err := rejectNegativePrice(c, &body.Price); !ok {
		return err
	}
	land, err := controller.svc.CreateLand(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, land)
}

func (controller *LandController) Update(c echo.Context) error {
	var body service.LandPatch
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if ok, err := rejectNegativePrice(c, body.Price); !ok {
		return err
	}
	land, err := controller.svc.UpdateLand(c.Request().Context(), c.Param("id"), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, land)
}

func (controller *LandController) Delete(c echo.Context) error {
	if err := controller.svc.DeleteLand(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Land deleted successfully"})
}
