package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// PropertyController : public property listings
type PropertyController struct {
	svc *service.BdshubService
}

func NewPropertyController(svc *service.BdshubService) *PropertyController {
	return &PropertyController{svc: svc}
}

// List godoc
// @Summary      List properties
// @Description  Lists properties with optional filters, newest first unless sort_by is given
// @Produce      json
// @Tags         Properties
// @Param        skip           query     int     false  "Offset"
// @Param        limit          query     int     false  "Page size, at most 100"
// @Param        status         query     string  false  "for_sale, for_rent, sold or rented"
// @Param        property_type  query     string  false  "Property type"
// @Param        city           query     string  false  "City, partial match"
// @Param        district       query     string  false  "District, partial match"
// @Param        min_price      query     number  false  "Minimum price"
// @Param        max_price      query     number  false  "Maximum price"
// @Param        min_area       query     number  false  "Minimum area"
// @Param        max_area       query     number  false  "Maximum area"
// @Param        bedrooms       query     int     false  "Minimum bedrooms"
// @Param        bathrooms      query     int     false  "Minimum bathrooms"
// @Param        featured       query     bool    false  "Featured only"
// @Success      200            {array}   models.Property
// @Failure      400            {object}  responses.ErrorResponse
// @Router       /properties [get]
func (controller *PropertyController) List(c echo.Context) error {
	listing, err := listingFilter(c)
	if err != nil {
		return badQuery(c, err)
	}
	filter := service.PropertyFilter{ListingFilter: listing, PropertyType: c.QueryParam("property_type")}
	if filter.Bedrooms, err = optInt(c, "bedrooms"); err != nil {
		return badQuery(c, err)
	}
	if filter.Bathrooms, err = optInt(c, "bathrooms"); err != nil {
		return badQuery(c, err)
	}
	props, err := controller.svc.ListProperties(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, props)
}

func (controller *PropertyController) Featured(c echo.Context) error {
	limit, err := intParam(c, "limit", common.DefaultFeaturedLimit)
	if err != nil {
		return badQuery(c, err)
	}
	props, err := controller.svc.FeaturedProperties(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, props)
}

func (controller *PropertyController) Search(c echo.Context) error {
	q, page, err := searchParams(c)
	if err != nil {
		return badQuery(c, err)
	}
	props, err := controller.svc.SearchProperties(c.Request().Context(), q, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, props)
}

// Get godoc
// @Summary      Get a property
// @Description  Returns one property and counts the view
// @Produce      json
// @Tags         Properties
// @Param        id   path      string  true  "Property id"
// @Success      200  {object}  models.Property
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /properties/{id} [get]
func (controller *PropertyController) Get(c echo.Context) error {
	prop, err := controller.svc.GetProperty(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prop)
}

func (controller *PropertyController) Create(c echo.Context) error {
	var body service.PropertyInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if ok, err := rejectNegativePrice(c, &body.Price); !ok {
		return err
	}
	prop, err := controller.svc.CreateProperty(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, prop)
}

func (controller *PropertyController) Update(c echo.Context) error {
	var body service.PropertyPatch
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if ok, err := rejectNegativePrice(c, body.Price); !ok {
		return err
	}
	prop, err := controller.svc.UpdateProperty(c.Request().Context(), c.Param("id"), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prop)
}

func (controller *PropertyController) Delete(c echo.Context) error {
	if err := controller.svc.DeleteProperty(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully"})
}
