package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// SimController : phone number listings
type SimController struct {
	svc *service.BdshubService
}

func NewSimController(svc *service.BdshubService) *SimController {
	return &SimController{svc: svc}
}

func (controller *SimController) List(c echo.Context) error {
	var (
		filter service.SimFilter
		err    error
	)
	if filter.Page, err = pageParams(c); err != nil {
		return badQuery(c, err)
	}
	filter.Network = c.QueryParam("network")
	filter.SimType = c.QueryParam("sim_type")
	filter.Status = c.QueryParam("status")
	filter.SortBy = c.QueryParam("sort_by")
	filter.Order = c.QueryParam("order")
	if filter.IsVip, err = optBool(c, "is_vip"); err != nil {
		return badQuery(c, err)
	}
	if filter.MinPrice, err = optDecimal(c, "min_price"); err != nil {
		return badQuery(c, err)
	}
	if filter.MaxPrice, err = optDecimal(c, "max_price"); err != nil {
		return badQuery(c, err)
	}
	sims, err := controller.svc.ListSims(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sims)
}

func (controller *SimController) Search(c echo.Context) error {
	q, page, err := searchParams(c)
	if err != nil {
		return badQuery(c, err)
	}
	sims, err := controller.svc.SearchSims(c.Request().Context(), q, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sims)
}

func (controller *SimController) Get(c echo.Context) error {
	sim, err := controller.svc.GetSim(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sim)
}

func (controller *SimController) Create(c echo.Context) error {
	var body service.SimInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if ok, err := rejectNegativePrice(c, &body.Price); !ok {
		return err
	}
	sim, err := controller.svc.CreateSim(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sim)
}

func (controller *SimController) Update(c echo.Context) error {
	var body service.SimPatch
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if ok, err := rejectNegativePrice(c, body.Price); !ok {
		return err
	}
	sim, err := controller.svc.UpdateSim(c.Request().Context(), c.Param("id"), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sim)
}

func (controller *SimController) Delete(c echo.Context) error {
	if err := controller.svc.DeleteSim(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sim deleted successfully"})
}
