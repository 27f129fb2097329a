package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AnalyticsController : page view tracking and traffic reports
type AnalyticsController struct {
	svc *service.BdshubService
}

func NewAnalyticsController(svc *service.BdshubService) *AnalyticsController {
	return &AnalyticsController{svc: svc}
}

// TrackPageView godoc
// @Summary      Record a page view
// @Accept       json
// @Produce      json
// @Tags         Analytics
// @Param        view  body      service.PageViewInput  true  "Page view"
// @Success      201   {object}  models.PageView
// @Failure      422   {object}  responses.ErrorResponse
// @Router       /analytics/pageview [post]
func (controller *AnalyticsController) TrackPageView(c echo.Context) error {
	var body service.PageViewInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if body.IPAddress == "" {
		body.IPAddress = c.RealIP()
	}
	if body.UserAgent == "" {
		body.UserAgent = c.Request().UserAgent()
	}
	view, err := controller.svc.TrackPageView(c.Request().Context(), &body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

func (controller *AnalyticsController) Traffic(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = "day"
	}
	limit, err := intParam(c, "limit", 30)
	if err != nil {
		return badQuery(c, err)
	}
	points, err := controller.svc.Traffic(c.Request().Context(), period, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, points)
}

func (controller *AnalyticsController) PopularPages(c echo.Context) error {
	days, err := intParam(c, "days", 7)
	if err != nil {
		return badQuery(c, err)
	}
	limit, err := intParam(c, "limit", 10)
	if err != nil {
		return badQuery(c, err)
	}
	pages, err := controller.svc.PopularPages(c.Request().Context(), days, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pages)
}
