package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

type StatsController struct {
	svc *service.BdshubService
}

func NewStatsController(svc *service.BdshubService) *StatsController {
	return &StatsController{svc: svc}
}

// Public godoc
// @Summary      Site statistics
// @Produce      json
// @Tags         Info
// @Success      200  {object}  service.PublicStats
// @Router       /stats [get]
func (controller *StatsController) Public(c echo.Context) error {
	stats, err := controller.svc.PublicStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Dashboard godoc
// @Summary      Admin dashboard statistics
// @Produce      json
// @Tags         Admin
// @Success      200  {object}  service.DashboardStats
// @Router       /admin/dashboard/stats [get]
// @Security     OAuth2Password
func (controller *StatsController) Dashboard(c echo.Context) error {
	stats, err := controller.svc.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
