package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// SettingsController : site wide settings
type SettingsController struct {
	svc *service.BdshubService
}

func NewSettingsController(svc *service.BdshubService) *SettingsController {
	return &SettingsController{svc: svc}
}

func (controller *SettingsController) Get(c echo.Context) error {
	settings, err := controller.svc.GetSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (controller *SettingsController) Update(c echo.Context) error {
	var body service.SettingsPatch
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	settings, err := controller.svc.UpdateSettings(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}
