package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HomeController struct {
	version string
}

func NewHomeController(version string) *HomeController {
	return &HomeController{version: version}
}

type HomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func (controller *HomeController) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, &HomeResponse{Message: "bdshub API", Version: controller.version})
}

func (controller *HomeController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}
