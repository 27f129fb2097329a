package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// NewsController : news articles
type NewsController struct {
	svc *service.BdshubService
}

func NewNewsController(svc *service.BdshubService) *NewsController {
	return &NewsController{svc: svc}
}

// List godoc
// @Summary      List news
// @Description  Lists published articles unless published=false is given
// @Produce      json
// @Tags         News
// @Param        skip       query     int     false  "Offset"
// @Param        limit      query     int     false  "Page size"
// @Param        category   query     string  false  "Category"
// @Param        published  query     bool    false  "Published state"
// @Success      200        {array}   models.NewsArticle
// @Router       /news [get]
func (controller *NewsController) List(c echo.Context) error {
	var (
		filter service.NewsFilter
		err    error
	)
	if filter.Page, err = pageParams(c); err != nil {
		return badQuery(c, err)
	}
	filter.Category = c.QueryParam("category")
	if filter.Published, err = optBool(c, "published"); err != nil {
		return badQuery(c, err)
	}
	articles, err := controller.svc.ListNews(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// Get accepts either the article id or its slug.
func (controller *NewsController) Get(c echo.Context) error {
	article, err := controller.svc.GetNews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

func (controller *NewsController) Create(c echo.Context) error {
	var body service.NewsInput
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	article, err := controller.svc.CreateNews(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, article)
}

func (controller *NewsController) Update(c echo.Context) error {
	var body service.NewsPatch
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	article, err := controller.svc.UpdateNews(c.Request().Context(), c.Param("id"), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

func (controller *NewsController) Delete(c echo.Context) error {
	if err := controller.svc.DeleteNews(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "News article deleted successfully"})
}
