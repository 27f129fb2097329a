package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// MemberPostController : listing drafts of the logged in member
type MemberPostController struct {
	svc *service.BdshubService
}

func NewMemberPostController(svc *service.BdshubService) *MemberPostController {
	return &MemberPostController{svc: svc}
}

func bindPostPayload(c echo.Context) (*service.PostPayload, bool, error) {
	var body service.PostPayload
	if ok, err := bindAndValidate(c, &body); !ok {
		return nil, false, err
	}
	if missing := body.MissingFields(); len(missing) > 0 {
		return nil, false, c.JSON(http.StatusUnprocessableEntity, responses.FieldErrors(missing))
	}
	return &body, true, nil
}

// Submit godoc
// @Summary      Submit a listing draft
// @Description  Charges the post fee and stores the draft as pending review
// @Accept       json
// @Produce      json
// @Tags         Member posts
// @Param        post  body      service.PostPayload  true  "Draft"
// @Success      201   {object}  models.MemberPost
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      422   {object}  responses.ErrorResponse
// @Router       /member/posts [post]
// @Security     OAuth2Password
func (controller *MemberPostController) Submit(c echo.Context) error {
	body, ok, err := bindPostPayload(c)
	if !ok {
		return err
	}
	post, err := controller.svc.SubmitPost(c.Request().Context(), currentUserID(c), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// List godoc
// @Summary      List own drafts
// @Produce      json
// @Tags         Member posts
// @Param        status     query     string  false  "pending, approved, rejected or expired"
// @Param        post_type  query     string  false  "property, land, sim or news"
// @Success      200        {object}  listResponse
// @Router       /member/posts [get]
// @Security     OAuth2Password
func (controller *MemberPostController) List(c echo.Context) error {
	var filter service.PostFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	posts, total, err := controller.svc.ListPosts(c.Request().Context(), currentUserID(c), filter)
	if err != nil {
		return err
	}
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	return c.JSON(http.StatusOK, &listResponse{Items: posts, Total: total, Skip: page.Skip, Limit: page.Limit})
}

func (controller *MemberPostController) Get(c echo.Context) error {
	post, err := controller.svc.FindPost(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary      Edit a draft
// @Description  Pending and rejected drafts can be edited, a rejected draft goes back to pending
// @Accept       json
// @Produce      json
// @Tags         Member posts
// @Param        id    path      string               true  "Draft id"
// @Param        post  body      service.PostPayload  true  "Draft"
// @Success      200   {object}  models.MemberPost
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      403   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /member/posts/{id} [put]
// @Security     OAuth2Password
func (controller *MemberPostController) Update(c echo.Context) error {
	body, ok, err := bindPostPayload(c)
	if !ok {
		return err
	}
	post, err := controller.svc.EditPost(c.Request().Context(), currentUserID(c), c.Param("id"), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete withdraws a draft that has not been approved. The fee is not refunded.
func (controller *MemberPostController) Delete(c echo.Context) error {
	if err := controller.svc.WithdrawPost(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}
