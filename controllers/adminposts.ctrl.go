package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AdminPostController : review of listing drafts
type AdminPostController struct {
	svc *service.BdshubService
}

func NewAdminPostController(svc *service.BdshubService) *AdminPostController {
	return &AdminPostController{svc: svc}
}

// ApproveRequestBody also carries a rejection: status "rejected" with a
// rejection_reason is handled like PUT /admin/posts/:id/reject.
type ApproveRequestBody struct {
	Status          string `json:"status" validate:"omitempty,oneof=approved rejected"`
	Featured        bool   `json:"featured"`
	RejectionReason string `json:"rejection_reason"`
	AdminNotes      string `json:"admin_notes"`
}

type RejectRequestBody struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
	AdminNotes      string `json:"admin_notes"`
}

func (controller *AdminPostController) list(c echo.Context, filter service.PostFilter) error {
	posts, total, err := controller.svc.ListPosts(c.Request().Context(), "", filter)
	if err != nil {
		return err
	}
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	return c.JSON(http.StatusOK, &listResponse{Items: posts, Total: total, Skip: page.Skip, Limit: page.Limit})
}

func (controller *AdminPostController) List(c echo.Context) error {
	var filter service.PostFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	return controller.list(c, filter)
}

func (controller *AdminPostController) Pending(c echo.Context) error {
	var filter service.PostFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	filter.Status = common.PostStatusPending
	return controller.list(c, filter)
}

// Approve godoc
// @Summary      Approve a draft
// @Description  Approves a pending draft and publishes it as a public listing with the same id. With status "rejected" the draft is rejected and the fee refunded instead.
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        id    path      string              true  "Draft id"
// @Param        body  body      ApproveRequestBody  false  "Options"
// @Success      200   {object}  models.MemberPost
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /admin/posts/{id}/approve [put]
// @Security     OAuth2Password
func (controller *AdminPostController) Approve(c echo.Context) error {
	var body ApproveRequestBody
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if body.Status == common.PostStatusRejected {
		if body.RejectionReason == "" {
			return c.JSON(http.StatusUnprocessableEntity, responses.FieldErrors(map[string]string{
				"rejection_reason": "field required",
			}))
		}
		post, err := controller.svc.RejectPost(c.Request().Context(), currentUserID(c), c.Param("id"), body.RejectionReason, body.AdminNotes)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, post)
	}
	post, err := controller.svc.ApprovePost(c.Request().Context(), currentUserID(c), c.Param("id"), body.Featured, body.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Reject godoc
// @Summary      Reject a draft
// @Description  Rejects a pending draft and refunds the post fee to the author
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        id    path      string             true  "Draft id"
// @Param        body  body      RejectRequestBody  true  "Reason"
// @Success      200   {object}  models.MemberPost
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /admin/posts/{id}/reject [put]
// @Security     OAuth2Password
func (controller *AdminPostController) Reject(c echo.Context) error {
	var body RejectRequestBody
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	post, err := controller.svc.RejectPost(c.Request().Context(), currentUserID(c), c.Param("id"), body.RejectionReason, body.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}
