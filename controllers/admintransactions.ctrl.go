package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AdminTransactionController : ledger overview and deposit review
type AdminTransactionController struct {
	svc *service.BdshubService
}

func NewAdminTransactionController(svc *service.BdshubService) *AdminTransactionController {
	return &AdminTransactionController{svc: svc}
}

type DepositReviewBody struct {
	AdminNotes string `json:"admin_notes"`
}

type DepositRejectBody struct {
	Reason string `json:"reason" validate:"required"`
}

func (controller *AdminTransactionController) List(c echo.Context) error {
	var filter service.TransactionFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	entries, total, err := controller.svc.TransactionsFor(c.Request().Context(), filter.UserID, filter)
	if err != nil {
		return err
	}
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	return c.JSON(http.StatusOK, &listResponse{Items: entries, Total: total, Skip: page.Skip, Limit: page.Limit})
}

// Approve godoc
// @Summary      Approve a deposit
// @Description  Completes a pending deposit and credits the requested amount
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        id    path      string             true   "Transaction id"
// @Param        body  body      DepositReviewBody  false  "Notes"
// @Success      200   {object}  models.Transaction
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /admin/transactions/{id}/approve [put]
// @Security     OAuth2Password
func (controller *AdminTransactionController) Approve(c echo.Context) error {
	var body DepositReviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	entry, err := controller.svc.ApproveDeposit(c.Request().Context(), currentUserID(c), c.Param("id"), body.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (controller *AdminTransactionController) Reject(c echo.Context) error {
	var body DepositRejectBody
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	entry, err := controller.svc.RejectDeposit(c.Request().Context(), currentUserID(c), c.Param("id"), body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}
