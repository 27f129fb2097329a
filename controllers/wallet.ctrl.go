package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// WalletController : balance, ledger and deposit requests of the logged in member
type WalletController struct {
	svc *service.BdshubService
}

func NewWalletController(svc *service.BdshubService) *WalletController {
	return &WalletController{svc: svc}
}

type BalanceResponse struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// Balance godoc
// @Summary      Retrieve wallet balance
// @Description  Current wallet balance of the user
// @Produce      json
// @Tags         Wallet
// @Success      200  {object}  BalanceResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /wallet/balance [get]
// @Security     OAuth2Password
func (controller *WalletController) Balance(c echo.Context) error {
	userID := currentUserID(c)
	balance, err := controller.svc.CurrentUserBalance(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, &BalanceResponse{UserID: userID, Balance: balance})
}

// Transactions godoc
// @Summary      List ledger entries
// @Description  Ledger entries of the user, newest first
// @Produce      json
// @Tags         Wallet
// @Param        transaction_type  query     string  false  "deposit, withdraw, post_fee or refund"
// @Param        status            query     string  false  "pending, completed, failed or cancelled"
// @Param        skip              query     int     false  "Offset"
// @Param        limit             query     int     false  "Page size"
// @Success      200               {object}  listResponse
// @Failure      400               {object}  responses.ErrorResponse
// @Router       /wallet/transactions [get]
// @Security     OAuth2Password
func (controller *WalletController) Transactions(c echo.Context) error {
	var filter service.TransactionFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	entries, total, err := controller.svc.TransactionsFor(c.Request().Context(), currentUserID(c), filter)
	if err != nil {
		return err
	}
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	return c.JSON(http.StatusOK, &listResponse{Items: entries, Total: total, Skip: page.Skip, Limit: page.Limit})
}

// Deposit godoc
// @Summary      Request a deposit
// @Description  Records a pending bank transfer deposit. The wallet is credited once it is approved.
// @Accept       json
// @Produce      json
// @Tags         Wallet
// @Param        deposit  body      service.DepositRequest  true  "Deposit"
// @Success      201      {object}  models.Transaction
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /wallet/deposit [post]
// @Security     OAuth2Password
func (controller *WalletController) Deposit(c echo.Context) error {
	var body service.DepositRequest
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	entry, err := controller.svc.RequestDeposit(c.Request().Context(), currentUserID(c), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// BankInfo returns the account to transfer deposits to.
func (controller *WalletController) BankInfo(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := controller.svc.FindUser(ctx, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	info, err := controller.svc.BankInfo(ctx, user.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (controller *WalletController) BankQR(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := controller.svc.FindUser(ctx, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	settings, err := controller.svc.GetSettings(ctx)
	if err != nil {
		return err
	}
	png, err := service.TransferQRCode(settings.BankAccountNumber, settings.BankName, service.TransferNote(user.Username))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
