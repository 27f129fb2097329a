package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AdminUserController : user management for admins
type AdminUserController struct {
	svc *service.BdshubService
}

func NewAdminUserController(svc *service.BdshubService) *AdminUserController {
	return &AdminUserController{svc: svc}
}

type UserStatusBody struct {
	Status string `json:"status" validate:"required,oneof=active suspended pending"`
}

type BalanceAdjustmentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
}

type BalanceAdjustmentResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
}

type CreateUserBody struct {
	service.RegisterRequest
	Role string `json:"role" validate:"omitempty,oneof=member admin"`
}

type CreateUserResponse struct {
	User     *models.User `json:"user"`
	Password string       `json:"password"`
}

func (controller *AdminUserController) List(c echo.Context) error {
	var filter service.UserFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	users, total, err := controller.svc.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	return c.JSON(http.StatusOK, &listResponse{Items: users, Total: total, Skip: page.Skip, Limit: page.Limit})
}

func (controller *AdminUserController) Get(c echo.Context) error {
	user, err := controller.svc.FindUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (controller *AdminUserController) Update(c echo.Context) error {
	var body service.ProfileUpdate
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	user, err := controller.svc.UpdateProfile(c.Request().Context(), c.Param("id"), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (controller *AdminUserController) SetStatus(c echo.Context) error {
	var body UserStatusBody
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	user, err := controller.svc.SetUserStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// AdjustBalance godoc
// @Summary      Adjust a wallet
// @Description  Credits (positive amount) or debits (negative amount) a wallet and records a deposit or withdraw ledger entry
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        id    path      string                 true  "User id"
// @Param        body  body      BalanceAdjustmentBody  true  "Adjustment"
// @Success      200   {object}  BalanceAdjustmentResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      404   {object}  responses.ErrorResponse
// @Router       /admin/users/{id}/balance [put]
// @Security     OAuth2Password
func (controller *AdminUserController) AdjustBalance(c echo.Context) error {
	var body BalanceAdjustmentBody
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	if body.Amount.IsZero() {
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError.WithMessage("amount must not be zero"))
	}
	ctx := c.Request().Context()
	userID := c.Param("id")
	entry, err := controller.svc.AdjustBalance(ctx, userID, body.Amount, body.Description, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	balance, err := controller.svc.CurrentUserBalance(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &BalanceAdjustmentResponse{Transaction: entry, NewBalance: balance})
}

// Create is guarded by the static admin token and is how the first admin
// account gets created. The generated password is only returned here.
func (controller *AdminUserController) Create(c echo.Context) error {
	var body CreateUserBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	missing := map[string]string{}
	if body.Username == "" {
		missing["username"] = "field required"
	}
	if body.Email == "" {
		missing["email"] = "field required"
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, responses.FieldErrors(missing))
	}
	role := body.Role
	if role == "" {
		role = common.RoleMember
	}
	user, err := controller.svc.CreateUser(c.Request().Context(), &body.RegisterRequest, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, &CreateUserResponse{User: user, Password: user.Password})
}
