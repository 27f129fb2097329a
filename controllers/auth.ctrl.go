package controllers

import (
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AuthController : AuthController struct
type AuthController struct {
	svc *service.BdshubService
}

func NewAuthController(svc *service.BdshubService) *AuthController {
	return &AuthController{
		svc: svc,
	}
}

type AuthRequestBody struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
// @Summary      Register a member account
// @Description  Creates a member with an empty wallet and returns an access and refresh token
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Param        account  body      service.RegisterRequest  true  "New account"
// @Success      201      {object}  service.AuthResult
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      422      {object}  responses.ErrorResponse
// @Router       /auth/register [post]
func (controller *AuthController) Register(c echo.Context) error {
	var body service.RegisterRequest
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	result, err := controller.svc.Register(c.Request().Context(), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a username or email and password, or a refresh token, for new tokens
// @Accept       json
// @Produce      json
// @Tags         Auth
// @Param        credentials  body      AuthRequestBody  true  "Credentials"
// @Success      200          {object}  service.AuthResult
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      401          {object}  responses.ErrorResponse
// @Router       /auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {

	var body AuthRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load auth user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if body.Login == "" || body.Password == "" {
		// To support Swagger we also look in the Form data
		params, err := c.FormParams()
		if err != nil {
			return err
		}
		username := params.Get("username")
		password := params.Get("password")
		if username != "" && password != "" {
			body.Login = username
			body.Password = password
		}
	}
	if body.RefreshToken == "" && (body.Login == "" || body.Password == "") {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage("login and password or refresh_token required"))
	}

	result, err := controller.svc.GenerateToken(c.Request().Context(), body.Login, body.Password, body.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Me returns the profile of the logged in user.
func (controller *AuthController) Me(c echo.Context) error {
	user, err := controller.svc.FindUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (controller *AuthController) UpdateProfile(c echo.Context) error {
	var body service.ProfileUpdate
	if ok, err := bindAndValidate(c, &body); !ok {
		return err
	}
	// members cannot verify their own email
	body.EmailVerified = nil
	user, err := controller.svc.UpdateProfile(c.Request().Context(), currentUserID(c), &body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
