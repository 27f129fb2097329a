package tokens

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserID   = "UserID"
	ContextUserRole = "UserRole"
)

// Claims are embedded in both access and refresh tokens.
type Claims struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	IsRefresh bool   `json:"isRefresh,omitempty"`

	jwt.StandardClaims
}

// UserResolver loads the account a token was issued for.
type UserResolver interface {
	FindUser(ctx context.Context, userID string) (*models.User, error)
}

// Middleware resolves the bearer token to the stored user and puts its id and
// current role on the echo context. Requests without a valid access token, or
// whose user no longer exists, get a 401, as do suspended accounts.
func Middleware(secret []byte, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(auth, "Bearer ")
			if !found || token == "" {
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}
			claims, err := ParseToken(secret, token, false)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}
			user, err := users.FindUser(c.Request().Context(), claims.ID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}
			if user.Status == common.UserStatusSuspended {
				return c.JSON(http.StatusUnauthorized, responses.AccountSuspendedError)
			}
			c.Set(ContextUserID, user.ID)
			c.Set(ContextUserRole, user.Role)
			return next(c)
		}
	}
}

// RoleMiddleware must run after Middleware.
func RoleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get(ContextUserRole) != role {
				return c.JSON(http.StatusForbidden, responses.ForbiddenError)
			}
			return next(c)
		}
	}
}

// GenerateAccessToken : Generate Access Token
func GenerateAccessToken(secret []byte, expiryInSeconds int, u *models.User) (string, error) {
	claims := &Claims{
		ID:   u.ID,
		Role: u.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Second * time.Duration(expiryInSeconds)).Unix(),
		},
	}
	t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

// GenerateRefreshToken : Generate Refresh Token
func GenerateRefreshToken(secret []byte, expiryInSeconds int, u *models.User) (string, error) {
	claims := &Claims{
		ID:        u.ID,
		Role:      u.Role,
		IsRefresh: true,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Second * time.Duration(expiryInSeconds)).Unix(),
		},
	}
	t, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

// ParseToken validates the signature and expiry. Refresh tokens are only
// accepted when mustBeRefresh is set, access tokens only when it is not.
func ParseToken(secret []byte, token string, mustBeRefresh bool) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	if claims.IsRefresh != mustBeRefresh {
		return nil, errors.New("wrong token type")
	}
	return claims, nil
}
