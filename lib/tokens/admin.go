package tokens

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// AdminTokenMiddleware guards machine-to-machine admin routes with a static
// key. When no token is configured the routes are closed.
func AdminTokenMiddleware(token string) echo.MiddlewareFunc {
	return middleware.KeyAuth(func(auth string, c echo.Context) (bool, error) {
		return token != "" && auth == token, nil
	})
}
