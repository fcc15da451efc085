package postgate

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// apiError is the JSON error body for API responses.
type apiError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func apiErr(c echo.Context, status int, code, message string) error {
	return c.JSON(status, apiError{Success: false, Code: code, Message: message})
}

// bearerAuth gates a route behind the token store. The Authorization
// scheme match is case-insensitive and tolerates extra whitespace
// between scheme and value; the token lookup itself is an exact,
// case-sensitive string comparison. Authorization is boolean — a token
// carries no identity or role.
func (a *App) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		fields := strings.Fields(header)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
			return apiErr(c, http.StatusUnauthorized, "unauthorized", "authentication required.")
		}
		ok, err := a.Tokens.Contains(strings.TrimSpace(fields[1]))
		if err != nil {
			return err
		}
		if !ok {
			return apiErr(c, http.StatusUnauthorized, "invalid_token", "invalid or expired authentication.")
		}
		return next(c)
	}
}
