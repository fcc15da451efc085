package postgate

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/postgate/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.Config.Name, false, CsrfToken(c)))
	}
	return a.renderDashboard(c, "", c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, views.AdminLogin(a.Config.Name, true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleTokenGenerate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	token := GenerateToken()
	if err := a.Tokens.Add(token); err != nil {
		return err
	}
	return a.renderDashboard(c, token, "token generated")
}

func (a *App) handleTokenRevoke(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Tokens.Remove(c.FormValue("token")); err != nil {
		return err
	}
	return a.renderDashboard(c, "", "token revoked")
}

func (a *App) renderDashboard(c echo.Context, minted, msg string) error {
	tokens, err := a.Tokens.List()
	if err != nil {
		return err
	}
	return Render(c, views.AdminDashboard(a.Config.Name, tokens, minted, msg, CsrfToken(c)))
}
