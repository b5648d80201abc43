package cattery

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const loginWindow = time.Minute

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
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
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	cats, err := a.Store.ListCats("")
	if err != nil {
		return err
	}
	articles, err := a.Store.ListArticles(false)
	if err != nil {
		return err
	}
	requests, err := a.Store.ListRequests()
	if err != nil {
		return err
	}
	data := DashboardData{
		Cats:     a.catViews(cats),
		Articles: articles,
		Requests: requests,
		Message:  msg,
	}
	return Render(c, a.Views.AdminDashboard(data, CsrfToken(c)))
}
