package cattery

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

func postLogin(a *App, password string) *httptest.ResponseRecorder {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	h := session.Middleware(a.newSessionStore())(a.handleAdminLogin)
	if err := h(c); err != nil {
		a.Echo.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSuccessfulLoginsDoNotTripLimiter(t *testing.T) {
	a := newTestApp(t)
	a.loginLimiter = NewLoginLimiter(1, time.Minute)

	// Only failed attempts count against the window, so repeated correct
	// logins from one IP must all go through.
	for i := 0; i < 5; i++ {
		rec := postLogin(a, a.Config.AdminPassword)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("login %d: status = %d, want %d", i+1, rec.Code, http.StatusSeeOther)
		}
	}
}

func TestFailedLoginsTripLimiter(t *testing.T) {
	a := newTestApp(t)
	a.loginLimiter = NewLoginLimiter(1, time.Minute)
	a.Views.AdminLogin = func(showError bool, csrfToken string) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "login")
			return err
		})
	}

	rec := postLogin(a, "wrong-password")
	if rec.Code != http.StatusOK {
		t.Fatalf("failed login should re-render the form, got %d", rec.Code)
	}

	// The recorded failure exhausts the window; even the right password
	// is turned away until it expires.
	rec = postLogin(a, a.Config.AdminPassword)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}
