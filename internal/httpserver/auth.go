package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvolkova/taskboard/internal/logging"
	"github.com/mvolkova/taskboard/internal/service"
	"github.com/mvolkova/taskboard/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService

	// SecureCookies is off only in local development.
	SecureCookies bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_failed", "status", 409, "reason", "email taken")
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, transport.RegisterResponse{
		User: transport.UserResponse{ID: user.ID, Email: user.Email},
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			// Same body whether the email or the password was wrong.
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	c.SetCookie(newRefreshCookie(res.RefreshToken, h.SecureCookies))

	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken: res.AccessToken,
		User:        transport.UserResponse{ID: res.User.ID, Email: res.User.Email},
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing refresh cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	accessToken, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			l.Warn("refresh_failed", "status", 403, "reason", "token not recognized")
			return echo.NewHTTPError(http.StatusForbidden, "invalid refresh token")
		case errors.Is(err, service.ErrUnauthenticated):
			l.Warn("refresh_failed", "status", 401, "reason", "missing refresh token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
		default:
			l.Error("refresh_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, transport.RefreshResponse{AccessToken: accessToken})
}

// LogOut is idempotent: the cookie is cleared and 204 returned no matter what
// the client presented.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		h.Svc.Logout(ctx, cookie.Value)
	}

	c.SetCookie(deleteRefreshCookie(h.SecureCookies))
	return c.NoContent(http.StatusNoContent)
}
