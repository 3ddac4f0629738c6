package httpserver

import (
	"net/http"
	"time"

	"github.com/mvolkova/taskboard/internal/tokens"
)

const refreshCookieName = "refreshToken"

func newRefreshCookie(value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/auth",
		Expires:  time.Now().Add(tokens.RefreshTTL),
		MaxAge:   int(tokens.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteRefreshCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
