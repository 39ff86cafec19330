package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"gymdesk/internal/session"
)

// RequireAuth returns a middleware that verifies Firebase session
// cookies, including the revocation check, and threads the resulting
// session through the request context. Requests that fail verification
// never reach the handler.
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication not configured")
			}

			cookie, err := c.Cookie("session")
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			decodedToken, err := authClient.VerifySessionCookieAndCheckRevoked(c.Request().Context(), cookie.Value)
			if err != nil {
				clearCookie := &http.Cookie{
					Name:     "session",
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				}
				c.SetCookie(clearCookie)
				if auth.IsSessionCookieRevoked(err) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			email, _ := decodedToken.Claims["email"].(string)
			sess := session.Authenticated(decodedToken.UID, email)

			ctx := session.NewContext(c.Request().Context(), sess)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
