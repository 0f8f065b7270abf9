package frontend

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend/auth"
	"github.com/labstack/echo/v4"
)

const (
	sessionKey   = "session"
	sessionIDKey = "sessionID"
	flashCookie  = "hoa_flash"
	flashMaxAge  = 60
)

// Flash categories used by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// loadSession resolves the session cookie for every request. A stale cookie
// is removed.
func (service *FrontendService) loadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(service.config.Session.CookieName)
		if err != nil || cookie.Value == "" {
			return next(ctx)
		}
		session, err := service.coreService.Session(ctx.Request().Context(), cookie.Value)
		switch {
		case err == nil:
			ctx.Set(sessionKey, session)
			ctx.Set(sessionIDKey, cookie.Value)
		case errors.Is(err, auth.ErrSessionNotFound):
			service.clearSessionCookie(ctx)
		default:
			slog.Error("loadSession: failed to resolve session", "error", err)
		}
		return next(ctx)
	}
}

// requireRole sends anonymous visitors to the login page and answers 403 to
// residents whose role is too low.
func (service *FrontendService) requireRole(min auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			session := currentSession(ctx)
			if session == nil {
				target := "/login?next=" + url.QueryEscape(ctx.Request().URL.RequestURI())
				if ctx.Request().Header.Get("HX-Request") == "true" {
					ctx.Response().Header().Set("HX-Redirect", target)
					return ctx.NoContent(http.StatusUnauthorized)
				}
				return ctx.Redirect(http.StatusSeeOther, target)
			}
			if !session.Role.AtLeast(min) {
				slog.Warn("requireRole: forbidden", "status", http.StatusForbidden,
					"user", session.Username, "role", session.Role, "required", min, "path", ctx.Path())
				return echo.NewHTTPError(http.StatusForbidden, "You do not have access to this page.")
			}
			return next(ctx)
		}
	}
}

func currentSession(ctx echo.Context) *auth.Session {
	session, _ := ctx.Get(sessionKey).(*auth.Session)
	return session
}

func (service *FrontendService) setSessionCookie(ctx echo.Context, id string, expires time.Time) {
	ctx.SetCookie(&http.Cookie{
		Name:     service.config.Session.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   service.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (service *FrontendService) clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     service.config.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   service.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// addFlash queues a message for the next rendered page.
func (service *FrontendService) addFlash(ctx echo.Context, category, message string) {
	flashes := append(readFlashCookie(ctx), Flash{Category: category, Message: message})
	data, err := json.Marshal(flashes)
	if err != nil {
		slog.Error("addFlash: failed to encode flash", "error", err)
		return
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   service.config.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the queued messages and clears them.
func (service *FrontendService) popFlashes(ctx echo.Context) []Flash {
	flashes := readFlashCookie(ctx)
	if len(flashes) > 0 {
		ctx.SetCookie(&http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   service.config.Session.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func readFlashCookie(ctx echo.Context) []Flash {
	cookie, err := ctx.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
