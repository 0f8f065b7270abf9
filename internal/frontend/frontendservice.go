package frontend

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/hoasite/internal/backend/auth"
	"github.com/jo-hoe/hoasite/internal/backend/chart"
	"github.com/jo-hoe/hoasite/internal/common"
	"github.com/jo-hoe/hoasite/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	mimePNG  = "image/png"
	mimeSVG  = "image/svg+xml"
	iconSize = 180
)

// LoginObserver is told about every login attempt.
type LoginObserver interface {
	ObserveLogin(ok bool)
}

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
	logins      LoginObserver
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService, logins LoginObserver) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
		logins:      logins,
	}
}

// Page is the data every full page template receives.
type Page struct {
	SiteName string
	Title    string
	Active   string
	Session  *auth.Session
	Flashes  []Flash
	Contact  string
	Data     any
}

// CanManage reports whether the visitor may edit announcements.
func (p Page) CanManage() bool {
	return p.Session != nil && p.Session.Role.AtLeast(auth.RoleBoard)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) error {
	renderer, err := NewTemplate()
	if err != nil {
		return err
	}
	e.Renderer = renderer
	e.Validator = common.NewFormValidator()
	e.HTTPErrorHandler = service.errorHandler

	e.Use(service.loadSession)

	e.GET("/", service.homeHandler)
	e.GET("/about", service.aboutHandler)
	e.GET("/contact", service.contactHandler)
	e.GET("/login", service.loginPageHandler)
	e.POST("/login", service.loginHandler)
	e.GET("/logout", service.logoutHandler, service.requireRole(auth.RoleMember))

	member := e.Group("/dashboard", service.requireRole(auth.RoleMember))
	member.GET("", service.dashboardHandler)
	member.GET("/export.csv", service.exportHandler)
	member.GET("/chart/:file", service.chartPNGHandler)

	e.POST("/announcements", service.createAnnouncementHandler, service.requireRole(auth.RoleBoard))
	board := e.Group("/htmx/announcements", service.requireRole(auth.RoleBoard))
	board.DELETE("/:id", service.htmxDeleteAnnouncementHandler)
	board.POST("/:id/move", service.htmxMoveAnnouncementHandler)

	// Favicon routes
	e.GET("/icon.svg", service.iconHandler)
	e.GET("/icon.png", service.iconPNGHandler)
	return nil
}

func (service *FrontendService) page(ctx echo.Context, title, active string, data any) Page {
	return Page{
		SiteName: service.config.SiteName,
		Title:    title,
		Active:   active,
		Session:  currentSession(ctx),
		Flashes:  service.popFlashes(ctx),
		Contact:  service.config.Contact,
		Data:     data,
	}
}

func (service *FrontendService) homeHandler(ctx echo.Context) error {
	p := service.page(ctx, "Home", "home", nil)
	data, err := service.announcementList(ctx.Request().Context(), p.CanManage())
	if err != nil {
		slog.Error("homeHandler: failed to list announcements",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load announcements")
	}
	p.Data = data
	return ctx.Render(http.StatusOK, "home.html", p)
}

func (service *FrontendService) aboutHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "about.html", service.page(ctx, "About", "about", nil))
}

func (service *FrontendService) contactHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "contact.html", service.page(ctx, "Contact", "contact", nil))
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=64"`
	Password string `form:"password" validate:"required,max=256"`
	Next     string `form:"next"`
}

func (service *FrontendService) loginPageHandler(ctx echo.Context) error {
	if currentSession(ctx) != nil {
		return ctx.Redirect(http.StatusSeeOther, auth.SafeRedirect(ctx.QueryParam("next")))
	}
	p := service.page(ctx, "Log in", "login", loginForm{Next: ctx.QueryParam("next")})
	return ctx.Render(http.StatusOK, "login.html", p)
}

func (service *FrontendService) loginHandler(ctx echo.Context) error {
	var form loginForm
	if err := ctx.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login form")
	}
	form.Username = strings.TrimSpace(form.Username)
	if form.Next == "" {
		form.Next = ctx.QueryParam("next")
	}
	if err := ctx.Validate(&form); err != nil {
		return service.loginFailed(ctx, form)
	}

	id, session, err := service.coreService.Login(ctx.Request().Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Info("loginHandler: rejected credentials", "username", form.Username)
		return service.loginFailed(ctx, form)
	}
	if err != nil {
		slog.Error("loginHandler: failed to log in",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login is unavailable right now")
	}
	service.observeLogin(true)

	service.setSessionCookie(ctx, id, session.ExpiresAt)
	service.addFlash(ctx, FlashSuccess, "Logged in successfully.")
	return ctx.Redirect(http.StatusSeeOther, auth.SafeRedirect(form.Next))
}

func (service *FrontendService) loginFailed(ctx echo.Context, form loginForm) error {
	service.observeLogin(false)
	form.Password = ""
	p := service.page(ctx, "Log in", "login", form)
	p.Flashes = append(p.Flashes, Flash{Category: FlashDanger, Message: "Invalid username or password."})
	return ctx.Render(http.StatusUnauthorized, "login.html", p)
}

func (service *FrontendService) observeLogin(ok bool) {
	if service.logins != nil {
		service.logins.ObserveLogin(ok)
	}
}

func (service *FrontendService) logoutHandler(ctx echo.Context) error {
	if id, ok := ctx.Get(sessionIDKey).(string); ok {
		if err := service.coreService.Logout(ctx.Request().Context(), id); err != nil {
			slog.Error("logoutHandler: failed to delete session", "error", err)
		}
	}
	service.clearSessionCookie(ctx)
	service.addFlash(ctx, FlashSuccess, "You have been logged out.")
	return ctx.Redirect(http.StatusSeeOther, "/")
}

// errorHandler renders HTTP errors as a page, or as plain text for htmx and
// non-HTML clients.
func (service *FrontendService) errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		slog.Error("unhandled error", "error", err, "path", ctx.Path())
	}

	var renderErr error
	switch {
	case ctx.Request().Method == http.MethodHead:
		renderErr = ctx.NoContent(code)
	case ctx.Request().Header.Get("HX-Request") == "true",
		!strings.Contains(ctx.Request().Header.Get(echo.HeaderAccept), "html"):
		renderErr = ctx.String(code, message)
	default:
		p := service.page(ctx, http.StatusText(code), "", errorData{Code: code, Message: message})
		renderErr = ctx.Render(code, "error.html", p)
	}
	if renderErr != nil {
		slog.Error("errorHandler: failed to write error response", "error", renderErr)
	}
}

type errorData struct {
	Code    int
	Message string
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := viewsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}

func (service *FrontendService) iconPNGHandler(ctx echo.Context) error {
	data, err := viewsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconPNGHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	png, err := chart.RenderIcon(data, iconSize)
	if err != nil {
		slog.Error("iconPNGHandler: failed to render icon", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render icon")
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimePNG, png)
}
