package frontend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/hoasite/internal/backend/database"
	"github.com/jo-hoe/hoasite/internal/core"
	"github.com/labstack/echo/v4"
)

type announcementListData struct {
	Announcements []*database.Announcement
	CanManage     bool
}

type announcementForm struct {
	Title string `form:"title" validate:"required,max=120"`
	Body  string `form:"body" validate:"required,max=5000"`
}

func (service *FrontendService) createAnnouncementHandler(ctx echo.Context) error {
	var form announcementForm
	if err := ctx.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid announcement form")
	}
	form.Title = strings.TrimSpace(form.Title)
	form.Body = strings.TrimSpace(form.Body)
	if err := ctx.Validate(&form); err != nil {
		message := "Announcement not posted."
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				message = "Announcement not posted: " + m + "."
			}
		}
		service.addFlash(ctx, FlashDanger, message)
		return ctx.Redirect(http.StatusSeeOther, "/")
	}

	session := currentSession(ctx)
	if _, err := service.coreService.AddAnnouncement(ctx.Request().Context(), form.Title, form.Body, session.UserID); err != nil {
		slog.Error("createAnnouncementHandler: failed to create announcement",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to post announcement")
	}
	slog.Info("announcement posted", "user", session.Username, "title", form.Title)
	service.addFlash(ctx, FlashSuccess, "Announcement posted.")
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (service *FrontendService) htmxDeleteAnnouncementHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		slog.Warn("htmxDeleteAnnouncementHandler: missing announcement id",
			"status", http.StatusBadRequest,
			"route", "/htmx/announcements/:id")
		return ctx.String(http.StatusBadRequest, "Missing announcement ID")
	}

	err := service.coreService.DeleteAnnouncement(ctx.Request().Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		return ctx.String(http.StatusNotFound, "Announcement not found")
	}
	if err != nil {
		slog.Error("htmxDeleteAnnouncementHandler: failed to delete announcement",
			"status", http.StatusInternalServerError, "announcement_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete announcement")
	}
	return service.renderAnnouncementList(ctx)
}

func (service *FrontendService) htmxMoveAnnouncementHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	dir := strings.ToLower(strings.TrimSpace(ctx.QueryParam("dir")))

	err := service.coreService.MoveAnnouncement(ctx.Request().Context(), id, dir)
	switch {
	case errors.Is(err, core.ErrInvalidMove):
		slog.Warn("htmxMoveAnnouncementHandler: invalid params", "id", id, "dir", dir)
		return ctx.String(http.StatusBadRequest, "Invalid parameters")
	case errors.Is(err, database.ErrNotFound):
		return ctx.String(http.StatusBadRequest, "Announcement not found")
	case err != nil:
		slog.Error("htmxMoveAnnouncementHandler: failed to update order", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to update order")
	}
	return service.renderAnnouncementList(ctx)
}

// renderAnnouncementList answers htmx with the refreshed list fragment.
func (service *FrontendService) renderAnnouncementList(ctx echo.Context) error {
	data, err := service.announcementList(ctx.Request().Context(), true)
	if err != nil {
		slog.Error("renderAnnouncementList: failed to list announcements", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list announcements")
	}
	// Prevent caching so the latest state is shown
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, announcementList, data)
}

func (service *FrontendService) announcementList(ctx context.Context, canManage bool) (announcementListData, error) {
	announcements, err := service.coreService.ListAnnouncements(ctx)
	if err != nil {
		return announcementListData{}, err
	}
	return announcementListData{Announcements: announcements, CanManage: canManage}, nil
}
