package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type Handler struct {
	service *app.NotificationService
}

func NewHandler(service *app.NotificationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/notifications", auth(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/notifications/read-all", auth(http.HandlerFunc(h.MarkAllRead)))
	mux.Handle("POST /api/notifications/{id}/read", auth(http.HandlerFunc(h.MarkRead)))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := util.PageParams(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.service.List(ctx, middleware.UserID(r.Context()), unreadOnly, page, pageSize)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, res, "")
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.MarkRead(ctx, r.PathValue("id"), middleware.UserID(r.Context())); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, nil, "notification marked as read")
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := h.service.MarkAllRead(ctx, middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, map[string]int64{"updated": n}, "all notifications marked as read")
}
