package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/admin/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type Handler struct {
	service *app.AdminService
}

func NewHandler(service *app.AdminService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	admin := middleware.RequireRole(userdomain.RoleAdmin)

	mux.Handle("GET /api/admin/overview", auth(admin(http.HandlerFunc(h.Overview))))
	mux.Handle("GET /api/admin/db-stats", auth(admin(http.HandlerFunc(h.DBStats))))
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	overview, err := h.service.Overview(ctx)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, overview, "")
}

func (h *Handler) DBStats(w http.ResponseWriter, r *http.Request) {
	util.ResponseInJson(w, http.StatusOK, h.service.DBStats(), "")
}
