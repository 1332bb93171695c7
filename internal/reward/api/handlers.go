package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type Handler struct {
	service *app.RewardService
}

func NewHandler(service *app.RewardService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/rewards", auth(http.HandlerFunc(h.Summary)))
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	page, pageSize := util.PageParams(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.service.Summary(ctx, middleware.UserID(r.Context()), page, pageSize)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, summary, "")
}
