package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type Handler struct {
	service *app.UserService
	logger  *util.Logger
}

func NewHandler(service *app.UserService, logger *util.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.service.GetProfile(ctx, middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, u, "")
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var input domain.UpsertUserRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.service.UpsertProfile(ctx, middleware.UserID(r.Context()), middleware.Email(r.Context()), input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, u, "profile updated")
}

func (h *Handler) ListRecyclers(w http.ResponseWriter, r *http.Request) {
	var near *util.LatLng
	lat, lng := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if lat != "" && lng != "" {
		p, err := util.ParseLatLng(lat + "," + lng)
		if err != nil {
			util.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		near = &p
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.service.ListRecyclers(ctx, near)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, list, "")
}

func (h *Handler) GetRecycler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.service.GetRecycler(ctx, r.PathValue("id"))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, p, "")
}

func (h *Handler) UpsertMyRecycler(w http.ResponseWriter, r *http.Request) {
	var input domain.UpsertRecyclerRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.service.UpsertRecycler(ctx, middleware.UserID(r.Context()), input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, p, "recycler profile saved")
}
