package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
)

type Handler struct {
	service *app.TrackingService
	ws      *WSManager
	logger  *util.Logger
}

func NewHandler(service *app.TrackingService, ws *WSManager, logger *util.Logger) *Handler {
	return &Handler{service: service, ws: ws, logger: logger}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var input domain.StartRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		h.logger.Warn("TrackingHandler.Start", err.Error())
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, err := h.service.Start(ctx, middleware.UserID(r.Context()), input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusCreated, session, "tracking started")
}

func (h *Handler) ForPickup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, err := h.service.ForPickup(ctx, r.PathValue("pickup_id"),
		middleware.UserID(r.Context()), middleware.Role(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, session, "")
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var input domain.LocationUpdate
	if err := util.DecodeJSON(r, &input); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	// the ETA lookup may call out to the maps API
	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	session, err := h.service.UpdateLocation(ctx, r.PathValue("id"), middleware.UserID(r.Context()), input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, session, "location updated")
}

func (h *Handler) Arrived(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Arrived, "recycler arrived")
}

func (h *Handler) PickingUp(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.PickingUp, "picking up")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete, "tracking completed")
}

type transitionFunc func(ctx context.Context, id, recyclerID string) (*domain.Session, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, err := fn(ctx, r.PathValue("id"), middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, session, msg)
}
