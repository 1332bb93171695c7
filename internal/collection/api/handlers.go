package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type Handler struct {
	service *app.CollectionService
	logger  *util.Logger
}

func NewHandler(service *app.CollectionService, logger *util.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		h.logger.Warn("CollectionHandler.Create", err.Error())
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.service.Create(ctx, middleware.UserID(r.Context()), input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusCreated, c, "pickup requested")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := util.PageParams(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.service.List(ctx, middleware.UserID(r.Context()), middleware.Role(r.Context()),
		domain.Status(r.URL.Query().Get("status")), page, pageSize)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, list, "")
}

func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	page, pageSize := util.PageParams(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.service.Available(ctx, page, pageSize)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, list, "")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.service.Get(ctx, r.PathValue("id"), middleware.UserID(r.Context()), middleware.Role(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, c, "")
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.service.Accept(ctx, r.PathValue("id"), middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, c, "pickup accepted")
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.service.Start(ctx, r.PathValue("id"), middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, c, "pickup started")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var input domain.CompleteRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.service.Complete(ctx, r.PathValue("id"), middleware.UserID(r.Context()), input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, result, "pickup completed")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var input domain.CancelRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.service.Cancel(ctx, r.PathValue("id"), middleware.UserID(r.Context()), middleware.Role(r.Context()), input.Reason)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, c, "pickup cancelled")
}
