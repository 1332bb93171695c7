package api

import (
	"context"
	"net/http"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type Handler struct {
	service *app.PaymentService
	logger  *util.Logger
}

func NewHandler(service *app.PaymentService, logger *util.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input domain.CalculateRequest
	if err := util.DecodeJSON(r, &input); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	result, err := h.service.Calculate(input)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, result, "")
}

func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	util.ResponseInJson(w, http.StatusOK, h.service.Rates(), "")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := util.PageParams(r)
	filter := domain.ListFilter{
		UserID: middleware.UserID(r.Context()),
		Role:   middleware.Role(r.Context()),
		Status: domain.Status(r.URL.Query().Get("status")),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	payments, err := h.service.List(ctx, filter)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, payments, "")
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.service.Summary(ctx, middleware.UserID(r.Context()), middleware.Role(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, summary, "")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.service.Get(ctx, r.PathValue("id"), middleware.UserID(r.Context()), middleware.Role(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, p, "")
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.service.Confirm(ctx, r.PathValue("id"), middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, p, "payment confirmed")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.service.Complete(ctx, r.PathValue("id"), middleware.UserID(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, p, "payment completed")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.service.Cancel(ctx, r.PathValue("id"), middleware.UserID(r.Context()), middleware.Role(r.Context()))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}
	util.ResponseInJson(w, http.StatusOK, p, "payment cancelled")
}
