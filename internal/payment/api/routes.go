package api

import (
	"net/http"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	customer := middleware.RequireRole(userdomain.RoleCustomer)
	recycler := middleware.RequireRole(userdomain.RoleRecycler)

	// Public price list.
	mux.HandleFunc("POST /api/payments/calculate", h.Calculate)
	mux.HandleFunc("GET /api/payments/rates", h.Rates)

	mux.Handle("GET /api/payments", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/payments/summary", auth(http.HandlerFunc(h.Summary)))
	mux.Handle("GET /api/payments/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/payments/{id}/confirm", auth(customer(http.HandlerFunc(h.Confirm))))
	mux.Handle("POST /api/payments/{id}/complete", auth(recycler(http.HandlerFunc(h.Complete))))
	mux.Handle("POST /api/payments/{id}/cancel", auth(http.HandlerFunc(h.Cancel)))
}
