package api

import (
	"net/http"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	customer := middleware.RequireRole(userdomain.RoleCustomer)
	recycler := middleware.RequireRole(userdomain.RoleRecycler)

	mux.Handle("POST /api/collections", auth(customer(http.HandlerFunc(h.Create))))
	mux.Handle("GET /api/collections", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/collections/available", auth(recycler(http.HandlerFunc(h.Available))))
	mux.Handle("GET /api/collections/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/collections/{id}/accept", auth(recycler(http.HandlerFunc(h.Accept))))
	mux.Handle("POST /api/collections/{id}/start", auth(recycler(http.HandlerFunc(h.Start))))
	mux.Handle("POST /api/collections/{id}/complete", auth(recycler(http.HandlerFunc(h.Complete))))
	mux.Handle("POST /api/collections/{id}/cancel", auth(http.HandlerFunc(h.Cancel)))
}
