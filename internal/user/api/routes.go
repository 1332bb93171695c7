package api

import (
	"net/http"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	recycler := middleware.RequireRole(domain.RoleRecycler)

	mux.Handle("GET /api/users/me", auth(http.HandlerFunc(h.GetMe)))
	mux.Handle("PUT /api/users/me", auth(http.HandlerFunc(h.UpdateMe)))

	mux.Handle("GET /api/recyclers", auth(http.HandlerFunc(h.ListRecyclers)))
	mux.Handle("PUT /api/recyclers/me", auth(recycler(http.HandlerFunc(h.UpsertMyRecycler))))
	mux.Handle("GET /api/recyclers/{id}", auth(http.HandlerFunc(h.GetRecycler)))
}
