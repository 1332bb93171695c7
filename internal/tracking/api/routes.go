package api

import (
	"net/http"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

func (h *Handler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	recycler := middleware.RequireRole(userdomain.RoleRecycler)

	mux.Handle("POST /api/tracking", auth(recycler(http.HandlerFunc(h.Start))))
	mux.Handle("GET /api/tracking/pickup/{pickup_id}", auth(http.HandlerFunc(h.ForPickup)))
	mux.Handle("POST /api/tracking/{id}/location", auth(recycler(http.HandlerFunc(h.UpdateLocation))))
	mux.Handle("POST /api/tracking/{id}/arrived", auth(recycler(http.HandlerFunc(h.Arrived))))
	mux.Handle("POST /api/tracking/{id}/picking-up", auth(recycler(http.HandlerFunc(h.PickingUp))))
	mux.Handle("POST /api/tracking/{id}/complete", auth(recycler(http.HandlerFunc(h.Complete))))

	// The socket authenticates with its first message, not a header.
	if h.ws != nil {
		mux.HandleFunc("GET /ws/customers/{customer_id}", h.ws.CustomerWSHandler)
	}
}
